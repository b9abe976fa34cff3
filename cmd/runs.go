package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/soc-sim/sandpile/sim/archive"
)

var (
	// CLI flags for the runs command
	runsArchiveDB string // SQLite archive to read
	runsShow      int64  // Run id whose report is printed (0 = list)
)

// runsCmd lists runs stored in a SQLite archive
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List runs stored in a SQLite archive",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging(logLevel)
		if runsArchiveDB == "" {
			logrus.Fatalf("--archive is required")
		}
		a, err := archive.Open(runsArchiveDB)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		defer a.Close()

		ctx := context.Background()
		if runsShow > 0 {
			report, err := a.LoadReport(ctx, runsShow)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			if err := report.Print(os.Stdout); err != nil {
				logrus.Fatalf("%v", err)
			}
			return
		}
		if err := listRuns(ctx, a, os.Stdout); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func registerRunsFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&runsArchiveDB, "archive", "", "SQLite archive database")
	cmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().Int64Var(&runsShow, "show", 0, "Print the stored report of this run id")
}

func listRuns(ctx context.Context, a *archive.Archive, w io.Writer) error {
	runs, err := a.ListRuns(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No archived runs.")
		return nil
	}
	fmt.Fprintf(w, "%-5s %-20s %-6s %-9s %-10s %-10s %-8s %-10s %s\n",
		"ID", "CREATED", "SIZE", "THRESHOLD", "TOPOLOGY", "ITERS", "WEIGHT", "TOPPLINGS", "MAX")
	for _, r := range runs {
		fmt.Fprintf(w, "%-5d %-20s %-6d %-9d %-10s %-10d %-8s %-10d %d\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Size, r.Threshold, r.Topology,
			r.Iterations, strconv.FormatFloat(r.CenterWeight, 'g', 4, 64), r.TotalTopplings, r.MaxAvalanche)
	}
	return nil
}
