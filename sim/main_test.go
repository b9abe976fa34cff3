package sim

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestMain(m *testing.M) {
	// Truncation warnings and per-drop debug lines are noisy in long runs.
	// SANDPILE_DEBUG=1 go test ./sim/... -v keeps them.
	if os.Getenv("SANDPILE_DEBUG") == "" {
		logrus.SetLevel(logrus.ErrorLevel)
	}
	os.Exit(m.Run())
}
