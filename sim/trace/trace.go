package trace

// TraceLevel controls the verbosity of cascade tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDrops captures one DropRecord per dropped grain.
	TraceLevelDrops TraceLevel = "drops"
)

var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:  true,
	TraceLevelDrops: true,
	"":              true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether any records should be collected.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelDrops
}

// CascadeTrace collects drop records during a run.
type CascadeTrace struct {
	Config TraceConfig
	Drops  []DropRecord
}

// NewCascadeTrace creates a CascadeTrace ready for recording.
func NewCascadeTrace(config TraceConfig) *CascadeTrace {
	return &CascadeTrace{
		Config: config,
		Drops:  make([]DropRecord, 0),
	}
}

// RecordDrop appends a drop record.
func (ct *CascadeTrace) RecordDrop(record DropRecord) {
	ct.Drops = append(ct.Drops, record)
}
