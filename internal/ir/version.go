package ir

// Version constants for the record schema and compiler.
const (
	// RecordVersion is the configuration record schema version.
	RecordVersion = "1"

	// CompilerVersion is the widgetc compiler version.
	CompilerVersion = "0.1.0"
)
