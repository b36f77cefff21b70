package ir

// Version constants for the model schema and the tool.
const (
	// ModelVersion is the model schema version written into audit records.
	ModelVersion = "1"

	// ToolVersion is the vcomp version.
	ToolVersion = "0.1.0"
)
