package cli

// Command error codes. Load and validation codes come from the compiler
// package (E001-E006, E100-E199).
const (
	ErrCodeWriteFailed  = "E007" // File write error
	ErrCodeUnknownQuery = "E008" // Query not defined in specs
	ErrCodeBadBinding   = "E009" // Malformed --bind value
	ErrCodeCompensate   = "E010" // Translation or rendering failed
	ErrCodeStore        = "E011" // Audit database error
)
