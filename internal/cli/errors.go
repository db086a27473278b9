package cli

// Error codes reported in CLI responses.
const (
	ErrCodeGeneric     = "GENERIC"
	ErrCodeConfig      = "CONFIG"
	ErrCodeFlowLoad    = "FLOW_LOAD"
	ErrCodeValidation  = "VALIDATION"
	ErrCodeWriteFailed = "WRITE_FAILED"
	ErrCodePatch       = "PATCH"
	ErrCodeHistory     = "HISTORY"
	ErrCodeExists      = "ALREADY_EXISTS"
)
