// Package exitcode defines named exit codes for the tripcost CLI.
//
// Each code maps a specific termination condition to a numeric value
// recognized by shell scripts and CI pipelines.
package exitcode

// Exit code constants for the tripcost CLI.
const (
	Success           = 0   // Command completed
	UsageError        = 1   // Invalid args, file not found, misconfiguration
	ProviderFailure   = 2   // Estimation call failed (timeout, quota, credentials)
	ValidationFailure = 3   // Model response failed parsing or range checks
	StoreFailure      = 4   // Plan store could not be read or written
	Interrupted       = 130 // SIGINT/SIGTERM received
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case UsageError:
		return "UsageError"
	case ProviderFailure:
		return "ProviderFailure"
	case ValidationFailure:
		return "ValidationFailure"
	case StoreFailure:
		return "StoreFailure"
	case Interrupted:
		return "Interrupted"
	default:
		return "unknown"
	}
}
