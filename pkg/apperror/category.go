package apperror

import "github.com/go-logr/logr"

// Category classifies an error by how it should be handled by telemetry:
// whether it is worth reporting at all, and whether its payload may carry
// personal data that must be stripped before reporting.
type Category int

const (
	// CategoryExpected is a normal, anticipated failure (wrong PIN,
	// expired token) that needs no telemetry at all.
	CategoryExpected Category = iota
	// CategoryCritical is an unanticipated failure worth reporting in
	// full detail.
	CategoryCritical
	// CategoryPersonalData is like CategoryCritical but its message may
	// contain personal data, so only the error's type/code is reported,
	// never its description.
	CategoryPersonalData
	// CategoryUnexpected indicates a programming error that should be
	// unreachable; the caller is expected to treat this as fatal, the
	// way the original panics rather than merely logging.
	CategoryUnexpected
)

func (c Category) String() string {
	switch c {
	case CategoryExpected:
		return "expected"
	case CategoryCritical:
		return "critical"
	case CategoryPersonalData:
		return "personal_data"
	case CategoryUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// Capture reports err to log according to its Category: Expected errors
// are logged at debug level only, Critical errors are logged with full
// detail, PersonalData errors are logged with only their code (never
// Description, which may hold user input), and Unexpected errors panic,
// since by definition the code path that produced one should not exist.
func Capture(log logr.Logger, err *Error) {
	switch err.Category {
	case CategoryExpected:
		log.V(1).Info("expected error, not reporting", "code", err.Code)
	case CategoryCritical:
		log.Error(err, "critical error", "code", err.Code, "description", err.Description)
	case CategoryPersonalData:
		log.Error(err, "critical error with possible personal data, description withheld", "code", err.Code)
	case CategoryUnexpected:
		panic(err)
	}
}
