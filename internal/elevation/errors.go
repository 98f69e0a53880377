package elevation

import "github.com/rotisserie/eris"

// Failure kinds surfaced by the service. Every error leaving the service
// wraps exactly one of these; callers classify with eris.Is.
var (
	// ErrInvalidInput marks a request rejected before any remote work.
	ErrInvalidInput = eris.New("invalid input")

	// ErrNotFound marks an identifier that is well-formed but matches no
	// published geography or population center.
	ErrNotFound = eris.New("not found")

	// ErrRetrieval marks a failure talking to a remote data source after
	// transport-level retries were exhausted.
	ErrRetrieval = eris.New("retrieval failure")

	// ErrNoCoverage marks a resolved geography whose polygon retained no
	// elevation cells after masking.
	ErrNoCoverage = eris.New("no elevation coverage")
)

// Kind names the failure kind of a service error, or "" when the error
// carries none. Used for log fields and HTTP status mapping.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case eris.Is(err, ErrInvalidInput):
		return "invalid_input"
	case eris.Is(err, ErrNotFound):
		return "not_found"
	case eris.Is(err, ErrNoCoverage):
		return "no_coverage"
	case eris.Is(err, ErrRetrieval):
		return "retrieval_failure"
	default:
		return ""
	}
}
