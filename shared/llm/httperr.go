package llm

import (
	"errors"
	"fmt"
)

// HTTPError carries a vendor HTTP status alongside the vendor's message so
// the classifier can map it. Status 0 means no status was observed.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// HandleHTTPError converts a raw vendor error into one stable,
// operation-scoped message. Pure function of its inputs: it never returns
// the original error and never panics. An empty providerName defaults to
// "Provider"; a missing message to "Unknown error".
func HandleHTTPError(err error, operation, providerName string) error {
	if providerName == "" {
		providerName = "Provider"
	}

	msg := "Unknown error"
	status := 0
	var he *HTTPError
	if errors.As(err, &he) {
		status = he.Status
		if he.Message != "" {
			msg = he.Message
		}
	} else if err != nil && err.Error() != "" {
		msg = err.Error()
	}

	switch status {
	case 0:
		return fmt.Errorf("%s error during %s: %s (status: N/A)", providerName, operation, msg)
	case 400:
		return fmt.Errorf("Bad request during %s: %s", operation, msg)
	case 403:
		return fmt.Errorf("Forbidden (403) during %s: check your API key — %s", operation, msg)
	case 429:
		return fmt.Errorf("Rate limit exceeded (429) during %s: %s", operation, msg)
	case 500:
		return fmt.Errorf("%s returned an unexpected error during %s: %s", providerName, operation, msg)
	case 503:
		return fmt.Errorf("Service unavailable (503) from %s during %s: %s", providerName, operation, msg)
	case 504:
		return fmt.Errorf("Gateway timeout (504) during %s: %s", operation, msg)
	default:
		return fmt.Errorf("%s error (%d) during %s: %s", providerName, status, operation, msg)
	}
}
