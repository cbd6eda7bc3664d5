package domain

import "fmt"

// ProviderHTTPError reports a provider response with a failure status after
// the client's retries were exhausted. Transport-level failures (timeouts,
// connection errors) are returned as wrapped errors instead, so the two are
// distinguishable with errors.As.
type ProviderHTTPError struct {
	Status int
	Body   string
}

func (e *ProviderHTTPError) Error() string {
	return fmt.Sprintf("provider request failed with status %d: %s", e.Status, e.Body)
}

// NoDataError reports an aggregation attempt for a date with no stored NEO
// rows. An aggregate over zero rows is never valid, so this is an explicit
// failure rather than a zero-valued result.
type NoDataError struct {
	Date string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no NEO data found for date: %s", e.Date)
}
