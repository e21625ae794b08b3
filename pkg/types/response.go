// Package types holds the JSON envelopes every API response uses, so
// the dashboard and form clients can rely on one shape for reports,
// submissions, and errors alike.
package types

// SuccessEnvelope wraps a successful payload (a report, a submit
// receipt, a record listing) under a single data key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error body. Details carries structured
// context such as the retry attempt count on a ledger outage.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
