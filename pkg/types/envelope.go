package types

// Envelope is the single JSON object emitted on stdout in --json mode
type Envelope struct {
	Success   bool     `json:"success"`
	Report    *string  `json:"report"`
	Citations []string `json:"citations"`
	Error     string   `json:"error,omitempty"`
}

// NewSuccessEnvelope wraps a report string
func NewSuccessEnvelope(report string) Envelope {
	return Envelope{
		Success:   true,
		Report:    &report,
		Citations: []string{},
	}
}

// NewErrorEnvelope wraps a failure. A nil or blank error still yields a
// non-empty error message.
func NewErrorEnvelope(err error) Envelope {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Envelope{
		Success:   false,
		Report:    nil,
		Citations: []string{},
		Error:     msg,
	}
}
