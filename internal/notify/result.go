// Package notify delivers outbound messages (email, WhatsApp, calendar
// invites) for the assistant's tool calls and owner notifications.
//
// Senders fail soft: a disabled channel or missing credentials produce a
// failed Result rather than an error, so a chat reply is never lost to a
// misconfigured mail server.
package notify

// Result reports the outcome of a single delivery attempt.
type Result struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Detail  map[string]string `json:"detail,omitempty"`
}

// Ok builds a successful result.
func Ok(message string) Result {
	return Result{Success: true, Message: message}
}

// Failed builds a failed result.
func Failed(message string) Result {
	return Result{Success: false, Message: message}
}

// WithDetail attaches a key/value pair to the result.
func (r Result) WithDetail(key, value string) Result {
	if r.Detail == nil {
		r.Detail = make(map[string]string, 1)
	}
	r.Detail[key] = value
	return r
}
