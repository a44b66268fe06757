package models

const (
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeCreated         = "created"
	OutcomeFailed          = "failed"
)

// Outcome is the result of one booking attempt. Unauthenticated is a routing
// signal, not an error: SignInURL tells the caller where to send the user.
type Outcome struct {
	Kind      string   `json:"kind"`
	Record    *Booking `json:"record,omitempty"`
	Message   string   `json:"message,omitempty"`
	SignInURL string   `json:"sign_in_url,omitempty"`
}

func (o Outcome) Created() bool         { return o.Kind == OutcomeCreated }
func (o Outcome) Unauthenticated() bool { return o.Kind == OutcomeUnauthenticated }
