package models

const (
	SeverityNormal      = "normal"
	SeverityDestructive = "destructive"
)

// Notification is a fire-and-forget toast-style message surfaced to the
// user. It carries no delivery guarantee and no reply channel.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}
