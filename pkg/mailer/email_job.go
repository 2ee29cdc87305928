package mailer

// EmailJob is the message queued for the email worker. A job either names a
// Template rendered from Data, or carries a ready Subject/Text/HTML.
type EmailJob struct {
	To       string         `json:"to"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`

	Subject string `json:"subject,omitempty"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}
