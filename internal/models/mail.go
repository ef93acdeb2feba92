package models

import "time"

// Recipient identifies who a code's mail is addressed to. Entries are
// resolved from the catalog directory and immutable once resolved.
type Recipient struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

// Template is the message template registered for a code. Subject and Body
// contain flat {PlaceholderName} tokens that the renderer substitutes.
// DataKeys documents the data set keys the body expects; it is informational
// and part of the contract between a template and its data source.
type Template struct {
	Code        string   `json:"code"`
	Subject     string   `json:"subject"`
	Body        string   `json:"body"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	DataKeys    []string `json:"data_keys,omitempty"`
}

// DataSet holds the named values a data source produced for one
// (code, date) pair. Values must be convertible to text; nil renders as an
// empty string.
type DataSet map[string]any

// MailContent is a fully rendered message ready for delivery. On success no
// reserved placeholder remains in Subject or Body.
type MailContent struct {
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	RecipientEmail string `json:"recipient_email"`
	RecipientName  string `json:"recipient_name"`
	SenderEmail    string `json:"sender_email"`
	SenderName     string `json:"sender_name"`
}

// DispatchRequest is the caller input for a send operation.
type DispatchRequest struct {
	Code              string    `json:"code"`
	Date              time.Time `json:"date"`
	AdditionalMessage string    `json:"additional_message,omitempty"`
}

// DispatchResult reports the outcome of a dispatch. SentAt and
// RecipientEmail are populated only on success; Message always carries a
// human-readable status.
type DispatchResult struct {
	Success        bool      `json:"success"`
	Message        string    `json:"message"`
	MessageID      string    `json:"message_id,omitempty"`
	SentAt         time.Time `json:"sent_at,omitempty"`
	RecipientEmail string    `json:"recipient_email,omitempty"`
}

// CodeInfo describes one registered code for consumer-facing listings.
type CodeInfo struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Department  string `json:"department"`
}
