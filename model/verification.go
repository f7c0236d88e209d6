package model

import "time"

type Feature struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// KycLinkRequest asks the compliance service for a verification session for an entity
// (or one of its members).
type KycLinkRequest struct {
	MemberID   string `json:"memberId,omitempty"`
	SuccessURL string `json:"successUrl"`
	FailureURL string `json:"failureUrl"`
}

// KycLink is either an embeddable widget token or a hosted verification page.
type KycLink struct {
	Provider string `json:"provider,omitempty"`
	SDKToken string `json:"sdkToken,omitempty"`
	WebHref  string `json:"web_href,omitempty"`
}

// Embedded reports whether the link carries a token for the embedded widget.
func (k KycLink) Embedded() bool {
	return k.SDKToken != ""
}

// PresignedPost describes a direct-to-storage POST: every field must be sent as a form field
// and the object key is Prefix + filename.
type PresignedPost struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
	Prefix string            `json:"prefix"`
}

type PresignedPostRequest struct {
	MemberID string `json:"memberId,omitempty"`
}

type NotificationType string

const (
	NotificationWebhook NotificationType = "WEBHOOK"
)

// Notification is a webhook subscription registered with the compliance service.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	URL       string           `json:"url"`
	Active    bool             `json:"active"`
	CreatedAt time.Time        `json:"createdAt"`
}

type CreateNotification struct {
	Type NotificationType `json:"type"`
	URL  string           `json:"url"`
}
