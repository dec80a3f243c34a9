package a2a

import "time"

// AuthScheme discriminates the PushNotificationConfig.AuthenticationInfo
// tagged variant.
type AuthScheme string

const (
	AuthSchemeBearer AuthScheme = "bearer"
	AuthSchemeAPIKey AuthScheme = "apiKey"
	AuthSchemeBasic  AuthScheme = "basic"
)

// AuthenticationInfo is a tagged variant: exactly the fields relevant to
// Scheme are populated. Values here are opaque, client-supplied
// credentials — the dispatcher never mints or signs them.
type AuthenticationInfo struct {
	Scheme AuthScheme `json:"scheme"`

	Token string `json:"token,omitempty"` // bearer

	Key        string `json:"key,omitempty"`        // apiKey
	HeaderName string `json:"headerName,omitempty"` // apiKey, default X-API-Key

	Username string `json:"username,omitempty"` // basic
	Password string `json:"password,omitempty"` // basic
}

// PushNotificationConfig is a registered webhook, owned by exactly one
// task id.
type PushNotificationConfig struct {
	ID                 string              `json:"id"`
	TaskID             string              `json:"taskId"`
	WebhookURL         string              `json:"webhookUrl"`
	AuthenticationInfo *AuthenticationInfo `json:"authenticationInfo,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
}
