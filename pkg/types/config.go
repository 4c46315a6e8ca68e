package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`

	// Backend REST API
	APIBaseURL    string `envconfig:"API_BASE_URL"`
	APITimeoutSec uint   `envconfig:"API_TIMEOUT_SEC" default:"30"`

	// Cognito Auth
	CognitoClientID string `envconfig:"COGNITO_CLIENT_ID"`

	// Attachments are stored by the backend in this bucket under the
	// references it returns on each application.
	AttachmentBucket     string `envconfig:"ATTACHMENT_BUCKET"`
	AttachmentLinkTTLMin uint   `envconfig:"ATTACHMENT_LINK_TTL_MIN" default:"15"`

	// Upper bound on the memory held by unsent form drafts, per form.
	DraftMemoryMB uint `envconfig:"DRAFT_MEMORY_MB" default:"256"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes
}
