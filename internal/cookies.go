package internal

const (
	COOKIE_ACCESS_TOKEN_NAME = "portal_access_token"
	COOKIE_REDIRECT_NAME     = "portal_redirect"
	COOKIE_SESSION_NAME      = "portal_session"
)
