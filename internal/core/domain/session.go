package domain

// SessionAttrs is the bag of identity attributes a successful login writes
// into the session store. Handlers never touch session internals directly;
// they only see these three fields.
type SessionAttrs struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// ProviderProfile is the normalized identity returned by an external
// provider after the authorization-code exchange.
type ProviderProfile struct {
	Subject       string
	Email         string
	EmailVerified bool
	DisplayName   string
}
