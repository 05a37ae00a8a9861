package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Session SessionConfig
	Google  GoogleConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=inventory_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SessionConfig struct {
	CookieName string        `env:"SESSION_COOKIE,  default=session_id"`
	TTL        time.Duration `env:"SESSION_TTL,     default=24h"`
	StateTTL   time.Duration `env:"OAUTH_STATE_TTL, default=10m"`
}

// GoogleConfig configures the external identity provider. The endpoint
// fields exist so tests and self-hosted IdPs can override Google's URLs.
type GoogleConfig struct {
	ClientID     string        `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string        `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string        `env:"GOOGLE_REDIRECT_URL"`
	AuthURL      string        `env:"GOOGLE_AUTH_URL"`
	TokenURL     string        `env:"GOOGLE_TOKEN_URL"`
	UserInfoURL  string        `env:"GOOGLE_USERINFO_URL"`
	Scopes       []string      `env:"GOOGLE_SCOPES,  default=openid,email,profile"`
	Timeout      time.Duration `env:"OAUTH_TIMEOUT,  default=10s"`
}

// CookieSecure reports whether session cookies should carry the Secure flag.
func (c *Config) CookieSecure() bool {
	return c.Env != "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
