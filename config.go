package gymauth

import (
	"github.com/kelseyhightower/envconfig"
)

// AppConfig is the environment-driven implementation of Config. Every field
// carries a default so a zero environment yields a working local setup.
type AppConfig struct {
	BaseURL              string `envconfig:"BASE_URL" default:"http://localhost:8080/api"`
	ContextKey           string `envconfig:"CONTEXT_KEY" default:"user"`
	AuthScheme           string `envconfig:"AUTH_SCHEME" default:"Bearer"`
	LoginRoute           string `envconfig:"LOGIN_ROUTE" default:"/login"`
	UnauthorizedRoute    string `envconfig:"UNAUTHORIZED_ROUTE" default:"/unauthorized"`
	RejectedRouteKey     string `envconfig:"REJECTED_ROUTE_KEY" default:"rejected_route"`
	RejectedRouteDefault string `envconfig:"REJECTED_ROUTE_DEFAULT" default:"/dashboard"`
	StorageDSN           string `envconfig:"STORAGE_DSN" default:"file::memory:?cache=shared"`
}

var _ Config = (*AppConfig)(nil)

// LoadConfig reads configuration from GYMAUTH_ prefixed environment variables
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := envconfig.Process("gymauth", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) GetBaseURL() string {
	return c.BaseURL
}

func (c *AppConfig) GetContextKey() string {
	return c.ContextKey
}

func (c *AppConfig) GetAuthScheme() string {
	return c.AuthScheme
}

func (c *AppConfig) GetLoginRoute() string {
	return c.LoginRoute
}

func (c *AppConfig) GetUnauthorizedRoute() string {
	return c.UnauthorizedRoute
}

func (c *AppConfig) GetRejectedRouteKey() string {
	return c.RejectedRouteKey
}

func (c *AppConfig) GetRejectedRouteDefault() string {
	return c.RejectedRouteDefault
}

func (c *AppConfig) GetStorageDSN() string {
	return c.StorageDSN
}
