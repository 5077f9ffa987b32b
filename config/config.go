// Package config holds the process configuration. Values come from flags
// and LEARNPORTAL_ prefixed environment variables.
package config

import (
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/irsalhamdi/learnportal/httpx"
	"github.com/irsalhamdi/learnportal/store/sqlstore"
)

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type Cors struct {
	Origin string
}

// Store selects where the listings are read from. The rest driver talks to
// the hosted backend; postgres reads the tables directly.
type Store struct {
	Driver       string        `conf:"default:rest"`
	URL          string        `conf:"default:http://localhost:54321"`
	AnonKey      string        `conf:"mask"`
	Timeout      time.Duration `conf:"default:10s"`
	RetryMax     int           `conf:"default:1"`
	RetryBackoff time.Duration `conf:"default:200ms"`
}

func (s Store) Retry() httpx.RetryConfig {
	return httpx.RetryConfig{MaxAttempts: s.RetryMax, BaseDelay: s.RetryBackoff}
}

type DB struct {
	User         string `conf:"default:postgres"`
	Password     string `conf:"default:postgres,mask"`
	Host         string `conf:"default:localhost:5432"`
	Name         string `conf:"default:learnportal"`
	MaxIdleConns int    `conf:"default:2"`
	MaxOpenConns int    `conf:"default:0"`
	DisableTLS   bool   `conf:"default:true"`
	Migrate      bool   `conf:"default:false"`
}

func (d DB) Conn() sqlstore.Config {
	return sqlstore.Config{
		User:         d.User,
		Password:     d.Password,
		Host:         d.Host,
		Name:         d.Name,
		DisableTLS:   d.DisableTLS,
		MaxIdleConns: d.MaxIdleConns,
		MaxOpenConns: d.MaxOpenConns,
	}
}

type Auth struct {
	Timeout time.Duration `conf:"default:10s"`
}

type Provider struct {
	Client      string
	Secret      string `conf:"mask"`
	URL         string `conf:"default:https://accounts.google.com"`
	RedirectURL string `conf:"default:http://localhost:8000/auth/oauth-callback/google"`
}

type Oauth struct {
	Google           Provider
	DiscoveryTimeout time.Duration `conf:"default:10s"`
	LoginRedirectURL string        `conf:"default:http://localhost:3000/dashboard"`
}

type Session struct {
	Lifetime    time.Duration `conf:"default:24h"`
	IdleTimeout time.Duration `conf:"default:0s"`
	CookieName  string        `conf:"default:session"`
	Secure      bool          `conf:"default:false"`
}

// Redis keeps sessions across restarts. An empty address keeps them in memory.
type Redis struct {
	Address  string
	Password string `conf:"mask"`
	DB       int    `conf:"default:0"`
}

type Rate struct {
	Enabled bool          `conf:"default:true"`
	RPS     float64       `conf:"default:10"`
	Burst   int           `conf:"default:20"`
	Expiry  time.Duration `conf:"default:3m"`
}

type Config struct {
	conf.Version
	Web     Web
	Cors    Cors
	Store   Store
	DB      DB
	Auth    Auth
	Oauth   Oauth
	Session Session
	Redis   Redis
	Rate    Rate
}
