package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardanlabs/conf/v3"
	"github.com/irsalhamdi/learnportal/api"
	"github.com/irsalhamdi/learnportal/config"
	"github.com/irsalhamdi/learnportal/core/auth"
	"github.com/irsalhamdi/learnportal/core/curriculum"
	"github.com/irsalhamdi/learnportal/core/resource"
	"github.com/irsalhamdi/learnportal/rate"
	"github.com/irsalhamdi/learnportal/session"
	"github.com/irsalhamdi/learnportal/store"
	"github.com/irsalhamdi/learnportal/store/rest"
	"github.com/irsalhamdi/learnportal/store/sqlstore"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var build = "develop"

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if err := Run(log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func Run(logger *logrus.Logger) error {
	const prefix = "LEARNPORTAL"
	cfg := config.Config{
		Version: conf.Version{
			Build: build,
			Desc:  "learning portal listing service",
		},
	}
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	logger.WithField("build", build).Info("starting server")
	defer logger.Info("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	logger.Infof("config:\n%s", out)

	lw := logger.Writer()
	defer lw.Close()
	errLog := log.New(lw, "", 0)

	st, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var rdb redis.UniversalClient
	if cfg.Redis.Address != "" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		client, err := session.Connect(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer client.Close()
		rdb = client
		logger.WithField("addr", cfg.Redis.Address).Info("sessions stored in redis")
	}

	sessionManager := session.NewManager(session.Config{
		Lifetime:    cfg.Session.Lifetime,
		IdleTimeout: cfg.Session.IdleTimeout,
		CookieName:  cfg.Session.CookieName,
		Secure:      cfg.Session.Secure,
	}, rdb)

	authClient, err := auth.NewClient(auth.ClientConfig{
		URL:     cfg.Store.URL,
		AnonKey: cfg.Store.AnonKey,
		Timeout: cfg.Auth.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to build the auth client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Oauth.DiscoveryTimeout)
	defer cancel()
	google := cfg.Oauth.Google
	oauthProvs, err := auth.MakeProviders(ctx, []auth.ProviderConfig{
		{Name: "google", Client: google.Client, Secret: google.Secret, URL: google.URL, RedirectURL: google.RedirectURL},
	})
	if err != nil {
		return fmt.Errorf("failed to discover oauth providers: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.Rate.Enabled {
		limiter = rate.NewLimiter(cfg.Rate.Burst, cfg.Rate.Expiry, cfg.Rate.RPS)
		defer limiter.Close()
	}

	mux := api.APIMux(api.APIConfig{
		CorsOrigin:       cfg.Cors.Origin,
		Log:              logger,
		Store:            st,
		Session:          sessionManager,
		Auth:             authClient,
		Providers:        oauthProvs,
		LoginRedirectURL: cfg.Oauth.LoginRedirectURL,
		Limiter:          limiter,
		Resources:        resource.Default(),
		Curriculum:       curriculum.Sample(),
	})

	api := http.Server{
		Handler:      mux,
		Addr:         cfg.Web.Address,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     errLog,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Infof("starting api router at %s", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("shutting down: signal %s", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}
	return nil
}

// openStore builds the record store named by cfg.Store.Driver.
func openStore(cfg config.Config, logger logrus.FieldLogger) (store.Store, func(), error) {
	switch cfg.Store.Driver {
	case "rest":
		c, err := rest.New(rest.Config{
			URL:     cfg.Store.URL,
			AnonKey: cfg.Store.AnonKey,
			Timeout: cfg.Store.Timeout,
			Retry:   cfg.Store.Retry(),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build the rest store: %w", err)
		}
		logger.WithField("url", cfg.Store.URL).Info("reading records from the hosted backend")
		return c, func() {}, nil

	case "postgres":
		db, err := sqlstore.Open(cfg.DB.Conn())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
		}
		if cfg.DB.Migrate {
			if err := sqlstore.Migrate(db); err != nil {
				db.Close()
				return nil, nil, fmt.Errorf("failed to migrate db: %w", err)
			}
		}
		logger.WithField("host", cfg.DB.Host).Info("reading records from postgres")
		return sqlstore.New(db), func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
