package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/ardanlabs/conf/v3"
	"github.com/irsalhamdi/e-commerce-storefront/api"
	"github.com/irsalhamdi/e-commerce-storefront/config"
	"github.com/irsalhamdi/e-commerce-storefront/gateway"
	"github.com/irsalhamdi/e-commerce-storefront/rate"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if err := Run(log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func Run(logger *logrus.Logger) error {
	logger.Infof("starting storefront")
	defer logger.Info("shutdown complete")

	// Local overrides for development; absence is fine.
	_ = godotenv.Load()

	const prefix = "STOREFRONT"
	var cfg config.Config
	if _, err := conf.Parse(prefix, &cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	lw := logger.Writer()
	defer lw.Close()
	errLog := log.New(lw, "", 0)

	gw := gateway.New(cfg.Upstream.URL, cfg.Upstream.Timeout, logger)

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.Session.Lifetime

	limiter := rate.NewLimiter(
		cfg.Rate.Burst,
		time.Duration(cfg.Rate.ExpiryMinutes)*time.Minute,
		cfg.Rate.RequestsPerSecond,
	)
	defer limiter.Stop()

	mux := api.APIMux(api.APIConfig{
		CorsOrigin:  cfg.Cors.Origin,
		Log:         logger,
		Session:     sessionManager,
		Gateway:     gw,
		UpstreamURL: cfg.Upstream.URL,
		Limiter:     limiter,
	})

	srv := http.Server{
		Handler:      mux,
		Addr:         cfg.Web.Address,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     errLog,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Infof("starting api router at %s", srv.Addr)
		serverErrors <- srv.ListenAndServe()
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

		if err := srv.Shutdown(ctx); err != nil {
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}
	return nil
}
