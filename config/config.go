package config

import "time"

type Config struct {
	Web      Web
	Upstream Upstream
	Session  Session
	Rate     Rate
	Cors     Cors
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:4000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

// Upstream points at the commerce API that owns carts, orders and payments.
// The storefront never persists anything itself.
type Upstream struct {
	URL     string        `conf:"default:http://localhost:5000"`
	Timeout time.Duration `conf:"default:10s"`
}

type Session struct {
	Lifetime time.Duration `conf:"default:24h"`
}

type Rate struct {
	RequestsPerSecond float64 `conf:"default:20"`
	Burst             int     `conf:"default:40"`
	ExpiryMinutes     int     `conf:"default:60"`
}

type Cors struct {
	Origin string
}
