package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/irsalhamdi/e-commerce-storefront/api/web"
	"github.com/irsalhamdi/e-commerce-storefront/api/weberr"
	"github.com/irsalhamdi/e-commerce-storefront/rate"
)

// RateLimit throttles by client address so one misbehaving browser session
// cannot flood the upstream commerce API through this storefront.
func RateLimit(lim *rate.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !lim.Check(host) {
				err := errors.New("too many requests")
				return weberr.NewError(err, err.Error(), http.StatusTooManyRequests)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
