package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/irsalhamdi/e-commerce-storefront/api/web"
	"github.com/irsalhamdi/e-commerce-storefront/api/weberr"
	"github.com/irsalhamdi/e-commerce-storefront/gateway"
	"github.com/sirupsen/logrus"
)

func Errors(log logrus.FieldLogger) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			err := handler(ctx, w, r)
			if err == nil {
				return nil
			}

			fields := map[string]any{
				"req_id":  ContextRequestID(ctx),
				"message": err,
			}
			if f, ok := weberr.Fields(err); ok {
				for k, v := range f {
					fields[k] = v
				}
			}

			log.WithFields(logrus.Fields(fields)).Error("ERROR")

			if body, code, ok := weberr.Response(err); ok {
				return web.Respond(ctx, w, body, code)
			}

			// Upstream rejections that reached this point untranslated are
			// reported as a bad gateway rather than a server fault.
			var rerr *gateway.RemoteError
			if errors.As(err, &rerr) {
				er := weberr.ErrorResponse{Error: rerr.Error()}
				return web.Respond(ctx, w, er, http.StatusBadGateway)
			}

			er := weberr.ErrorResponse{
				Error: http.StatusText(http.StatusInternalServerError),
			}
			return web.Respond(ctx, w, er, http.StatusInternalServerError)
		}
		return h
	}
	return m
}
