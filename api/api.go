package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/irsalhamdi/e-commerce-storefront/api/middleware"
	"github.com/irsalhamdi/e-commerce-storefront/api/web"
	"github.com/irsalhamdi/e-commerce-storefront/core/cart"
	"github.com/irsalhamdi/e-commerce-storefront/core/checkout"
	"github.com/irsalhamdi/e-commerce-storefront/core/product"
	"github.com/irsalhamdi/e-commerce-storefront/core/session"
	"github.com/irsalhamdi/e-commerce-storefront/core/wishlist"
	"github.com/irsalhamdi/e-commerce-storefront/gateway"
	"github.com/irsalhamdi/e-commerce-storefront/rate"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin  string
	Log         logrus.FieldLogger
	Session     *scs.SessionManager
	Gateway     *gateway.Client
	UpstreamURL string
	Limiter     *rate.Limiter
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	users := session.NewManager(cfg.Session, cfg.Gateway)
	carts := cart.NewRegistry(cfg.Gateway, users, cfg.Log)
	wishes := wishlist.NewRegistry(cfg.Gateway, cfg.Log)
	catalog := product.NewService(cfg.Gateway, cfg.UpstreamURL)
	saga := checkout.NewSaga(cfg.Gateway, carts, users, cfg.Log)

	a.mw = append(a.mw, session.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.Limiter != nil {
		a.mw = append(a.mw, middleware.RateLimit(cfg.Limiter))
	}

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := users.Authenticate()

	a.Handle(http.MethodPost, "/auth/login", session.HandleLogin(users))
	a.Handle(http.MethodPost, "/auth/logout", session.HandleLogout(users))
	a.Handle(http.MethodGet, "/users/current", session.HandleShowCurrent(users), authen)

	a.Handle(http.MethodGet, "/products/{id}/reviews", product.HandleReviews(catalog))
	a.Handle(http.MethodGet, "/products/{id}", product.HandleShow(catalog))
	a.Handle(http.MethodGet, "/products", product.HandleList(catalog))
	a.Handle(http.MethodGet, "/categories", product.HandleCategories(catalog))
	a.Handle(http.MethodGet, "/brands", product.HandleBrands(catalog))

	a.Handle(http.MethodGet, "/cart", cart.HandleShow(carts, users), authen)
	a.Handle(http.MethodDelete, "/cart", cart.HandleClear(carts, users), authen)
	a.Handle(http.MethodPost, "/cart/items", cart.HandleAddItem(carts, users), authen)
	a.Handle(http.MethodPut, "/cart/items/{id}", cart.HandleUpdateItem(carts, users), authen)
	a.Handle(http.MethodDelete, "/cart/items/{id}", cart.HandleRemoveItem(carts, users), authen)

	a.Handle(http.MethodGet, "/wishlist", wishlist.HandleShow(wishes, users), authen)
	a.Handle(http.MethodPost, "/wishlist/items", wishlist.HandleAdd(wishes, users), authen)
	a.Handle(http.MethodDelete, "/wishlist/items/{id}", wishlist.HandleRemove(wishes, users), authen)
	a.Handle(http.MethodDelete, "/wishlist", wishlist.HandleClear(wishes, users), authen)

	a.Handle(http.MethodPost, "/checkout/address", checkout.HandleSaveAddress(saga), authen)
	a.Handle(http.MethodPost, "/checkout", checkout.HandlePlaceOrder(saga), authen)

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
