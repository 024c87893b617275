package product

import (
	"context"
	"net/http"
	"strconv"

	"github.com/irsalhamdi/e-commerce-storefront/api/web"
	"github.com/irsalhamdi/e-commerce-storefront/api/weberr"
	"github.com/irsalhamdi/e-commerce-storefront/validate"
)

func HandleList(s *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var f Filter

		f.Title = web.Query(r, "title")
		f.CategoryID = web.Query(r, "categoryId")
		f.BrandID = web.Query(r, "brandId")

		if v := web.Query(r, "minPrice"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return weberr.BadRequest(err)
			}
			f.MinPrice = n
		}
		if v := web.Query(r, "maxPrice"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return weberr.BadRequest(err)
			}
			f.MaxPrice = n
		}
		if v := web.Query(r, "minRating"); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return weberr.BadRequest(err)
			}
			f.MinRating = n
		}

		prods, err := s.List(ctx, f)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, prods, http.StatusOK)
	}
}

func HandleShow(s *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		p, err := s.Fetch(ctx, id)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, p, http.StatusOK)
	}
}

func HandleCategories(s *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cats, err := s.Categories(ctx)
		if err != nil {
			return err
		}
		return web.Respond(ctx, w, cats, http.StatusOK)
	}
}

func HandleBrands(s *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		brands, err := s.Brands(ctx)
		if err != nil {
			return err
		}
		return web.Respond(ctx, w, brands, http.StatusOK)
	}
}

func HandleReviews(s *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		revs, err := s.Reviews(ctx, id)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, revs, http.StatusOK)
	}
}
