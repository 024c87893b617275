package product

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Product struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Price              int     `json:"price"`
	DiscountPercentage int     `json:"discountPercentage"`
	Rating             float64 `json:"rating"`
	Stock              int     `json:"stock"`
	QuantitySold       int     `json:"quantitySold"`
	ThumbnailURL       string  `json:"thumbnailUrl"`
	BrandID            string  `json:"brandId"`
	BrandName          string  `json:"brandName"`
	CategoryID         string  `json:"categoryId"`
	CategoryName       string  `json:"categoryName"`
	ImageURLs          []Image `json:"productImageUrls"`
	IsDeleted          bool    `json:"isDeleted"`
}

type Image struct {
	ID       string `json:"id"`
	ImageURL string `json:"imageUrl"`
}

type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

type Brand struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

type Review struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Rating      int       `json:"rating"`
	CreatedAt   time.Time `json:"createdOn"`
}

// Filter narrows the catalog listing; zero values mean "not set" and are
// left out of the upstream query.
type Filter struct {
	Title      string
	MinPrice   int
	MaxPrice   int
	MinRating  float64
	CategoryID string
	BrandID    string
}

func (f Filter) params() url.Values {
	p := url.Values{}
	if f.Title != "" {
		p.Set("title", f.Title)
	}
	if f.MinPrice > 0 {
		p.Set("minPrice", strconv.Itoa(f.MinPrice))
	}
	if f.MaxPrice > 0 {
		p.Set("maxPrice", strconv.Itoa(f.MaxPrice))
	}
	if f.MinRating > 0 {
		p.Set("minRating", strconv.FormatFloat(f.MinRating, 'f', -1, 64))
	}
	if f.CategoryID != "" {
		p.Set("categoryId", f.CategoryID)
	}
	if f.BrandID != "" {
		p.Set("brandId", f.BrandID)
	}
	return p
}

type Gateway interface {
	Get(ctx context.Context, path string, params url.Values, out any) error
}

// Service is a read-only facade over the upstream catalog. Nothing is cached
// here; the catalog changes under the storefront's feet and every view asks
// again.
type Service struct {
	gw        Gateway
	imageBase string
}

func NewService(gw Gateway, imageBase string) *Service {
	return &Service{gw: gw, imageBase: strings.TrimRight(imageBase, "/")}
}

func (s *Service) List(ctx context.Context, f Filter) ([]Product, error) {
	var prods []Product
	if err := s.gw.Get(ctx, "api/product/all", f.params(), &prods); err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return prods, nil
}

func (s *Service) Fetch(ctx context.Context, id string) (Product, error) {
	var p Product
	if err := s.gw.Get(ctx, "api/product/"+id, nil, &p); err != nil {
		return Product{}, fmt.Errorf("fetching product[%s]: %w", id, err)
	}
	return p, nil
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := s.gw.Get(ctx, "api/category", nil, &cats); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return cats, nil
}

func (s *Service) Brands(ctx context.Context) ([]Brand, error) {
	var brands []Brand
	if err := s.gw.Get(ctx, "api/brand", nil, &brands); err != nil {
		return nil, fmt.Errorf("listing brands: %w", err)
	}
	return brands, nil
}

func (s *Service) Reviews(ctx context.Context, productID string) ([]Review, error) {
	var revs []Review
	if err := s.gw.Get(ctx, "api/productreview/product/"+productID, nil, &revs); err != nil {
		return nil, fmt.Errorf("listing reviews for product[%s]: %w", productID, err)
	}
	return revs, nil
}

const defaultImage = "default-product.png"

// ImageURL resolves a stored image path against the upstream file host.
// Absolute URLs pass through untouched; empty paths get the placeholder.
func (s *Service) ImageURL(path string) string {
	if path == "" {
		path = defaultImage
	}
	if strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "http://") {
		return path
	}
	return s.imageBase + "/files/images/products/" + path
}

// Thumbnail picks the product's thumbnail, falling back to the first gallery
// image, then the placeholder.
func (s *Service) Thumbnail(p Product) string {
	if p.ThumbnailURL != "" {
		return s.ImageURL(p.ThumbnailURL)
	}
	if len(p.ImageURLs) > 0 {
		return s.ImageURL(p.ImageURLs[0].ImageURL)
	}
	return s.ImageURL("")
}

func (s *Service) Available(p Product) bool {
	return p.Stock > 0 && !p.IsDeleted
}
