package product

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFilterParams(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   url.Values
	}{
		{
			name:   "empty",
			filter: Filter{},
			want:   url.Values{},
		},
		{
			name:   "title only",
			filter: Filter{Title: "lamp"},
			want:   url.Values{"title": []string{"lamp"}},
		},
		{
			name:   "price range and rating",
			filter: Filter{MinPrice: 100, MaxPrice: 5000, MinRating: 3.5},
			want: url.Values{
				"minPrice":  []string{"100"},
				"maxPrice":  []string{"5000"},
				"minRating": []string{"3.5"},
			},
		},
		{
			name:   "category and brand",
			filter: Filter{CategoryID: "c-1", BrandID: "b-2"},
			want: url.Values{
				"categoryId": []string{"c-1"},
				"brandId":    []string{"b-2"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.filter.params()); diff != "" {
				t.Fatalf("unexpected params (-want +got):\n%s", diff)
			}
		})
	}
}

func TestImageURL(t *testing.T) {
	s := NewService(nil, "http://files.test/")

	if got := s.ImageURL("lamp.png"); got != "http://files.test/files/images/products/lamp.png" {
		t.Fatalf("unexpected relative resolution: %s", got)
	}

	if got := s.ImageURL("https://cdn.test/lamp.png"); got != "https://cdn.test/lamp.png" {
		t.Fatalf("absolute urls must pass through, got %s", got)
	}

	if got := s.ImageURL(""); got != "http://files.test/files/images/products/default-product.png" {
		t.Fatalf("unexpected placeholder: %s", got)
	}
}

func TestThumbnail(t *testing.T) {
	s := NewService(nil, "http://files.test")

	p := Product{ThumbnailURL: "thumb.png"}
	if got := s.Thumbnail(p); got != "http://files.test/files/images/products/thumb.png" {
		t.Fatalf("unexpected thumbnail: %s", got)
	}

	p = Product{ImageURLs: []Image{{ImageURL: "first.png"}}}
	if got := s.Thumbnail(p); got != "http://files.test/files/images/products/first.png" {
		t.Fatalf("expected first gallery image, got %s", got)
	}

	p = Product{}
	if got := s.Thumbnail(p); got != "http://files.test/files/images/products/default-product.png" {
		t.Fatalf("expected placeholder, got %s", got)
	}
}

func TestAvailable(t *testing.T) {
	s := NewService(nil, "")

	if !s.Available(Product{Stock: 3}) {
		t.Fatal("in-stock product must be available")
	}
	if s.Available(Product{Stock: 0}) {
		t.Fatal("out-of-stock product must not be available")
	}
	if s.Available(Product{Stock: 3, IsDeleted: true}) {
		t.Fatal("deleted product must not be available")
	}
}
