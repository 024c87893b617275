package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/irsalhamdi/e-commerce-storefront/random"
	"github.com/sirupsen/logrus"
)

// RemoteError is a business failure reported by the upstream commerce API:
// the call went through, but the server refused it. Transport and decoding
// problems are returned as plain wrapped errors instead.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return "upstream rejected the request"
	}
	return e.Message
}

// envelope is the response shape every upstream endpoint uses.
type envelope struct {
	Result       json.RawMessage `json:"result"`
	IsSuccess    bool            `json:"isSuccess"`
	ErrorMessage string          `json:"errorMessage"`
}

type Client struct {
	base string
	http *http.Client
	log  logrus.FieldLogger
}

func New(baseURL string, timeout time.Duration, log logrus.FieldLogger) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	p := path
	if len(params) > 0 {
		p = path + "?" + params.Encode()
	}
	return c.do(ctx, http.MethodGet, p, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method string, path string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	r, err := http.NewRequestWithContext(ctx, method, c.base+"/"+strings.TrimLeft(path, "/"), rd)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	r.Header.Set("Accept", "application/json")
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		r.Header.Set("X-Idempotency-Key", random.Key())
	}

	start := time.Now().UTC()
	w, err := c.http.Do(r)
	if err != nil {
		return fmt.Errorf("calling upstream %s %s: %w", method, path, err)
	}
	defer w.Body.Close()

	c.log.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"status": w.StatusCode,
		"since":  time.Since(start).Nanoseconds(),
	}).Debug("upstream call")

	raw, err := io.ReadAll(w.Body)
	if err != nil {
		return fmt.Errorf("reading upstream response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			if w.StatusCode >= http.StatusBadRequest {
				return fmt.Errorf("upstream %s %s: status %d", method, path, w.StatusCode)
			}
			return fmt.Errorf("decoding upstream response: %w", err)
		}
	}

	if w.StatusCode >= http.StatusBadRequest || (len(raw) > 0 && !env.IsSuccess) {
		return &RemoteError{Message: env.ErrorMessage}
	}

	if out == nil {
		return nil
	}

	if len(env.Result) == 0 {
		return &RemoteError{Message: "upstream returned no result"}
	}

	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("decoding upstream result: %w", err)
	}

	return nil
}
