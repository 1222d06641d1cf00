package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	maxBodyBytes = 32 << 20
	maxPages     = 10000
)

var ErrBodyTooLarge = errors.New("upstream body exceeds limit")

// StatusError is returned when the clinic API answers with a non-2xx status.
// Handlers relay StatusCode and Body to the caller unchanged.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: upstream status %d", e.Method, e.Path, e.StatusCode)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Response is a raw upstream reply, used by the pass-through proxy routes.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client talks to the clinic REST API on behalf of one caller token.
type Client struct {
	baseURL  string
	http     *http.Client
	pageSize int
	maxBody  int
}

func New(baseURL string, timeout time.Duration, pageSize int) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if pageSize <= 0 {
		pageSize = 1000
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		pageSize: pageSize,
		maxBody:  maxBodyBytes,
	}
}

// Do sends one request and returns the reply regardless of its status.
func (c *Client) Do(ctx context.Context, token, method, path string, query url.Values, body io.Reader, contentType string) (*Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		if contentType == "" {
			contentType = "application/json"
		}
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, int64(c.maxBody)+1))
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}
	if len(raw) > c.maxBody {
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrBodyTooLarge)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: raw}, nil
}

// GetJSON decodes a 2xx reply into out.
func (c *Client) GetJSON(ctx context.Context, token, path string, query url.Values, out any) error {
	return c.call(ctx, token, http.MethodGet, path, query, nil, out)
}

// SendJSON encodes in as the request body and decodes a 2xx reply into out
// (out may be nil).
func (c *Client) SendJSON(ctx context.Context, token, method, path string, in, out any) error {
	return c.call(ctx, token, method, path, nil, in, out)
}

func (c *Client) call(ctx context.Context, token, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}
	resp, err := c.Do(ctx, token, method, path, query, body, "application/json")
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: resp.Body}
	}
	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// list fetches every page of a collection that the clinic API returns either
// as a bare array or wrapped in a paging envelope.
func list[T any](ctx context.Context, c *Client, token, path string, query url.Values) ([]T, error) {
	out := make([]T, 0)
	for pageNumber := 1; pageNumber <= maxPages; pageNumber++ {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("pageNumber", strconv.Itoa(pageNumber))

		var raw json.RawMessage
		if err := c.GetJSON(ctx, token, path, q, &raw); err != nil {
			return nil, err
		}
		pg, err := decodePage[T](raw)
		if err != nil {
			return nil, err
		}
		out = append(out, pg.items...)
		if !pg.hasMore(pageNumber, len(out), c.pageSize) {
			return out, nil
		}
	}
	return nil, fmt.Errorf("%s: more than %d pages", path, maxPages)
}

type page[T any] struct {
	items       []T
	totalPages  int
	totalCount  int
	hasNextPage *bool
}

// hasMore prefers the envelope's own paging fields and otherwise keeps going
// while pages come back full.
func (p page[T]) hasMore(pageNumber, fetched, pageSize int) bool {
	switch {
	case len(p.items) == 0:
		return false
	case p.hasNextPage != nil:
		return *p.hasNextPage
	case p.totalPages > 0:
		return pageNumber < p.totalPages
	case p.totalCount > 0:
		return fetched < p.totalCount
	}
	return len(p.items) >= pageSize
}

func decodeCollection[T any](raw json.RawMessage) ([]T, error) {
	pg, err := decodePage[T](raw)
	if err != nil {
		return nil, err
	}
	return pg.items, nil
}

func decodePage[T any](raw json.RawMessage) (page[T], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return page[T]{items: []T{}}, nil
	}
	if trimmed[0] == '[' {
		out := make([]T, 0)
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return page[T]{}, fmt.Errorf("decode collection: %w", err)
		}
		return page[T]{items: out}, nil
	}

	var envelope struct {
		Items       []T   `json:"items"`
		Data        []T   `json:"data"`
		Results     []T   `json:"results"`
		TotalPages  int   `json:"totalPages"`
		TotalCount  int   `json:"totalCount"`
		HasNextPage *bool `json:"hasNextPage"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return page[T]{}, fmt.Errorf("decode collection envelope: %w", err)
	}
	pg := page[T]{
		items:       []T{},
		totalPages:  envelope.TotalPages,
		totalCount:  envelope.TotalCount,
		hasNextPage: envelope.HasNextPage,
	}
	switch {
	case envelope.Items != nil:
		pg.items = envelope.Items
	case envelope.Data != nil:
		pg.items = envelope.Data
	case envelope.Results != nil:
		pg.items = envelope.Results
	}
	return pg, nil
}
