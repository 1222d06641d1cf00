package geocoding

import (
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

	"vetgateway/models"
)

var ErrNoResult = errors.New("no geocoding result")

// Nominatim is a client for the OpenStreetMap Nominatim search and reverse
// endpoints.
type Nominatim struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

func NewNominatim(baseURL, userAgent string, timeout time.Duration) *Nominatim {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Nominatim{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
	}
}

type nominatimPlace struct {
	PlaceID     int64             `json:"place_id"`
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	DisplayName string            `json:"display_name"`
	Type        string            `json:"type"`
	Address     map[string]string `json:"address"`
	Error       string            `json:"error"`
}

func (p nominatimPlace) toPlace() (models.Place, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return models.Place{}, fmt.Errorf("parse lat %q: %w", p.Lat, err)
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return models.Place{}, fmt.Errorf("parse lon %q: %w", p.Lon, err)
	}
	return models.Place{
		PlaceID:     p.PlaceID,
		DisplayName: p.DisplayName,
		Lat:         lat,
		Lng:         lng,
		Type:        p.Type,
		Address:     p.Address,
	}, nil
}

func (n *Nominatim) Search(ctx context.Context, query string, limit int) ([]models.Place, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("addressdetails", "1")
	q.Set("limit", strconv.Itoa(limit))

	var raw []nominatimPlace
	if err := n.get(ctx, "/search", q, &raw); err != nil {
		return nil, err
	}
	places := make([]models.Place, 0, len(raw))
	for _, r := range raw {
		p, err := r.toPlace()
		if err != nil {
			continue
		}
		places = append(places, p)
	}
	return places, nil
}

func (n *Nominatim) Reverse(ctx context.Context, lat, lng float64) (models.Place, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', 6, 64))
	q.Set("format", "jsonv2")
	q.Set("addressdetails", "1")

	var raw nominatimPlace
	if err := n.get(ctx, "/reverse", q, &raw); err != nil {
		return models.Place{}, err
	}
	if raw.Error != "" {
		return models.Place{}, fmt.Errorf("%w: %s", ErrNoResult, raw.Error)
	}
	return raw.toPlace()
}

func (n *Nominatim) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("nominatim %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("nominatim %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(out); err != nil {
		return fmt.Errorf("decode nominatim %s: %w", path, err)
	}
	return nil
}
