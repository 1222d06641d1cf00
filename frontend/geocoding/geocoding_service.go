package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"vetgateway/infrastructure/cache"
	"vetgateway/models"
)

const (
	SearchLimit    = 5
	minQueryLength = 3
)

var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Geocoder resolves text to places and coordinates to addresses.
type Geocoder interface {
	Search(ctx context.Context, query string, limit int) ([]models.Place, error)
	Reverse(ctx context.Context, lat, lng float64) (models.Place, error)
}

type Service struct {
	geocoder  Geocoder
	cache     cache.GeocodeCache
	ttl       time.Duration
	debouncer *Debouncer
}

func NewService(g Geocoder, c cache.GeocodeCache, ttl, debounce time.Duration) *Service {
	if c == nil {
		c = cache.NewMemoryGeocodeCache()
	}
	return &Service{geocoder: g, cache: c, ttl: ttl, debouncer: NewDebouncer(debounce)}
}

type SearchResult struct {
	Query      string         `json:"query"`
	Results    []models.Place `json:"results"`
	Superseded bool           `json:"superseded,omitempty"`
}

// Search returns up to five suggestions for query. Queries shorter than three
// characters clear suggestions without calling the geocoder; a newer query
// on the same session supersedes this one.
func (s *Service) Search(ctx context.Context, session, query string) (SearchResult, error) {
	q := strings.TrimSpace(query)
	res := SearchResult{Query: q, Results: []models.Place{}}
	if len([]rune(q)) < minQueryLength {
		return res, nil
	}

	err := s.debouncer.Do(ctx, session, func(ctx context.Context) error {
		places, err := s.cached(ctx, "search:"+strings.ToLower(q), func(ctx context.Context) ([]models.Place, error) {
			return s.geocoder.Search(ctx, q, SearchLimit)
		})
		if err != nil {
			return err
		}
		if len(places) > SearchLimit {
			places = places[:SearchLimit]
		}
		res.Results = places
		return nil
	})
	if errors.Is(err, ErrSuperseded) {
		res.Superseded = true
		return res, nil
	}
	if err != nil {
		return res, err
	}
	return res, nil
}

type ResolvedLocation struct {
	Lat      float64       `json:"lat"`
	Lng      float64       `json:"lng"`
	Address  string        `json:"address"`
	Place    *models.Place `json:"place,omitempty"`
	Fallback bool          `json:"fallback"`
}

// Resolve reverse-geocodes a map click. Geocoder failures fall back to the
// formatted coordinates instead of failing.
func (s *Service) Resolve(ctx context.Context, lat, lng float64) (ResolvedLocation, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ResolvedLocation{}, ErrInvalidCoordinates
	}
	out := ResolvedLocation{Lat: lat, Lng: lng}
	key := fmt.Sprintf("reverse:%.6f,%.6f", lat, lng)
	places, err := s.cached(ctx, key, func(ctx context.Context) ([]models.Place, error) {
		p, err := s.geocoder.Reverse(ctx, lat, lng)
		if err != nil {
			return nil, err
		}
		return []models.Place{p}, nil
	})
	if err != nil || len(places) == 0 || places[0].DisplayName == "" {
		if err != nil {
			slog.Warn("reverse geocode failed", slog.Float64("lat", lat), slog.Float64("lng", lng), slog.Any("err", err))
		}
		out.Address = FormatCoordinates(lat, lng)
		out.Fallback = true
		return out, nil
	}
	out.Address = places[0].DisplayName
	out.Place = &places[0]
	return out, nil
}

func FormatCoordinates(lat, lng float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lng)
}

func (s *Service) cached(ctx context.Context, key string, load func(ctx context.Context) ([]models.Place, error)) ([]models.Place, error) {
	if places, ok, err := s.cache.Get(ctx, key); err != nil {
		slog.Warn("geocode cache read failed", slog.String("key", key), slog.Any("err", err))
	} else if ok {
		return places, nil
	}
	places, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, places, s.ttl); err != nil {
		slog.Warn("geocode cache write failed", slog.String("key", key), slog.Any("err", err))
	}
	return places, nil
}
