package geocoding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNominatimSearch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("User-Agent"); got != "vetgateway-test" {
			t.Errorf("expected custom user agent, got %q", got)
		}
		if r.URL.Query().Get("limit") != "5" || r.URL.Query().Get("q") != "oslo" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[{"place_id":1,"lat":"59.91","lon":"10.75","display_name":"Oslo, Norway","type":"city"},{"lat":"bad","lon":"1"}]`))
	}))
	defer srv.Close()

	n := NewNominatim(srv.URL, "vetgateway-test", time.Second)
	places, err := n.Search(context.Background(), "oslo", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(places) != 1 || places[0].DisplayName != "Oslo, Norway" || places[0].Lat != 59.91 || places[0].Lng != 10.75 {
		t.Fatalf("unexpected places %+v", places)
	}
}

func TestNominatimReverseError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
	}))
	defer srv.Close()

	_, err := NewNominatim(srv.URL, "ua", time.Second).Reverse(context.Background(), 1, 2)
	if !errors.Is(err, ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestNominatimNon200(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := NewNominatim(srv.URL, "ua", time.Second).Search(context.Background(), "abc", 5); err == nil {
		t.Fatal("expected error for 429")
	}
}
