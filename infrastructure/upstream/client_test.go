package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"vetgateway/models"
)

func TestListInventoryAcceptsEnvelopeAndForwardsToken(t *testing.T) {
	var gotAuth, gotClinic, gotPageSize string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/Inventory" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotClinic = r.URL.Query().Get("clinicId")
		gotPageSize = r.URL.Query().Get("pageSize")
		_, _ = w.Write([]byte(`{"items":[{"id":"i1","productId":"p1","batchNumber":"B1","quantityOnHand":5,"location":"A-1"}],"totalCount":1}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second, 250)
	items, err := c.ListInventory(context.Background(), "tok", "clinic-1")
	if err != nil {
		t.Fatalf("list inventory: %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("expected bearer token, got %q", gotAuth)
	}
	if gotClinic != "clinic-1" || gotPageSize != "250" {
		t.Fatalf("unexpected query clinicId=%q pageSize=%q", gotClinic, gotPageSize)
	}
	if len(items) != 1 || items[0].BatchNumber != "B1" || items[0].Location == nil || *items[0].Location != "A-1" {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestDecodeCollectionBareArrayAndNull(t *testing.T) {
	items, err := decodeCollection[models.ReceivedItem](json.RawMessage(`[{"id":"r1","batchNumber":"B"}]`))
	if err != nil || len(items) != 1 || items[0].ID != "r1" {
		t.Fatalf("bare array: items=%+v err=%v", items, err)
	}
	items, err = decodeCollection[models.ReceivedItem](json.RawMessage(`null`))
	if err != nil || items == nil || len(items) != 0 {
		t.Fatalf("null: items=%+v err=%v", items, err)
	}
}

func TestNon2xxReturnsStatusErrorWithBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"missing"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, 0)
	_, err := c.GetSupplier(context.Background(), "tok", "s1")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusNotFound || string(se.Body) != `{"message":"missing"}` {
		t.Fatalf("unexpected status error %+v", se)
	}
	if !IsNotFound(err) {
		t.Fatal("expected IsNotFound")
	}
}

func TestDoReturnsRawReplyForAnyStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/Client/7" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("in use"))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, 0)
	resp, err := c.Do(context.Background(), "tok", http.MethodDelete, "/api/Client/7", nil, nil, "")
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if resp.StatusCode != http.StatusConflict || string(resp.Body) != "in use" {
		t.Fatalf("unexpected response %d %q", resp.StatusCode, resp.Body)
	}
}

func TestUpdateInventoryItemSendsFullRecord(t *testing.T) {
	var got models.InventoryItem
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/Inventory/i9" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	loc := "C-4"
	c := New(srv.URL, time.Second, 0)
	err := c.UpdateInventoryItem(context.Background(), "tok", models.InventoryItem{ID: "i9", ProductID: "p", BatchNumber: "B", QuantityOnHand: 3, Location: &loc})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Location == nil || *got.Location != "C-4" || got.QuantityOnHand != 3 {
		t.Fatalf("unexpected body %+v", got)
	}
}

func TestListInventoryFollowsEnvelopePages(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		n := r.URL.Query().Get("pageNumber")
		fmt.Fprintf(w, `{"items":[{"id":"i%s","productId":"p1","batchNumber":"B%s","quantityOnHand":1}],"totalPages":2}`, n, n)
	}))
	defer srv.Close()

	items, err := New(srv.URL, time.Second, 1).ListInventory(context.Background(), "tok", "clinic-1")
	if err != nil {
		t.Fatalf("list inventory: %v", err)
	}
	if requests.Load() != 2 {
		t.Fatalf("expected 2 page requests, got %d", requests.Load())
	}
	if len(items) != 2 || items[0].BatchNumber != "B1" || items[1].BatchNumber != "B2" {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestListStopsAtShortBareArrayPage(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		switch r.URL.Query().Get("pageNumber") {
		case "1":
			_, _ = w.Write([]byte(`[{"id":"r1","batchNumber":"A"},{"id":"r2","batchNumber":"B"}]`))
		case "2":
			_, _ = w.Write([]byte(`[{"id":"r3","batchNumber":"C"}]`))
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("pageNumber"))
		}
	}))
	defer srv.Close()

	items, err := New(srv.URL, time.Second, 2).ListReceivedItems(context.Background(), "tok", "clinic-1")
	if err != nil {
		t.Fatalf("list received: %v", err)
	}
	if requests.Load() != 2 || len(items) != 3 || items[2].ID != "r3" {
		t.Fatalf("requests=%d items=%+v", requests.Load(), items)
	}
}

func TestListHonoursTotalCount(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte(`{"data":[{"id":"x","batchNumber":"B"}],"totalCount":1}`))
	}))
	defer srv.Close()

	items, err := New(srv.URL, time.Second, 1).ListReceivingHistory(context.Background(), "tok", "clinic-1")
	if err != nil || len(items) != 1 || requests.Load() != 1 {
		t.Fatalf("requests=%d items=%+v err=%v", requests.Load(), items, err)
	}
}

func TestDoRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 16)))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, 0)
	c.maxBody = 8
	if _, err := c.Do(context.Background(), "tok", http.MethodGet, "/api/Patient", nil, nil, ""); !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("expected ErrBodyTooLarge, got %v", err)
	}

	c.maxBody = 16
	resp, err := c.Do(context.Background(), "tok", http.MethodGet, "/api/Patient", nil, nil, "")
	if err != nil || len(resp.Body) != 16 {
		t.Fatalf("expected full body at the limit, resp=%+v err=%v", resp, err)
	}
}
