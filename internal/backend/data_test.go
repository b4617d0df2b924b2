package backend_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"delice/internal/backend"
	"delice/internal/domain"
)

func TestListOrdersNewestFirstQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/orders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("order") != "created_at.desc" {
			t.Errorf("expected newest-first ordering, got %q", r.URL.Query().Get("order"))
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer token")
		}
		w.Write([]byte(`[
		  {"id":"o2","customer_name":"Ada","total":205.99,"status":"pending","type":"takeout","created_at":"2026-08-28T14:30:00Z"},
		  {"id":"o1","customer_name":null,"total":null,"status":"completed","type":"takeout","created_at":null}
		]`))
	}))
	defer srv.Close()

	c := backend.New(srv.URL, "k")
	orders, err := c.ListOrders(context.Background(), "tok")
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 2 || orders[0].ID != "o2" {
		t.Fatalf("unexpected orders %+v", orders)
	}
	if orders[0].Date != "2026-08-28" || orders[0].Time != "14:30" {
		t.Fatalf("created_at not split into date/time: %+v", orders[0])
	}
	if orders[1].Total != 0 || orders[1].Date != "" {
		t.Fatalf("null columns should flatten to zero values: %+v", orders[1])
	}
}

func TestUpdateOrderStatusUsesRemoteConfirmedValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PATCH" {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		var body map[string]string
		b, _ := io.ReadAll(r.Body)
		json.Unmarshal(b, &body)
		if body["status"] != "completed" {
			t.Errorf("requested status %q", body["status"])
		}
		// Remote rejects the transition and answers with its own value.
		w.Write([]byte(`[{"id":"o1","status":"cancelled"}]`))
	}))
	defer srv.Close()

	c := backend.New(srv.URL, "k")
	confirmed, err := c.UpdateOrderStatus(context.Background(), "tok", "o1", domain.StatusCompleted)
	if err != nil {
		t.Fatal(err)
	}
	if confirmed != domain.StatusCancelled {
		t.Fatalf("expected the remote's value, got %s", confirmed)
	}
}

func TestUpdateOrderStatusMissingRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := backend.New(srv.URL, "k")
	if _, err := c.UpdateOrderStatus(context.Background(), "tok", "ghost", domain.StatusReady); err == nil {
		t.Fatal("expected error for unknown order")
	}
}

func TestCreateOrderInsertsPendingTakeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		b, _ := io.ReadAll(r.Body)
		json.Unmarshal(b, &body)
		if body["status"] != "pending" || body["type"] != "takeout" {
			t.Errorf("unexpected insert %v", body)
		}
		if body["customer_name"] != "Ada" || body["total"] != 205.99 {
			t.Errorf("unexpected insert %v", body)
		}
		w.Write([]byte(`[{"id":"ord-9","customer_name":"Ada","total":205.99,"status":"pending","type":"takeout","created_at":"2026-08-28T10:00:00Z"}]`))
	}))
	defer srv.Close()

	c := backend.New(srv.URL, "k")
	o, err := c.CreateOrder(context.Background(), "tok", "Ada", "", "", 205.99, domain.TypeTakeout)
	if err != nil {
		t.Fatal(err)
	}
	if o.ID != "ord-9" || o.Status != domain.StatusPending {
		t.Fatalf("unexpected order %+v", o)
	}
}

func TestSettingsSingletonUpsert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("on_conflict") != "id" {
			t.Errorf("upsert should resolve conflicts on id")
		}
		var body map[string]any
		b, _ := io.ReadAll(r.Body)
		json.Unmarshal(b, &body)
		if body["id"] != "singleton" {
			t.Errorf("settings row must use the fixed id, got %v", body["id"])
		}
		w.Write([]byte(`[{"id":"singleton","restaurant_name":"Delice","phone":"021 555 0101","email":"hi@delice.test","address":"1 Main Rd","weekday_hours":"09-22","weekend_hours":"10-23"}]`))
	}))
	defer srv.Close()

	c := backend.New(srv.URL, "k")
	saved, err := c.SaveSettings(context.Background(), "tok", domain.Settings{RestaurantName: "Delice"})
	if err != nil {
		t.Fatal(err)
	}
	if saved.RestaurantName != "Delice" || saved.WeekendHours != "10-23" {
		t.Fatalf("unexpected settings %+v", saved)
	}
}

func TestFetchSettingsMissingRowIsNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := backend.New(srv.URL, "k")
	_, ok, err := c.FetchSettings(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected ok=false for a missing row")
	}
}
