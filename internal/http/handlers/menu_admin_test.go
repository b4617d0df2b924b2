package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
)

func TestMenuCreateValidation(t *testing.T) {
	app, deps := newApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid input must be rejected before the backend")
	})
	signIn(deps, "admin")

	for _, body := range []string{
		`{"name":"","price":"55"}`,
		`{"name":"Tiramisu","price":"free"}`,
		`{"name":"Tiramisu","price":"-1"}`,
	} {
		resp := doJSON(t, app, "POST", "/admin/menu", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, resp.StatusCode)
		}
	}
}

func TestMenuCreateInsertsAndInvalidates(t *testing.T) {
	app, deps := newApp(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			w.Write([]byte(`[]`))
		case "POST":
			w.Write([]byte(`[{"id":"new-1","name":"Tiramisu","price":55,"available":true,"category":"desserts"}]`))
		default:
			t.Errorf("unexpected backend request %s %s", r.Method, r.URL.Path)
		}
	})
	signIn(deps, "admin")
	doJSON(t, app, "GET", "/menu", "") // prime the cache

	resp := doJSON(t, app, "POST", "/admin/menu", `{"name":"Tiramisu","price":"55.00","category":"desserts"}`)
	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, b)
	}
	var saved struct {
		ID string `json:"id"`
	}
	json.NewDecoder(resp.Body).Decode(&saved)
	if saved.ID != "new-1" {
		t.Fatalf("expected the stored row back, got %+v", saved)
	}
	if _, ok := deps.Stores.Menu.Items(); ok {
		t.Fatal("a write must invalidate the menu cache")
	}
}

func TestMenuUpdateMissingRow(t *testing.T) {
	app, deps := newApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	signIn(deps, "admin")

	resp := doJSON(t, app, "PUT", "/admin/menu/ghost", `{"name":"X","price":"10"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestMenuImageUpload(t *testing.T) {
	var uploaded, patched bool
	app, deps := newApp(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/storage/v1/object/menu-images/"):
			uploaded = true
			if ct := r.Header.Get("Content-Type"); ct != "image/png" {
				t.Errorf("content type not forwarded, got %q", ct)
			}
			w.Write([]byte(`{"Key":"ok"}`))
		case strings.HasPrefix(r.URL.Path, "/rest/v1/menu_items") && r.Method == "PATCH":
			patched = true
			w.Write([]byte(`[]`))
		default:
			t.Errorf("unexpected backend request %s %s", r.Method, r.URL.Path)
		}
	})
	signIn(deps, "admin")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="dish.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("png-bytes"))
	mw.Close()

	req := httptest.NewRequest("POST", "/admin/menu/meal-1/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, b)
	}
	if !uploaded || !patched {
		t.Fatalf("expected upload then row patch, got upload=%v patch=%v", uploaded, patched)
	}
	var out struct {
		ImageURL string `json:"image_url"`
	}
	json.NewDecoder(resp.Body).Decode(&out)
	if !strings.Contains(out.ImageURL, "/storage/v1/object/public/menu-images/") {
		t.Fatalf("expected a public object url, got %q", out.ImageURL)
	}
	if !strings.HasSuffix(out.ImageURL, ".png") {
		t.Fatalf("object name should follow the content type, got %q", out.ImageURL)
	}
}
