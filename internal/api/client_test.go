package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	c := New("http://localhost:5000", "secret123")

	if c == nil {
		t.Fatal("New returned nil")
	}
	if c.baseURL != "http://localhost:5000" {
		t.Errorf("expected baseURL=http://localhost:5000, got %s", c.baseURL)
	}
	if c.apiKey != "secret123" {
		t.Errorf("expected apiKey=secret123, got %s", c.apiKey)
	}
	if c.httpClient == nil {
		t.Error("httpClient is nil")
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:5000/", "secret")
	if c.baseURL != "http://localhost:5000" {
		t.Errorf("expected trailing slash trimmed, got %s", c.baseURL)
	}
}

func TestHealthcheck_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthcheck" {
			t.Errorf("expected path /healthcheck, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(server.URL, "")
	if err := c.Healthcheck(context.Background()); err != nil {
		t.Errorf("Healthcheck failed: %v", err)
	}
}

func TestHealthcheck_ServerDown(t *testing.T) {
	c := New("http://127.0.0.1:1", "")
	if err := c.Healthcheck(context.Background()); err == nil {
		t.Error("expected error for unreachable server")
	}
}

func TestHealthcheck_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL, "")
	if err := c.Healthcheck(context.Background()); err == nil {
		t.Error("expected error for 500 response")
	}
}

func writeExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qeynos-7.geojson")
	if err := os.WriteFile(path, []byte(`{"type":"FeatureCollection","features":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUpload_Success(t *testing.T) {
	var fields = map[string]string{}
	var content []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/overlays/add" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
			return
		}
		for _, k := range []string{"secret", "filename", "zone", "character", "frame", "tag"} {
			fields[k] = r.FormValue(k)
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer f.Close()
		content, _ = io.ReadAll(f)
		_, _ = w.Write([]byte(`{"id":"42","url":"http://maps/42"}`))
	}))
	defer server.Close()

	c := New(server.URL, "key")
	res, err := c.Upload(context.Background(), writeExport(t), UploadMetadata{
		Zone: "qeynos", Character: "Guard", Frame: 7, Tag: "camp",
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if res.ID != "42" || res.URL != "http://maps/42" {
		t.Errorf("unexpected result %+v", res)
	}
	want := map[string]string{
		"secret": "key", "filename": "qeynos-7.geojson", "zone": "qeynos",
		"character": "Guard", "frame": "7", "tag": "camp",
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("field %s: expected %q, got %q", k, v, fields[k])
		}
	}
	if string(content) != `{"type":"FeatureCollection","features":[]}` {
		t.Errorf("unexpected file content %q", content)
	}
}

func TestUpload_MissingFile(t *testing.T) {
	c := New("http://127.0.0.1:1", "")
	if _, err := c.Upload(context.Background(), "/nonexistent/file.geojson", UploadMetadata{}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestUpload_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := New(server.URL, "bad")
	if _, err := c.Upload(context.Background(), writeExport(t), UploadMetadata{}); err == nil {
		t.Error("expected error for 403 response")
	}
}
