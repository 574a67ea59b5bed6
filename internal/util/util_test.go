package util

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetXDGDataDir_RespectsEnv(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	dir, err := GetXDGDataDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", "despertar") {
		t.Errorf("Unexpected dir %s", dir)
	}
}

func TestDefaultDatabaseURL(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	u, err := DefaultDatabaseURL()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(u, "file:") || !strings.HasSuffix(u, "despertar.db") {
		t.Errorf("Unexpected url %s", u)
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, "Plano não encontrado")

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Unexpected content type %s", ct)
	}
	var body ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "Plano não encontrado" {
		t.Errorf("Unexpected body %+v", body)
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct{ Name string }

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"Name":"Ana"}`))
	if err := DecodeJSON(req, &v); err != nil || v.Name != "Ana" {
		t.Errorf("Expected Ana, got %q (%v)", v.Name, err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := DecodeJSON(req, &v); err != nil {
		t.Errorf("Empty body should be accepted: %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	if err := DecodeJSON(req, &v); err == nil {
		t.Error("Expected error for malformed body")
	}
}
