package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRemoteSourceLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/glossary" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("select"); got != "term,definition,wikipedia_url" {
			t.Errorf("select = %q", got)
		}
		if got := r.URL.Query().Get("order"); got != "term.asc" {
			t.Errorf("order = %q", got)
		}
		if r.Header.Get("apikey") != "anon-key" || r.Header.Get("Authorization") != "Bearer anon-key" {
			t.Errorf("auth headers = %v", r.Header)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"term": "anime", "definition": "Japanese animation.", "wikipedia_url": null},
			{"term": "noir", "definition": "Crime style.", "wikipedia_url": "https://en.wikipedia.org/wiki/Film_noir"},
			{"term": "", "definition": "orphan", "wikipedia_url": null}
		]`))
	}))
	defer srv.Close()

	src := NewRemoteSource(RemoteConfig{URL: srv.URL + "/", APIKey: "anon-key"})
	res, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(res.Entries))
	}
	if res.Entries[0].ReferenceLink != "" {
		t.Errorf("null link should be empty, got %q", res.Entries[0].ReferenceLink)
	}
	if res.Entries[1].ReferenceLink == "" {
		t.Error("noir link missing")
	}
	if res.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", res.Skipped)
	}
	if res.Source != "remote:glossary" {
		t.Errorf("Source = %q", res.Source)
	}
}

func TestRemoteSourceRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"term": "mecha", "definition": "Giant robots."}]`))
	}))
	defer srv.Close()

	src := NewRemoteSource(RemoteConfig{URL: srv.URL})
	src.backoffs = []time.Duration{0, time.Millisecond, time.Millisecond}

	res, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Entries) != 1 || calls.Load() != 3 {
		t.Errorf("entries = %d, calls = %d", len(res.Entries), calls.Load())
	}
}

func TestRemoteSourceErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "empty table", status: http.StatusOK, body: `[]`, wantErr: ErrNoRows},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"message":"Invalid API key"}`},
		{name: "bad json", status: http.StatusOK, body: `{"term":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			src := NewRemoteSource(RemoteConfig{URL: srv.URL})
			src.backoffs = []time.Duration{0, 0}

			_, err := src.Load(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if calls.Load() != 1 {
				t.Errorf("calls = %d, client errors must not be retried", calls.Load())
			}
		})
	}
}

func TestRemoteSourceNotConfigured(t *testing.T) {
	if _, err := NewRemoteSource(RemoteConfig{}).Load(context.Background()); err == nil {
		t.Error("expected error without url")
	}
}
