package conjura

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSummonJSONAppendsExtension(t *testing.T) {
	var gotPath, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(`{"title":"hello","tags":["a"]}`))
	}))
	defer srv.Close()

	doc, err := SummonJSON[map[string]any](context.Background(), srv.URL+"/data", "")
	if err != nil {
		t.Fatalf("SummonJSON: %v", err)
	}
	if gotPath != "/data.json" {
		t.Fatalf("expected /data.json, got %s", gotPath)
	}
	if gotAccept != "application/json" {
		t.Fatalf("unexpected accept header %q", gotAccept)
	}
	if doc["title"] != "hello" {
		t.Fatalf("unexpected document %v", doc)
	}
}

func TestSummonJSONIgnoresConfiguredTransport(t *testing.T) {
	clearBaseURLEnv(t)
	t.Cleanup(ResetConfig)
	rec := &recorder{}
	Configure(WithTransport(rec))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[1,2,3]`))
	}))
	defer srv.Close()

	nums, err := SummonJSON[[]int](context.Background(), srv.URL+"/nums", "nums")
	if err != nil {
		t.Fatalf("SummonJSON: %v", err)
	}
	if len(nums) != 3 || rec.calls != 0 {
		t.Fatalf("unexpected result %v (override calls %d)", nums, rec.calls)
	}
}

func TestSummonJSONNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := SummonJSON[any](context.Background(), srv.URL+"/missing", "")
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if e.Code != CodeFetchJSONFailed || e.CallSite != "summonJSON" {
		t.Fatalf("unexpected error %+v", e)
	}
}

func TestSummonJSONInvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{broken`))
	}))
	defer srv.Close()

	_, err := SummonJSON[any](context.Background(), srv.URL+"/broken", "cms.load")
	if !errors.Is(err, &Error{Code: CodeJSONInvalid}) {
		t.Fatalf("expected json invalid error, got %v", err)
	}
}

func TestSummonJSONRequiresAbsoluteURL(t *testing.T) {
	_, err := SummonJSON[any](context.Background(), "/data/file", "")
	if !errors.Is(err, &Error{Code: CodeInvalidURL}) {
		t.Fatalf("expected invalid url error, got %v", err)
	}
}
