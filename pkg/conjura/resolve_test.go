package conjura

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveFirstNonEmpty(t *testing.T) {
	got := Resolve(nil, Value(""), Value("b"), Value("c"))
	if got != "b" {
		t.Fatalf("expected b, got %q", got)
	}
	if Resolve() != "" {
		t.Fatalf("expected empty result for no sources")
	}
}

func TestFirstEnvOrder(t *testing.T) {
	env := map[string]string{"B": "2", "C": "3", "A": ""}
	src := FirstEnv(MapLookup(env), "A", "B", "C")
	if got := src(); got != "2" {
		t.Fatalf("expected first non-empty (B), got %q", got)
	}
}

func TestBaseURLPriority(t *testing.T) {
	clearBaseURLEnv(t)
	s := NewSettings(WithBuildEnv(map[string]string{"VITE_BASE_URL": "https://build.example"}))

	if got := s.BaseURL(); got != "https://build.example" {
		t.Fatalf("expected build env, got %q", got)
	}

	t.Setenv("API_BASE_URL", "https://api-env.example")
	t.Setenv("BE_CORE_URL", "https://core-env.example")
	if got := s.BaseURL(); got != "https://core-env.example" {
		t.Fatalf("expected first process env in order, got %q", got)
	}

	SetBaseURLHint("https://hint.example")
	if got := s.BaseURL(); got != "https://hint.example" {
		t.Fatalf("expected hint to beat env, got %q", got)
	}

	s.SetBaseURL("https://explicit.example")
	if got := s.BaseURL(); got != "https://explicit.example" {
		t.Fatalf("expected explicit config to win, got %q", got)
	}
}

func TestBaseURLUnset(t *testing.T) {
	clearBaseURLEnv(t)
	var s Settings
	if got := s.BaseURL(); got != "" {
		t.Fatalf("expected unset base url, got %q", got)
	}
}

func TestLoadBuildEnv(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, ".env")
	second := filepath.Join(dir, ".env.local")
	if err := os.WriteFile(first, []byte("VITE_BE_URL=https://a.example\nOTHER=1\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	if err := os.WriteFile(second, []byte("VITE_BE_URL=https://b.example\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}

	env, err := LoadBuildEnv(first, second)
	if err != nil {
		t.Fatalf("LoadBuildEnv: %v", err)
	}
	if env["VITE_BE_URL"] != "https://b.example" || env["OTHER"] != "1" {
		t.Fatalf("unexpected env: %v", env)
	}
	if v, ok := os.LookupEnv("OTHER"); ok && v == "1" {
		t.Fatalf("build env leaked into process env")
	}

	if _, err := LoadBuildEnv(filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
