package conjura

import (
	"fmt"
	"maps"
	"os"
	"sync/atomic"

	"github.com/joho/godotenv"
)

// ProcessEnvNames are read from the process environment, first non-empty wins.
var ProcessEnvNames = []string{
	"VITE_BE_CORE_URL",
	"CONJURA_BASE_URL",
	"BE_CORE_URL",
	"API_BASE_URL",
}

// BuildEnvNames are read from Config.BuildEnv, first non-empty wins.
var BuildEnvNames = []string{
	"VITE_BE_CORE_URL",
	"VITE_BE_URL",
	"VITE_API_BASE_URL",
	"VITE_BASE_URL",
}

// Source yields one candidate base URL; "" means absent.
type Source func() string

// Resolve returns the first non-empty value produced by sources.
func Resolve(sources ...Source) string {
	for _, src := range sources {
		if src == nil {
			continue
		}
		if v := src(); v != "" {
			return v
		}
	}
	return ""
}

// Value is a Source that always yields v.
func Value(v string) Source {
	return func() string { return v }
}

// FirstEnv yields the first non-empty variable among names using lookup.
func FirstEnv(lookup func(string) (string, bool), names ...string) Source {
	return func() string {
		if lookup == nil {
			return ""
		}
		for _, name := range names {
			if v, ok := lookup(name); ok && v != "" {
				return v
			}
		}
		return ""
	}
}

// MapLookup adapts a map to the lookup signature used by FirstEnv.
func MapLookup(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

var baseURLHint atomic.Pointer[string]

// SetBaseURLHint sets the runtime hint consulted after the explicit base URL.
// An empty url clears it.
func SetBaseURLHint(url string) {
	if url == "" {
		baseURLHint.Store(nil)
		return
	}
	baseURLHint.Store(&url)
}

func hintSource() string {
	if p := baseURLHint.Load(); p != nil {
		return *p
	}
	return ""
}

func resolveBaseURL(cfg Config) string {
	return Resolve(
		Value(cfg.BaseURL),
		hintSource,
		FirstEnv(os.LookupEnv, ProcessEnvNames...),
		FirstEnv(MapLookup(cfg.BuildEnv), BuildEnvNames...),
	)
}

// LoadBuildEnv reads dotenv files without touching the process environment.
// Later files override earlier ones. Missing files are an error.
func LoadBuildEnv(paths ...string) (map[string]string, error) {
	out := make(map[string]string)
	for _, p := range paths {
		env, err := godotenv.Read(p)
		if err != nil {
			return nil, fmt.Errorf("read build env %q: %w", p, err)
		}
		maps.Copy(out, env)
	}
	return out, nil
}
