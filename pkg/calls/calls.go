package calls

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samvad-hq/conjura/pkg/conjura"
	"gopkg.in/yaml.v3"
)

const (
	// Supported facades.
	FacadeInvoke  = "invoke"
	FacadeSummon  = "summon"
	FacadeWhisper = "whisper"
	FacadeStatic  = "static"

	defaultMethod = "GET"
)

// configFile represents the structure of the calls file.
type configFile struct {
	Calls []Definition `json:"calls" yaml:"calls"`
}

// Definition is a named backend call declared in a calls file.
type Definition struct {
	ID        string            `json:"id" yaml:"id"`
	Facade    string            `json:"facade" yaml:"facade"`
	Path      string            `json:"path" yaml:"path"`
	Method    string            `json:"method" yaml:"method"`
	ErrorCode string            `json:"error_code" yaml:"error_code"`
	AuthKey   string            `json:"auth_key" yaml:"auth_key"`
	BaseURL   string            `json:"base_url" yaml:"base_url"`
	Client    bool              `json:"client" yaml:"client"`
	Query     map[string]any    `json:"query" yaml:"query"`
	Cookies   map[string]string `json:"cookies" yaml:"cookies"`
	Payload   any               `json:"payload" yaml:"payload"`
}

// Registry holds call definitions loaded from a file. It is immutable after
// LoadRegistry and safe for concurrent reads.
type Registry struct {
	calls []Definition
	idx   map[string]Definition
}

// LoadRegistry loads call definitions from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("calls file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open calls file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read calls file: %w", err)
	}

	parsed, err := parseCallsFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Calls) == 0 {
		return nil, errors.New("calls file contains no calls entries")
	}

	reg := &Registry{
		calls: make([]Definition, len(parsed.Calls)),
		idx:   make(map[string]Definition, len(parsed.Calls)),
	}
	for i := range parsed.Calls {
		def, err := Normalize(parsed.Calls[i])
		if err != nil {
			return nil, fmt.Errorf("calls[%d]: %w", i, err)
		}
		if _, exists := reg.idx[def.ID]; exists {
			return nil, fmt.Errorf("duplicate call id %q", def.ID)
		}
		reg.calls[i] = def
		reg.idx[def.ID] = def
	}
	return reg, nil
}

// parseCallsFile decodes the calls file content based on its extension.
func parseCallsFile(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var out configFile
		if err := d.fn(data, &out); err == nil {
			return out, nil
		}
	}
	return configFile{}, errors.New("calls file format not recognized (expected YAML or JSON)")
}

// Normalize applies defaults to def and validates it.
func Normalize(def Definition) (Definition, error) {
	def = sanitizeDefinition(def)
	if err := validateDefinition(def); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// sanitizeDefinition trims and normalizes definition fields.
func sanitizeDefinition(def Definition) Definition {
	def.ID = strings.TrimSpace(def.ID)
	def.Facade = strings.ToLower(strings.TrimSpace(def.Facade))
	if def.Facade == "" {
		def.Facade = FacadeSummon
	}
	def.Path = strings.TrimSpace(def.Path)
	def.Method = strings.ToUpper(strings.TrimSpace(def.Method))
	if def.Method == "" {
		def.Method = defaultMethod
	}
	def.ErrorCode = strings.TrimSpace(def.ErrorCode)
	if def.ErrorCode == "" && def.Facade != FacadeStatic {
		def.ErrorCode = def.ID
	}
	return def
}

// validateDefinition checks that required fields are present.
func validateDefinition(def Definition) error {
	if def.ID == "" {
		return errors.New("id is required")
	}
	if def.Path == "" {
		return fmt.Errorf("path is required for call %q", def.ID)
	}
	switch def.Facade {
	case FacadeInvoke, FacadeSummon, FacadeWhisper, FacadeStatic:
	default:
		return fmt.Errorf("unsupported facade %q for call %q", def.Facade, def.ID)
	}
	switch conjura.Method(def.Method) {
	case conjura.MethodGet, conjura.MethodPost, conjura.MethodPut, conjura.MethodPatch, conjura.MethodDelete:
	default:
		return fmt.Errorf("unsupported method %q for call %q", def.Method, def.ID)
	}
	return nil
}

// ByID returns the call definition by id.
func (r *Registry) ByID(id string) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return Definition{}, false
	}

	def, ok := r.idx[id]
	return def, ok
}

// All returns all call definitions in file order.
func (r *Registry) All() []Definition {
	if r == nil {
		return nil
	}

	out := make([]Definition, len(r.calls))
	copy(out, r.calls)
	return out
}

// Options converts the definition into per-call options. Query keys are
// sorted so the encoded URL is stable.
func (def Definition) Options() *conjura.CallOptions {
	opts := &conjura.CallOptions{
		AuthKey: def.AuthKey,
		Cookies: conjura.CookiesFromMap(def.Cookies),
		Payload: def.Payload,
		BaseURL: def.BaseURL,
		Client:  def.Client,
	}
	if len(def.Query) > 0 {
		keys := make([]string, 0, len(def.Query))
		for k := range def.Query {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		q := make(conjura.Query, 0, len(keys))
		for _, k := range keys {
			q = q.Add(k, def.Query[k])
		}
		opts.Query = q
	}
	return opts
}
