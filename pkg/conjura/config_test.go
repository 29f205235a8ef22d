package conjura

import "testing"

func TestConfigureShallowMerges(t *testing.T) {
	t.Cleanup(ResetConfig)
	ResetConfig()

	Configure(WithBaseURL("https://one.example"), WithDefaultHeaders(map[string]string{"X-A": "1"}))
	Configure(WithDefaultHeaders(map[string]string{"X-B": "2"}))

	cfg := GetConfig()
	if cfg.BaseURL != "https://one.example" {
		t.Fatalf("base url lost on merge: %q", cfg.BaseURL)
	}
	if _, ok := cfg.DefaultHeaders["X-A"]; ok {
		t.Fatalf("expected headers to be replaced, not deep merged: %v", cfg.DefaultHeaders)
	}
	if cfg.DefaultHeaders["X-B"] != "2" {
		t.Fatalf("unexpected headers: %v", cfg.DefaultHeaders)
	}
}

func TestSetBaseURLTouchesOneField(t *testing.T) {
	s := NewSettings(WithDefaultHeaders(map[string]string{"X-A": "1"}))
	s.SetBaseURL("https://two.example")

	cfg := s.Config()
	if cfg.BaseURL != "https://two.example" || cfg.DefaultHeaders["X-A"] != "1" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestConfigReturnsCopy(t *testing.T) {
	s := NewSettings(WithDefaultHeaders(map[string]string{"X-A": "1"}))
	cfg := s.Config()
	cfg.DefaultHeaders["X-A"] = "mutated"

	if got := s.Config().DefaultHeaders["X-A"]; got != "1" {
		t.Fatalf("settings mutated through returned copy: %q", got)
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := NewSettings(WithBaseURL("https://x.example"), WithBuildEnv(map[string]string{"VITE_BE_URL": "y"}))
	s.Reset()

	cfg := s.Config()
	if cfg.BaseURL != "" || cfg.DefaultHeaders != nil || cfg.Transport != nil || cfg.BuildEnv != nil {
		t.Fatalf("expected empty config after reset, got %+v", cfg)
	}
}

func TestSenderFallsBackToAmbient(t *testing.T) {
	var s Settings
	if s.Sender() != ambientSender {
		t.Fatalf("expected ambient sender for empty settings")
	}

	s.Configure(WithTransport(&recorder{}))
	if _, ok := s.Sender().(*recorder); !ok {
		t.Fatalf("expected configured transport, got %T", s.Sender())
	}
}
