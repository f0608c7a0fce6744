package config

import (
	"strings"
	"testing"
	"time"
)

// setRequiredEnv sets the four required variables so individual tests can
// unset or override the one they exercise.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_SECRET", "test-app-secret")
	t.Setenv("VERIFY_TOKEN", "test-verify-token")
	t.Setenv("PAGE_ACCESS_TOKEN", "test-page-token")
	t.Setenv("SERVER_URL", "https://helpbot.example.com")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.MenuMode != MenuModeLinear {
		t.Errorf("Expected default menu mode linear, got %s", cfg.MenuMode)
	}
	if cfg.GraphAPIBaseURL != "https://graph.facebook.com/v19.0" {
		t.Errorf("Unexpected Graph API base URL: %s", cfg.GraphAPIBaseURL)
	}
	if cfg.SendRateRPS != 25.0 {
		t.Errorf("Expected default send rate 25, got %v", cfg.SendRateRPS)
	}
	if cfg.ShutdownTimeout != 15*time.Second {
		t.Errorf("Expected default shutdown timeout 15s, got %v", cfg.ShutdownTimeout)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"missing app secret", "APP_SECRET"},
		{"missing verify token", "VERIFY_TOKEN"},
		{"missing page token", "PAGE_ACCESS_TOKEN"},
		{"missing server url", "SERVER_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			if err == nil {
				t.Fatalf("Load() succeeded without %s", tt.unset)
			}
			if !strings.Contains(err.Error(), tt.unset) {
				t.Errorf("Expected error to name %s, got: %v", tt.unset, err)
			}
		})
	}
}

func TestLoad_InvalidMenuMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MENU_MODE", "spiral")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() accepted invalid MENU_MODE")
	}
	if !strings.Contains(err.Error(), "MENU_MODE") {
		t.Errorf("Expected MENU_MODE error, got: %v", err)
	}
}

func TestLoad_BranchingMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MENU_MODE", "branching")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MenuMode != MenuModeBranching {
		t.Errorf("Expected branching mode, got %s", cfg.MenuMode)
	}
}

func TestLoad_RelativeServerURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_URL", "helpbot.example.com/base")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() accepted a non-absolute SERVER_URL")
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{Port: "8080", MenuMode: MenuModeLinear, GraphAPIBaseURL: "x", SendRateRPS: 1, SendRateBurst: 1, SendTimeout: time.Second, UserRateBurst: 1, UserRateRefill: 1}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil for empty credentials")
	}
	for _, want := range []string{"APP_SECRET", "VERIFY_TOKEN", "PAGE_ACCESS_TOKEN", "SERVER_URL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected joined error to mention %s, got: %v", want, err)
		}
	}
}

func TestAssetBaseURL(t *testing.T) {
	cfg := &Config{ServerURL: "https://helpbot.example.com/"}

	got := cfg.AssetBaseURL()
	want := "https://helpbot.example.com/assets/screenshots"
	if got != want {
		t.Errorf("AssetBaseURL() = %q, want %q", got, want)
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("HELPBOT_TEST_INT", "42")
	t.Setenv("HELPBOT_TEST_BAD_INT", "forty-two")
	t.Setenv("HELPBOT_TEST_DUR", "90s")
	t.Setenv("HELPBOT_TEST_FLOAT", "2.5")

	if got := getIntEnv("HELPBOT_TEST_INT", 7); got != 42 {
		t.Errorf("getIntEnv = %d, want 42", got)
	}
	if got := getIntEnv("HELPBOT_TEST_BAD_INT", 7); got != 7 {
		t.Errorf("getIntEnv(bad) = %d, want fallback 7", got)
	}
	if got := getDurationEnv("HELPBOT_TEST_DUR", time.Second); got != 90*time.Second {
		t.Errorf("getDurationEnv = %v, want 90s", got)
	}
	if got := getFloatEnv("HELPBOT_TEST_FLOAT", 1.0); got != 2.5 {
		t.Errorf("getFloatEnv = %v, want 2.5", got)
	}
	if got := getEnv("HELPBOT_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("getEnv = %q, want fallback", got)
	}
}
