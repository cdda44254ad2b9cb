package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/amonks/remindme/internal/config"
	"github.com/amonks/remindme/internal/testsupport"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"REMINDME_SERVER_URL",
		"REMINDME_PROFILE",
		"REMINDME_TOKEN",
		"PORT",
		"DATABASE_URL",
		"ADMIN_SECRET",
		"CORS_ORIGIN",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad_NotFound(t *testing.T) {
	testsupport.SetupTestHome(t)
	clearEnv(t)

	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Client.ServerURL != config.DefaultServerURL {
		t.Errorf("ServerURL = %q, expected default", cfg.Client.ServerURL)
	}
	if cfg.Server.Port != config.DefaultPort {
		t.Errorf("Port = %d, expected default", cfg.Server.Port)
	}
	if cfg.Notifications.AutoGrant {
		t.Error("expected AutoGrant to default to false")
	}
}

func TestLoad_Full(t *testing.T) {
	testsupport.SetupTestHome(t)
	clearEnv(t)
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, config.ProjectFile), `
[client]
server-url = "https://api.example.com"
profile = "preview"

[notifications]
auto-grant = true

[server]
port = 8080
database-url = "postgres://localhost/remindme"
cors-origins = ["https://app.example.com"]
admin-secret = "s3cret"
keep-alive = "5m"
`)

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Client.ServerURL != "https://api.example.com" || cfg.Client.Profile != "preview" {
		t.Errorf("unexpected client config: %#v", cfg.Client)
	}
	if !cfg.Notifications.AutoGrant {
		t.Error("expected AutoGrant")
	}
	if cfg.Server.Port != 8080 || cfg.Server.Addr() != ":8080" {
		t.Errorf("unexpected port: %d", cfg.Server.Port)
	}
	if !reflect.DeepEqual(cfg.Server.CORSOrigins, []string{"https://app.example.com"}) {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	interval, err := cfg.Server.KeepAliveInterval()
	if err != nil || interval != 5*time.Minute {
		t.Errorf("KeepAliveInterval = %v, %v", interval, err)
	}
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	home := testsupport.SetupTestHome(t)
	clearEnv(t)
	dir := t.TempDir()

	writeFile(t, filepath.Join(home, ".config", "remindme", "config.toml"), `
[client]
server-url = "https://global.example.com"
profile = "production"
token = "global-token"

[notifications]
auto-grant = true

[server]
cors-origins = ["https://global.example.com"]
`)
	writeFile(t, filepath.Join(dir, config.ProjectFile), `
[client]
profile = "development"

[notifications]
auto-grant = false
`)

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Client.ServerURL != "https://global.example.com" {
		t.Errorf("ServerURL = %q, expected global value", cfg.Client.ServerURL)
	}
	if cfg.Client.Profile != "development" {
		t.Errorf("Profile = %q, expected project value", cfg.Client.Profile)
	}
	if cfg.Client.Token != "global-token" {
		t.Errorf("Token = %q, expected global value", cfg.Client.Token)
	}
	if cfg.Notifications.AutoGrant {
		t.Error("expected project to turn AutoGrant off")
	}
	if !reflect.DeepEqual(cfg.Server.CORSOrigins, []string{"https://global.example.com"}) {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	testsupport.SetupTestHome(t)
	clearEnv(t)
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, config.ProjectFile), `
[client]
server-url = "https://file.example.com"

[server]
port = 8080
`)
	t.Setenv("REMINDME_SERVER_URL", "https://env.example.com")
	t.Setenv("REMINDME_PROFILE", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("ADMIN_SECRET", "env-secret")
	t.Setenv("CORS_ORIGIN", "https://a.example.com, https://b.example.com")

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Client.ServerURL != "https://env.example.com" || cfg.Client.Profile != "production" {
		t.Errorf("unexpected client config: %#v", cfg.Client)
	}
	if cfg.Server.Port != 9090 || cfg.Server.DatabaseURL != "postgres://env/db" || cfg.Server.AdminSecret != "env-secret" {
		t.Errorf("unexpected server config: %#v", cfg.Server)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if !reflect.DeepEqual(cfg.Server.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
}

func TestLoad_InvalidPortEnv(t *testing.T) {
	testsupport.SetupTestHome(t)
	clearEnv(t)
	t.Setenv("PORT", "eighty")

	if _, err := config.Load(t.TempDir()); err == nil {
		t.Fatal("expected error for invalid PORT")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	testsupport.SetupTestHome(t)
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.ProjectFile), "[client\nserver-url = 1")

	if _, err := config.Load(dir); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	testsupport.SetupTestHome(t)
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.ProjectFile), "[client]\nserver = \"x\"\n")

	if _, err := config.Load(dir); err == nil {
		t.Fatal("expected unknown key error")
	}
}

func TestKeepAliveInterval(t *testing.T) {
	tests := []struct {
		value   string
		want    time.Duration
		wantErr bool
	}{
		{value: "", want: 0},
		{value: "off", want: -1},
		{value: "0", want: -1},
		{value: "14m", want: 14 * time.Minute},
		{value: "soon", wantErr: true},
	}
	for _, tt := range tests {
		got, err := config.Server{KeepAlive: tt.value}.KeepAliveInterval()
		if tt.wantErr {
			if err == nil {
				t.Errorf("KeepAliveInterval(%q) expected error", tt.value)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("KeepAliveInterval(%q) = %v, %v; want %v", tt.value, got, err, tt.want)
		}
	}
}
