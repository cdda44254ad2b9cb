// Package config handles loading remindme.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/amonks/remindme/internal/paths"
)

// ProjectFile is the name of the per-directory config file.
const ProjectFile = "remindme.toml"

// DefaultServerURL is used by the client when nothing else is configured.
const DefaultServerURL = "http://127.0.0.1:3000"

// DefaultPort is the port the backend listens on when none is configured.
const DefaultPort = 3000

// Config represents the remindme.toml configuration file.
type Config struct {
	Client        Client        `toml:"client"`
	Notifications Notifications `toml:"notifications"`
	Server        Server        `toml:"server"`
}

// Client contains settings for the remindme command.
type Client struct {
	// ServerURL is the base URL of the version and feedback API.
	ServerURL string `toml:"server-url"`

	// Profile is the build profile. Downloads are never offered in "production".
	Profile string `toml:"profile"`

	// Token is an admin bearer token for protected API routes.
	Token string `toml:"token"`
}

// Notifications contains local notification settings.
type Notifications struct {
	// AutoGrant grants notification permission without prompting.
	AutoGrant bool `toml:"auto-grant"`
}

// Server contains settings for the remindme-server command.
type Server struct {
	Port        int      `toml:"port"`
	DatabaseURL string   `toml:"database-url"`
	CORSOrigins []string `toml:"cors-origins"`
	AdminSecret string   `toml:"admin-secret"`

	// KeepAlive is how often the server pings its own health endpoint,
	// e.g. "14m". "0" or "off" disables it.
	KeepAlive string `toml:"keep-alive"`
}

// Load loads configuration from the global config file and dir's
// remindme.toml, then applies environment overrides.
// Returns a config with defaults if no config files exist.
func Load(dir string) (*Config, error) {
	globalPath, err := paths.DefaultConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(dir, ProjectFile))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)
	if err := applyEnv(merged, os.Getenv); err != nil {
		return nil, err
	}
	applyDefaults(merged)
	return merged, nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: unknown key %s", path, undecoded[0])
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.Client.ServerURL = mergeString(projectMeta.IsDefined("client", "server-url"), projectCfg.Client.ServerURL, globalCfg.Client.ServerURL)
	merged.Client.Profile = mergeString(projectMeta.IsDefined("client", "profile"), projectCfg.Client.Profile, globalCfg.Client.Profile)
	merged.Client.Token = mergeString(projectMeta.IsDefined("client", "token"), projectCfg.Client.Token, globalCfg.Client.Token)

	merged.Notifications.AutoGrant = globalCfg.Notifications.AutoGrant
	if projectMeta.IsDefined("notifications", "auto-grant") {
		merged.Notifications.AutoGrant = projectCfg.Notifications.AutoGrant
	}

	merged.Server.Port = globalCfg.Server.Port
	if projectMeta.IsDefined("server", "port") {
		merged.Server.Port = projectCfg.Server.Port
	}
	merged.Server.DatabaseURL = mergeString(projectMeta.IsDefined("server", "database-url"), projectCfg.Server.DatabaseURL, globalCfg.Server.DatabaseURL)
	merged.Server.AdminSecret = mergeString(projectMeta.IsDefined("server", "admin-secret"), projectCfg.Server.AdminSecret, globalCfg.Server.AdminSecret)
	merged.Server.KeepAlive = mergeString(projectMeta.IsDefined("server", "keep-alive"), projectCfg.Server.KeepAlive, globalCfg.Server.KeepAlive)
	if projectMeta.IsDefined("server", "cors-origins") {
		merged.Server.CORSOrigins = append([]string(nil), projectCfg.Server.CORSOrigins...)
	} else if globalMeta.IsDefined("server", "cors-origins") {
		merged.Server.CORSOrigins = append([]string(nil), globalCfg.Server.CORSOrigins...)
	}

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}

// applyEnv overrides file settings with environment variables.
func applyEnv(cfg *Config, getenv func(string) string) error {
	if value := strings.TrimSpace(getenv("REMINDME_SERVER_URL")); value != "" {
		cfg.Client.ServerURL = value
	}
	if value := strings.TrimSpace(getenv("REMINDME_PROFILE")); value != "" {
		cfg.Client.Profile = value
	}
	if value := strings.TrimSpace(getenv("REMINDME_TOKEN")); value != "" {
		cfg.Client.Token = value
	}
	if value := strings.TrimSpace(getenv("PORT")); value != "" {
		port, err := strconv.Atoi(value)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid PORT %q", value)
		}
		cfg.Server.Port = port
	}
	if value := strings.TrimSpace(getenv("DATABASE_URL")); value != "" {
		cfg.Server.DatabaseURL = value
	}
	if value := strings.TrimSpace(getenv("ADMIN_SECRET")); value != "" {
		cfg.Server.AdminSecret = value
	}
	if value := strings.TrimSpace(getenv("CORS_ORIGIN")); value != "" {
		cfg.Server.CORSOrigins = splitList(value)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Client.ServerURL == "" {
		cfg.Client.ServerURL = DefaultServerURL
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// KeepAliveInterval parses Server.KeepAlive. An empty value returns zero,
// meaning the server default; "0" and "off" return a negative duration.
func (s Server) KeepAliveInterval() (time.Duration, error) {
	value := strings.ToLower(strings.TrimSpace(s.KeepAlive))
	switch value {
	case "":
		return 0, nil
	case "0", "off":
		return -1, nil
	}
	interval, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid keep-alive %q: %w", s.KeepAlive, err)
	}
	if interval <= 0 {
		return -1, nil
	}
	return interval, nil
}

// Addr returns the listen address for Port.
func (s Server) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}
