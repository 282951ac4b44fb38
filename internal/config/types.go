package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Overview fetch modes.
const (
	OverviewAggregate = "aggregate"
	OverviewPerFamily = "per-family"
)

// Config represents the complete .infradash.yaml configuration file.
type Config struct {
	Version   int             `yaml:"version" mapstructure:"version"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Probe     ProbeConfig     `yaml:"probe" mapstructure:"probe"`
	Dashboard DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Votes     VotesConfig     `yaml:"votes" mapstructure:"votes"`
	Metrics   MetricsConfig   `yaml:"metrics" mapstructure:"metrics"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ServerConfig points the client at the status backend.
type ServerConfig struct {
	// URL is the API base, including the /api prefix.
	URL string `yaml:"url" mapstructure:"url" validate:"required,url,web_url"`

	// RequestTimeout bounds every request except the connection probe,
	// which carries its own timeout.
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout" validate:"gte=0"`

	// RateLimit caps requests per second to the backend. Zero means unlimited.
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit" validate:"gte=0"`
}

// ProbeConfig controls the staged connectivity check.
type ProbeConfig struct {
	// Timeout bounds the real connection-status query.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`

	// StepDelay is the pause after each progress phase.
	StepDelay time.Duration `yaml:"step_delay" mapstructure:"step_delay" validate:"gte=0"`
}

// DashboardConfig controls the resource dashboard.
type DashboardConfig struct {
	// DefaultView is the view shown when entering the dashboard.
	DefaultView string `yaml:"default_view" mapstructure:"default_view" validate:"omitempty,view"`

	// OverviewMode is "aggregate" (one status document) or "per-family" (six fetches).
	OverviewMode string `yaml:"overview_mode" mapstructure:"overview_mode" validate:"omitempty,oneof=aggregate per-family"`

	// RefreshInterval reloads the current view periodically. Zero disables it.
	RefreshInterval time.Duration `yaml:"refresh_interval" mapstructure:"refresh_interval" validate:"gte=0"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color" validate:"omitempty,oneof=auto always never"`
}

// VotesConfig locates the local already-voted store.
type VotesConfig struct {
	StateFile string `yaml:"state_file" mapstructure:"state_file" validate:"required"`
}

// MetricsConfig exposes Prometheus metrics while the dashboard runs.
type MetricsConfig struct {
	// Addr is the listen address for /metrics. Empty disables the endpoint.
	Addr string `yaml:"addr" mapstructure:"addr" validate:"omitempty,hostname_port"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `yaml:"level" mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`

	// File receives log output in TUI mode. Empty discards it there.
	File string `yaml:"file" mapstructure:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Server: ServerConfig{
			URL:            "http://localhost:8080/api",
			RequestTimeout: 10 * time.Second,
		},
		Probe: ProbeConfig{
			Timeout:   3 * time.Second,
			StepDelay: 800 * time.Millisecond,
		},
		Dashboard: DashboardConfig{
			DefaultView:  "overview",
			OverviewMode: OverviewAggregate,
		},
		Output: OutputConfig{
			Color: "auto",
		},
		Votes: VotesConfig{
			StateFile: "~/" + GlobalConfigDir + "/votes.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
