package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BackendConfig names the endpoints serving the four raw record collections.
// Paths are joined onto BaseURL; each must return a JSON array.
type BackendConfig struct {
	// BaseURL is the backend root, e.g. "http://127.0.0.1:3000".
	BaseURL string `yaml:"base_url" json:"base_url"`

	ClassesPath    string `yaml:"classes_path" json:"classes_path"`
	SchedulesPath  string `yaml:"schedules_path" json:"schedules_path"`
	AttendancePath string `yaml:"attendance_path" json:"attendance_path"`
	MakeupsPath    string `yaml:"makeups_path" json:"makeups_path"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// LogLevel is one of "debug", "info", "error".
	LogLevel string `yaml:"log_level" json:"log_level"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// driving the periodic backend refresh.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// HorizonDays is the number of future days the occurrence list covers
	// by default; BackfillDays the number of past days.
	HorizonDays  int `yaml:"horizon_days" json:"horizon_days"`
	BackfillDays int `yaml:"backfill_days" json:"backfill_days"`

	// CacheDir is where fetched collection bodies and their HTTP cache
	// metadata are stored between refreshes.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	Backend BackendConfig `yaml:"backend" json:"backend"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:       "127.0.0.1:8080",
		LogLevel:     "info",
		RefreshCron:  "*/15 * * * *",
		HorizonDays:  31,
		BackfillDays: 7,
		CacheDir:     "/var/lib/classcal/cache",
		Backend: BackendConfig{
			ClassesPath:    "/api/classes",
			SchedulesPath:  "/api/schedules",
			AttendancePath: "/api/attendance",
			MakeupsPath:    "/api/makeups",
		},
		BasicAuth: nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/15 * * * *"
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = 31
	}
	if c.BackfillDays < 0 {
		c.BackfillDays = 0
	}
	if c.CacheDir == "" {
		c.CacheDir = "/var/lib/classcal/cache"
	}
	if c.Backend.ClassesPath == "" {
		c.Backend.ClassesPath = "/api/classes"
	}
	if c.Backend.SchedulesPath == "" {
		c.Backend.SchedulesPath = "/api/schedules"
	}
	if c.Backend.AttendancePath == "" {
		c.Backend.AttendancePath = "/api/attendance"
	}
	if c.Backend.MakeupsPath == "" {
		c.Backend.MakeupsPath = "/api/makeups"
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, write a default config with 0600 perms
//     (creating the parent directory if needed) and return the defaults.
//   - If the file exists, unmarshal it and normalize missing values.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path atomically
// (temp file + rename) with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".classcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
