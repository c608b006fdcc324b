package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Defaults applied when the user config leaves a field empty.
const (
	DefaultProvider         = "service"
	DefaultServiceURL       = "http://127.0.0.1:8002/analyze"
	DefaultSource           = "뉴스, 공시"
	DefaultTimeoutSeconds   = 60
	DefaultAnalyzePerMinute = 10
	DefaultLogLevel         = "info"
	DefaultPort             = 8000
)

const configFileName = "config.json"

// Environment overrides.
const (
	EnvDataDir    = "ESG_PICK_DATA_DIR"
	EnvProvider   = "ESG_PICK_PROVIDER"
	EnvServiceURL = "ESG_PICK_SERVICE_URL"
	EnvBaseURL    = "ESG_PICK_BASE_URL"
	EnvAPIKey     = "ESG_PICK_API_KEY"
	EnvModel      = "ESG_PICK_MODEL"
	EnvSource     = "ESG_PICK_SOURCE"
)

// UserConfig is the persisted config.json.
type UserConfig struct {
	Provider              string `json:"provider"`
	ServiceURL            string `json:"service_url"`
	BaseURL               string `json:"base_url,omitempty"`
	APIKey                string `json:"api_key,omitempty"`
	Model                 string `json:"model,omitempty"`
	Source                string `json:"source"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`
	// AnalyzePerMinute caps analyze calls per minute. Zero or absent means
	// DefaultAnalyzePerMinute; a negative value disables the limit.
	AnalyzePerMinute int    `json:"analyze_per_minute"`
	LogLevel         string `json:"log_level"`
}

// Config is the effective configuration after defaults, env and flags.
type Config struct {
	UserConfig
	DataDir string
	LogDir  string
	Port    int
}

// RequestTimeout returns the analysis timeout as a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

var (
	runtimeDataDir    string
	runtimePort       = DefaultPort
	runtimeProvider   string
	runtimeServiceURL string
)

func IsMacOS() bool {
	return runtime.GOOS == "darwin"
}

func IsWindows() bool {
	return runtime.GOOS == "windows"
}

func SetRuntimeDataDir(dir string) {
	runtimeDataDir = strings.TrimSpace(dir)
}

func SetRuntimePort(port int) {
	if port > 0 {
		runtimePort = port
	}
}

func GetRuntimePort() int {
	return runtimePort
}

// SetRuntimeProvider overrides the provider for this process only.
func SetRuntimeProvider(provider string) {
	runtimeProvider = strings.TrimSpace(provider)
}

// SetRuntimeServiceURL overrides the analysis service URL for this process only.
func SetRuntimeServiceURL(url string) {
	runtimeServiceURL = strings.TrimSpace(url)
}

// DefaultUserConfig returns a config with every field at its default.
func DefaultUserConfig() UserConfig {
	return UserConfig{
		Provider:              DefaultProvider,
		ServiceURL:            DefaultServiceURL,
		Source:                DefaultSource,
		RequestTimeoutSeconds: DefaultTimeoutSeconds,
		AnalyzePerMinute:      DefaultAnalyzePerMinute,
		LogLevel:              DefaultLogLevel,
	}
}

func appConfigDir() (string, error) {
	if IsMacOS() {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", "ESGPick"), nil
	}
	if IsWindows() {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = home
		}
		return filepath.Join(appData, "ESGPick"), nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "esgpick"), nil
	}
	return filepath.Join(configDir, "esgpick"), nil
}

// ConfigPath returns the location of config.json in the app config dir.
func ConfigPath() (string, error) {
	dir, err := appConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// localConfigPath finds a config.json next to the working directory or the
// executable, used when the app config dir has none.
func localConfigPath() string {
	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func IsFirstRun() bool {
	path, err := ConfigPath()
	if err != nil {
		return true
	}
	_, err = os.Stat(path)
	return err != nil
}

// LoadUserConfig reads config.json, falling back to defaults for a missing or
// unreadable file and for empty fields.
func LoadUserConfig() UserConfig {
	cfg := DefaultUserConfig()
	path := ""
	if appPath, err := ConfigPath(); err == nil {
		if _, err := os.Stat(appPath); err == nil {
			path = appPath
		}
	}
	if path == "" {
		path = localConfigPath()
	}
	if path == "" {
		return cfg
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	var loaded UserConfig
	if err := json.Unmarshal(data, &loaded); err != nil {
		return cfg
	}
	return mergeDefaults(loaded)
}

func mergeDefaults(cfg UserConfig) UserConfig {
	defaults := DefaultUserConfig()
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Provider == "" {
		cfg.Provider = defaults.Provider
	}
	if strings.TrimSpace(cfg.ServiceURL) == "" {
		cfg.ServiceURL = defaults.ServiceURL
	}
	if strings.TrimSpace(cfg.Source) == "" {
		cfg.Source = defaults.Source
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = defaults.RequestTimeoutSeconds
	}
	if cfg.AnalyzePerMinute == 0 {
		cfg.AnalyzePerMinute = defaults.AnalyzePerMinute
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	return cfg
}

// SaveUserConfig writes cfg to the app config dir. The file may hold an API
// key, so it is created owner-readable only.
func SaveUserConfig(cfg UserConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// GetDataDir returns the directory for logs and other local state, creating it
// if needed. Precedence: runtime flag, ESG_PICK_DATA_DIR, app config dir.
func GetDataDir() (string, error) {
	dir := runtimeDataDir
	if dir == "" {
		dir = strings.TrimSpace(os.Getenv(EnvDataDir))
	}
	if dir == "" {
		defaultDir, err := appConfigDir()
		if err != nil {
			return "", err
		}
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Resolve computes the effective Config: file values over defaults, env over
// file, runtime flags over env.
func Resolve() (Config, error) {
	user := LoadUserConfig()
	applyEnv(&user)
	if runtimeProvider != "" {
		user.Provider = strings.ToLower(runtimeProvider)
	}
	if runtimeServiceURL != "" {
		user.ServiceURL = runtimeServiceURL
	}

	dataDir, err := GetDataDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg := Config{
		UserConfig: user,
		DataDir:    dataDir,
		LogDir:     filepath.Join(dataDir, "logs"),
		Port:       runtimePort,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *UserConfig) {
	overrides := []struct {
		env    string
		target *string
	}{
		{EnvProvider, &cfg.Provider},
		{EnvServiceURL, &cfg.ServiceURL},
		{EnvBaseURL, &cfg.BaseURL},
		{EnvAPIKey, &cfg.APIKey},
		{EnvModel, &cfg.Model},
		{EnvSource, &cfg.Source},
	}
	for _, o := range overrides {
		if value := strings.TrimSpace(os.Getenv(o.env)); value != "" {
			*o.target = value
		}
	}
	cfg.Provider = strings.ToLower(cfg.Provider)
}

// Validate rejects values the server cannot start with. Provider specific
// checks happen when the analysis core is opened.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RequestTimeoutSeconds <= 0 {
		return errors.New("request_timeout_seconds must be positive")
	}
	return nil
}
