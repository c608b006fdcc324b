package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// isolateConfigDir points the app config dir at a temp directory and clears
// the env overrides and runtime state.
func isolateConfigDir(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, env := range []string{EnvDataDir, EnvProvider, EnvServiceURL, EnvBaseURL, EnvAPIKey, EnvModel, EnvSource} {
		t.Setenv(env, "")
	}

	SetRuntimeDataDir("")
	SetRuntimeProvider("")
	SetRuntimeServiceURL("")
	origPort := GetRuntimePort()
	t.Cleanup(func() {
		SetRuntimeDataDir("")
		SetRuntimeProvider("")
		SetRuntimeServiceURL("")
		runtimePort = origPort
	})
	return home
}

func TestRuntimePort(t *testing.T) {
	orig := GetRuntimePort()
	defer SetRuntimePort(orig)

	SetRuntimePort(0)
	if got := GetRuntimePort(); got != orig {
		t.Fatalf("expected port to remain %d, got %d", orig, got)
	}

	SetRuntimePort(9090)
	if got := GetRuntimePort(); got != 9090 {
		t.Fatalf("expected port 9090, got %d", got)
	}
}

func TestIsMacOSWindows(t *testing.T) {
	if IsMacOS() != (runtime.GOOS == "darwin") {
		t.Fatalf("IsMacOS mismatch")
	}
	if IsWindows() != (runtime.GOOS == "windows") {
		t.Fatalf("IsWindows mismatch")
	}
}

func TestGetDataDirPrecedence(t *testing.T) {
	isolateConfigDir(t)

	defaultDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir default: %v", err)
	}
	configPath, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath: %v", err)
	}
	if filepath.Dir(configPath) != defaultDir {
		t.Fatalf("expected default data dir %q to hold config %q", defaultDir, configPath)
	}

	envDir := filepath.Join(t.TempDir(), "env-data")
	t.Setenv(EnvDataDir, envDir)
	dir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir env: %v", err)
	}
	if dir != envDir {
		t.Fatalf("expected env dir %q, got %q", envDir, dir)
	}
	if info, err := os.Stat(envDir); err != nil || !info.IsDir() {
		t.Fatalf("expected env dir to be created: %v", err)
	}

	runtimeDir := filepath.Join(t.TempDir(), "flag-data")
	SetRuntimeDataDir(runtimeDir)
	dir, err = GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir runtime: %v", err)
	}
	if dir != runtimeDir {
		t.Fatalf("expected runtime dir %q, got %q", runtimeDir, dir)
	}
}

func TestLoadUserConfigDefaults(t *testing.T) {
	isolateConfigDir(t)

	if !IsFirstRun() {
		t.Fatalf("expected first run with no config")
	}
	if got := LoadUserConfig(); got != DefaultUserConfig() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestSaveAndLoadUserConfig(t *testing.T) {
	isolateConfigDir(t)

	cfg := UserConfig{
		Provider:              "OpenAI",
		BaseURL:               "https://llm.example.com/v1",
		APIKey:                "secret",
		Model:                 "gpt-4o-mini",
		RequestTimeoutSeconds: 30,
		AnalyzePerMinute:      -1,
	}
	if err := SaveUserConfig(cfg); err != nil {
		t.Fatalf("SaveUserConfig: %v", err)
	}
	if IsFirstRun() {
		t.Fatalf("expected config to exist after save")
	}

	path, _ := ConfigPath()
	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat config: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Fatalf("expected 0600 config file, got %o", perm)
		}
	}

	got := LoadUserConfig()
	want := UserConfig{
		Provider:              "openai",
		ServiceURL:            DefaultServiceURL,
		BaseURL:               "https://llm.example.com/v1",
		APIKey:                "secret",
		Model:                 "gpt-4o-mini",
		Source:                DefaultSource,
		RequestTimeoutSeconds: 30,
		AnalyzePerMinute:      -1,
		LogLevel:              DefaultLogLevel,
	}
	if got != want {
		t.Fatalf("LoadUserConfig = %+v, want %+v", got, want)
	}
}

func TestLoadUserConfigAnalyzePerMinute(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{raw: `{}`, want: DefaultAnalyzePerMinute},
		{raw: `{"analyze_per_minute":0}`, want: DefaultAnalyzePerMinute},
		{raw: `{"analyze_per_minute":3}`, want: 3},
		{raw: `{"analyze_per_minute":-1}`, want: -1},
	}
	for _, tc := range tests {
		isolateConfigDir(t)
		path, err := ConfigPath()
		if err != nil {
			t.Fatalf("ConfigPath: %v", err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(tc.raw), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		if got := LoadUserConfig().AnalyzePerMinute; got != tc.want {
			t.Fatalf("%s: AnalyzePerMinute = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestLoadUserConfigInvalidJSON(t *testing.T) {
	isolateConfigDir(t)

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := LoadUserConfig(); got != DefaultUserConfig() {
		t.Fatalf("expected defaults for invalid file, got %+v", got)
	}
}

func TestLocalConfigPath(t *testing.T) {
	isolateConfigDir(t)

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	dir := t.TempDir()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() { _ = os.Chdir(cwd) }()

	data, _ := json.Marshal(UserConfig{Provider: "sample", Source: "공시"})
	if err := os.WriteFile(filepath.Join(dir, configFileName), data, 0o644); err != nil {
		t.Fatalf("write local config: %v", err)
	}

	got := LoadUserConfig()
	if got.Provider != "sample" || got.Source != "공시" {
		t.Fatalf("expected local config to be loaded, got %+v", got)
	}
}

func TestResolvePrecedence(t *testing.T) {
	isolateConfigDir(t)
	SetRuntimeDataDir(t.TempDir())

	if err := SaveUserConfig(UserConfig{Provider: "gemini", Model: "file-model", ServiceURL: "http://file:1/analyze"}); err != nil {
		t.Fatalf("SaveUserConfig: %v", err)
	}
	t.Setenv(EnvModel, "env-model")
	t.Setenv(EnvProvider, "Anthropic")
	t.Setenv(EnvAPIKey, "env-key")

	cfg, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Provider != "anthropic" || cfg.Model != "env-model" || cfg.APIKey != "env-key" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.ServiceURL != "http://file:1/analyze" {
		t.Fatalf("file value lost: %q", cfg.ServiceURL)
	}
	if cfg.RequestTimeout() != 60*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.RequestTimeout())
	}
	if cfg.LogDir != filepath.Join(cfg.DataDir, "logs") {
		t.Fatalf("unexpected log dir %q", cfg.LogDir)
	}

	SetRuntimeProvider("sample")
	SetRuntimeServiceURL("http://flag:2/analyze")
	SetRuntimePort(9001)
	cfg, err = Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Provider != "sample" || cfg.ServiceURL != "http://flag:2/analyze" || cfg.Port != 9001 {
		t.Fatalf("runtime overrides not applied: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{UserConfig: DefaultUserConfig(), Port: DefaultPort}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config: %v", err)
	}

	badPort := valid
	badPort.Port = 70000
	if err := badPort.Validate(); err == nil {
		t.Fatal("expected port error")
	}

	badTimeout := valid
	badTimeout.RequestTimeoutSeconds = 0
	if err := badTimeout.Validate(); err == nil {
		t.Fatal("expected timeout error")
	}
}
