package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName         = "jobseek"
	ConfigFileName  = "config.json"
	ProxiesFileName = "proxies.txt"
	SessionFileName = "session.json"
	SessionDBName   = "session.db"

	DefaultBaseURL = "http://127.0.0.1:8080"
)

// Config holds the backend origin, the session store and call timeouts.
type Config struct {
	BaseURL       string `json:"base_url"`
	Store         string `json:"store"`
	StorePath     string `json:"store_path,omitempty"`
	ClientProfile string `json:"client_profile,omitempty"`

	RequestTimeoutSeconds      int `json:"request_timeout_seconds"`
	LoginTimeoutSeconds        int `json:"login_timeout_seconds"`
	SignupTimeoutSeconds       int `json:"signup_timeout_seconds"`
	ProbeTimeoutSeconds        int `json:"probe_timeout_seconds"`
	ReachabilityTimeoutSeconds int `json:"reachability_timeout_seconds"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:                    envString("JOBSEEK_BASE_URL", DefaultBaseURL),
		Store:                      envString("JOBSEEK_STORE", "file"),
		StorePath:                  envString("JOBSEEK_STORE_PATH", ""),
		ClientProfile:              envString("JOBSEEK_CLIENT_PROFILE", ""),
		RequestTimeoutSeconds:      envInt("JOBSEEK_TIMEOUT_REQUEST", 15),
		LoginTimeoutSeconds:        envInt("JOBSEEK_TIMEOUT_LOGIN", 10),
		SignupTimeoutSeconds:       envInt("JOBSEEK_TIMEOUT_SIGNUP", 30),
		ProbeTimeoutSeconds:        envInt("JOBSEEK_TIMEOUT_PROBE", 5),
		ReachabilityTimeoutSeconds: envInt("JOBSEEK_TIMEOUT_REACHABILITY", 3),
	}
}

func (c Config) RequestTimeout() time.Duration { return seconds(c.RequestTimeoutSeconds) }

func (c Config) LoginTimeout() time.Duration { return seconds(c.LoginTimeoutSeconds) }

func (c Config) SignupTimeout() time.Duration { return seconds(c.SignupTimeoutSeconds) }

func (c Config) ProbeTimeout() time.Duration { return seconds(c.ProbeTimeoutSeconds) }

func (c Config) ReachabilityTimeout() time.Duration { return seconds(c.ReachabilityTimeoutSeconds) }

// ResolvedStorePath returns StorePath, or the default file for the
// configured backend inside the config dir.
func (c Config) ResolvedStorePath() (string, error) {
	if path := strings.TrimSpace(c.StorePath); path != "" {
		return path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if strings.EqualFold(strings.TrimSpace(c.Store), "sqlite") {
		return filepath.Join(dir, SessionDBName), nil
	}
	return filepath.Join(dir, SessionFileName), nil
}

// LoadDotenv reads .env from the working directory if present. Variables
// already set in the environment win.
func LoadDotenv() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func ConfigDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("JOBSEEK_CONFIG_DIR")); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

func ProxiesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ProxiesFileName), nil
}

func Load() (Config, error) {
	cfg := DefaultConfig()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	applyEnv(&cfg)

	return cfg, nil
}

// applyEnv lets explicitly set variables override the file.
func applyEnv(cfg *Config) {
	if val := strings.TrimSpace(os.Getenv("JOBSEEK_BASE_URL")); val != "" {
		cfg.BaseURL = val
	}
	if val := strings.TrimSpace(os.Getenv("JOBSEEK_STORE")); val != "" {
		cfg.Store = val
	}
	if val := strings.TrimSpace(os.Getenv("JOBSEEK_STORE_PATH")); val != "" {
		cfg.StorePath = val
	}
}

// Init writes default config.json and proxies.txt if they don't already exist.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(configPath, DefaultConfig()); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	proxiesPath := filepath.Join(dir, ProxiesFileName)
	if _, err := os.Stat(proxiesPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(proxiesPath, []byte("# one proxy URL per line\n"), 0o644); err != nil {
			return created, err
		}
		created = append(created, proxiesPath)
	}

	return created, nil
}

func writeConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// LoadProxies returns outbound proxies from the flag, JOBSEEK_PROXIES or
// proxies.txt, in that order.
func LoadProxies(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue), nil
	}

	if env := strings.TrimSpace(os.Getenv("JOBSEEK_PROXIES")); env != "" {
		return splitCSV(env), nil
	}

	path, err := ProxiesPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var proxies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}
	return proxies, nil
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
