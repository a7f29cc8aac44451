package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the vidshare API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	CORS       CORSConfig       `yaml:"cors"`
	Media      MediaConfig      `yaml:"media"`
	Pagination PaginationConfig `yaml:"pagination"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int   `yaml:"port"`
	ReadTimeoutSec  int   `yaml:"read_timeout_sec"`
	WriteTimeoutSec int   `yaml:"write_timeout_sec"`
	ShutdownSec     int   `yaml:"shutdown_timeout_sec"`
	MaxJSONBytes    int64 `yaml:"max_json_bytes"`
	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP.
	TrustProxy bool `yaml:"trust_proxy"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis (default)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
}

// AuthConfig holds token and login settings.
type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
	Issuer        string `yaml:"issuer"`
	CookieName    string `yaml:"cookie_name"`
	CookieSecure  bool   `yaml:"cookie_secure"`
	BcryptCost    int    `yaml:"bcrypt_cost"`
	// LoginLimit requests per LoginWindowSec per client IP; 0 disables limiting.
	LoginLimit     int `yaml:"login_limit"`
	LoginWindowSec int `yaml:"login_window_sec"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// MediaConfig selects and configures the media host.
type MediaConfig struct {
	Driver            string           `yaml:"driver"` // cloudinary, minio
	Cloudinary        CloudinaryConfig `yaml:"cloudinary"`
	Minio             MinioConfig      `yaml:"minio"`
	Folders           MediaFolders     `yaml:"folders"`
	StockThumbnailURL string           `yaml:"stock_thumbnail_url"`
	TempDir           string           `yaml:"temp_dir"`
	MaxVideoBytes     int64            `yaml:"max_video_bytes"`
	MaxImageBytes     int64            `yaml:"max_image_bytes"`
	Proxy             ProxyConfig      `yaml:"proxy"`
}

// CloudinaryConfig holds hosted media credentials.
type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
}

// MinioConfig holds self-hosted object storage settings.
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	PublicURL string `yaml:"public_url"`
}

// MediaFolders names the upload folders on the media host.
type MediaFolders struct {
	Videos     string `yaml:"videos"`
	Thumbnails string `yaml:"thumbnails"`
	Avatars    string `yaml:"avatars"`
}

// ProxyConfig configures the /media passthrough.
type ProxyConfig struct {
	BaseURL         string   `yaml:"base_url"`
	AllowedPrefixes []string `yaml:"allowed_prefixes"`
	TimeoutSec      int      `yaml:"timeout_sec"`
}

// PaginationConfig holds per-entity default page sizes.
type PaginationConfig struct {
	Videos       int `yaml:"videos"`
	Categories   int `yaml:"categories"`
	Comments     int `yaml:"comments"`
	Search       int `yaml:"search"`
	Default      int `yaml:"default"`
	MaxPageSize  int `yaml:"max_page_size"`
	SearchWindow int `yaml:"search_window"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 15
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxJSONBytes <= 0 {
		c.HTTP.MaxJSONBytes = 1 << 20
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "redis"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.KeyPrefix == "" {
		c.Database.KeyPrefix = "vidshare:"
	}
	c.Auth.applyDefaults()
	c.Media.applyDefaults()
	c.Pagination.applyDefaults()
}

func (a *AuthConfig) applyDefaults() {
	if a.TokenTTLHours <= 0 {
		a.TokenTTLHours = 24 * 30
	}
	if a.Issuer == "" {
		a.Issuer = "vidshare"
	}
	if a.CookieName == "" {
		a.CookieName = "token"
	}
	if a.LoginWindowSec <= 0 {
		a.LoginWindowSec = 600
	}
}

func (m *MediaConfig) applyDefaults() {
	if m.Driver == "" {
		m.Driver = "cloudinary"
	}
	if m.Folders.Videos == "" {
		m.Folders.Videos = "videos"
	}
	if m.Folders.Thumbnails == "" {
		m.Folders.Thumbnails = "video_thumbnails"
	}
	if m.Folders.Avatars == "" {
		m.Folders.Avatars = "avatars"
	}
	if m.StockThumbnailURL == "" {
		m.StockThumbnailURL = "no-photo.jpg"
	}
	if m.TempDir == "" {
		m.TempDir = os.TempDir()
	}
	if m.MaxVideoBytes <= 0 {
		m.MaxVideoBytes = 100 << 20
	}
	if m.MaxImageBytes <= 0 {
		m.MaxImageBytes = 5 << 20
	}
	if m.Proxy.TimeoutSec <= 0 {
		m.Proxy.TimeoutSec = 30
	}
	if m.Proxy.BaseURL == "" {
		switch {
		case m.Driver == "minio":
			m.Proxy.BaseURL = m.Minio.PublicURL
		case m.Cloudinary.CloudName != "":
			m.Proxy.BaseURL = "https://res.cloudinary.com/" + m.Cloudinary.CloudName + "/video/upload"
		}
	}
	if len(m.Proxy.AllowedPrefixes) == 0 {
		m.Proxy.AllowedPrefixes = []string{m.Folders.Videos + "/"}
	}
}

func (p *PaginationConfig) applyDefaults() {
	for _, f := range []struct {
		v   *int
		def int
	}{
		{&p.Videos, 10},
		{&p.Categories, 25},
		{&p.Comments, 10},
		{&p.Search, 12},
		{&p.Default, 20},
		{&p.MaxPageSize, 100},
		{&p.SearchWindow, 1000},
	} {
		if *f.v <= 0 {
			*f.v = f.def
		}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	switch c.Media.Driver {
	case "cloudinary":
		if c.Media.Cloudinary.CloudName == "" {
			return fmt.Errorf("media.cloudinary.cloud_name is required")
		}
	case "minio":
		if c.Media.Minio.Endpoint == "" || c.Media.Minio.Bucket == "" {
			return fmt.Errorf("media.minio.endpoint and media.minio.bucket are required")
		}
	default:
		return fmt.Errorf("media.driver must be \"cloudinary\" or \"minio\", got %q", c.Media.Driver)
	}
	if c.Media.Proxy.BaseURL != "" {
		if _, err := url.Parse(c.Media.Proxy.BaseURL); err != nil {
			return fmt.Errorf("media.proxy.base_url: %w", err)
		}
	}
	return nil
}

// TokenTTL is the lifetime of issued tokens.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

// LoginWindow is the login rate limit window.
func (a AuthConfig) LoginWindow() time.Duration {
	return time.Duration(a.LoginWindowSec) * time.Second
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
