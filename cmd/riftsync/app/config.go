package app

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/riftsync/pkg/constants"
	"github.com/agentstation/riftsync/pkg/errors"
)

// EnvPrefix prefixes every environment variable read into Config.
const EnvPrefix = "RIFTSYNC"

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Sync configuration
	BaseURL     string
	Snapshot    string
	AssetsDir   string
	AssetExt    string
	PageSize    int
	Workers     int
	UserAgent   string
	HTTPTimeout time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (handled by cobra)
//  2. RIFTSYNC_* environment variables
//  3. .env files
//  4. Config file (~/.riftsync.yaml or ./.riftsync.yaml)
//  5. Defaults
func LoadConfig() (*Config, error) {
	return LoadConfigFrom("")
}

// LoadConfigFrom is LoadConfig with an explicit config file. An explicit
// file that cannot be read is an error; a missing default file is not.
func LoadConfigFrom(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		configFile = v.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("file", "reading "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".riftsync")
		// Read config file (ignore error if not found)
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		BaseURL:     v.GetString("base_url"),
		Snapshot:    v.GetString("snapshot"),
		AssetsDir:   v.GetString("assets_dir"),
		AssetExt:    v.GetString("asset_ext"),
		PageSize:    v.GetInt("page_size"),
		Workers:     v.GetInt("workers"),
		UserAgent:   v.GetString("user_agent"),
		HTTPTimeout: v.GetDuration("http_timeout"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", constants.DefaultBaseURL)
	v.SetDefault("snapshot", constants.DefaultSnapshotPath)
	v.SetDefault("assets_dir", constants.DefaultAssetsDir)
	v.SetDefault("asset_ext", constants.DefaultAssetExt)
	v.SetDefault("page_size", constants.DefaultPageSize)
	v.SetDefault("workers", constants.DefaultWorkers)
	v.SetDefault("user_agent", constants.DefaultUserAgent)
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// Validate checks the sync settings.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.NewValidationError("base_url", c.BaseURL, "must be an absolute http(s) URL")
	}
	if c.PageSize < 1 || c.PageSize > constants.MaxPageSize {
		return errors.NewValidationError("page_size", c.PageSize, "out of range")
	}
	if c.Workers < 1 || c.Workers > constants.MaxWorkers {
		return errors.NewValidationError("workers", c.Workers, "out of range")
	}
	if c.AssetExt == "" || strings.ContainsAny(c.AssetExt, `./\`) {
		return errors.NewValidationError("asset_ext", c.AssetExt, "must be an extension without a dot")
	}
	if c.Snapshot == "" || filepath.Base(c.Snapshot) == "." {
		return errors.NewValidationError("snapshot", c.Snapshot, "must name a file")
	}
	if c.HTTPTimeout < 0 {
		return errors.NewValidationError("http_timeout", c.HTTPTimeout, "must be non-negative")
	}
	return nil
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded last; godotenv never overrides variables already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}
