package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the default User-Agent string sent with all HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:147.0) Gecko/20100101 Firefox/147.0"

const (
	// DefaultAPIBaseURL is the root of the platform's public JSON API.
	DefaultAPIBaseURL = "https://www.vlive.tv/globalv-web/vam-web"
	// DefaultVideoBaseURL is used to build human-readable video links in logs.
	DefaultVideoBaseURL = "https://www.vlive.tv/video"
	// DefaultRetryAmount is the number of attempts made to fetch play info for a video.
	DefaultRetryAmount = 10
	// DefaultRetryDelay is the fixed pause between two play info attempts.
	DefaultRetryDelay = time.Second
)

type Config struct {
	APIBaseURL            string `mapstructure:"api_base_url"`
	VideoBaseURL          string `mapstructure:"video_base_url"`
	ProxyConnectionString string `mapstructure:"proxy_connection_string"`
	ClientTimeout         string `mapstructure:"client_timeout"` // Go duration string like "30s", "1m", etc.
	UserAgent             string `mapstructure:"user_agent"`
	LogLevel              string `mapstructure:"log_level"`
	OutputDir             string `mapstructure:"output_dir"`
	DupesOnly             bool   `mapstructure:"dupes_only"`
	DownloadVideo         bool   `mapstructure:"download_video"`
	PageSize              int    `mapstructure:"page_size"`        // Posts requested per board page
	SeenVideosSize        int    `mapstructure:"seen_videos_size"` // Videos remembered per run to avoid processing them twice
	Retry                 struct {
		Amount int    `mapstructure:"amount"`
		Delay  string `mapstructure:"delay"` // Go duration string
	} `mapstructure:"retry"`
	Metrics struct {
		Enabled bool   `mapstructure:"enabled"`
		Address string `mapstructure:"address"`
		Port    int    `mapstructure:"port"`
	} `mapstructure:"metrics"`
	Sentry struct {
		DSN         string `mapstructure:"dsn"`
		Environment string `mapstructure:"environment"`
	} `mapstructure:"sentry"`
}

// flagKeys maps CLI flag names to their configuration keys.
var flagKeys = map[string]string{
	"dupes-only":   "dupes_only",
	"video":        "download_video",
	"retry-amount": "retry.amount",
	"log-level":    "log_level",
	"output":       "output_dir",
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: !isatty.IsTerminal(os.Stdout.Fd()),
	}).With().Timestamp().Logger()
}

// LoadConfig reads configuration from (in increasing precedence) defaults,
// the config file, a .env file, APP_ prefixed environment variables and the
// given command-line flags. configFile may be empty to search the usual paths.
func LoadConfig(configFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Err(err).Msg("Failed to read .env file")
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variable support
	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Add specific environment variable for log level
	_ = v.BindEnv("log_level", "APP_LOG_LEVEL", "LOG_LEVEL")

	v.SetDefault("api_base_url", DefaultAPIBaseURL)
	v.SetDefault("video_base_url", DefaultVideoBaseURL)
	v.SetDefault("proxy_connection_string", "")
	v.SetDefault("client_timeout", "30s")
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("log_level", "warning")
	v.SetDefault("output_dir", ".")
	v.SetDefault("dupes_only", false)
	v.SetDefault("download_video", false)
	v.SetDefault("page_size", 100)
	v.SetDefault("seen_videos_size", 10000)
	v.SetDefault("retry.amount", DefaultRetryAmount)
	v.SetDefault("retry.delay", DefaultRetryDelay.String())
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.address", "localhost")
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "")

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.Retry.Amount <= 0 {
		logger.Warn().Int("retry_amount", config.Retry.Amount).Msg("Invalid retry amount, using default")
		config.Retry.Amount = DefaultRetryAmount
	}

	return &config, nil
}

// Init loads the configuration, configures the global logger level and
// stores the result so it is available through GetConfig.
func Init(configFile string, flags *pflag.FlagSet) (*Config, error) {
	config, err := LoadConfig(configFile, flags)
	if err != nil {
		return nil, err
	}

	level := ParseLogLevel(config.LogLevel)

	// Set the global log level
	zerolog.SetGlobalLevel(level)

	// Update logger with the configured level
	logger = logger.Level(level)

	logger.Debug().Str("level", level.String()).Msg("Logging configured")
	globalConfig = config
	logger.Debug().Msg("Configuration loaded successfully")
	return config, nil
}

// ParseLogLevel converts a configured level name into a zerolog level.
// "warning" is accepted as an alias of "warn". Unknown values fall back to warn.
func ParseLogLevel(raw string) zerolog.Level {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" || name == "warning" {
		return zerolog.WarnLevel
	}
	parsed, err := zerolog.ParseLevel(name)
	if err != nil {
		logger.Warn().Str("invalid_level", raw).Msg("Invalid log level, using default 'warning'")
		return zerolog.WarnLevel
	}
	return parsed
}

// RetryDelay returns the parsed retry delay, falling back to DefaultRetryDelay.
func (c *Config) RetryDelay() time.Duration {
	if c.Retry.Delay == "" {
		return DefaultRetryDelay
	}
	d, err := time.ParseDuration(c.Retry.Delay)
	if err != nil || d < 0 {
		logger.Warn().Str("delay", c.Retry.Delay).Msg("Invalid retry delay, using default 1s")
		return DefaultRetryDelay
	}
	return d
}

func GetConfig() *Config {
	return globalConfig
}

func GetUserAgent() string {
	if globalConfig != nil && globalConfig.UserAgent != "" {
		return globalConfig.UserAgent
	}

	return DefaultUserAgent
}

func GetLogger() zerolog.Logger {
	return logger
}
