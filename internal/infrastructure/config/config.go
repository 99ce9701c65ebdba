package config

import (
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const (
	SourceDriverAPI      = "api"
	SourceDriverPostgres = "postgres"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Source     SourceConfig     `mapstructure:"source"`
	ListingAPI ListingAPIConfig `mapstructure:"listing_api"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Snapshot   SnapshotConfig   `mapstructure:"snapshot"`
	Typesense  TypesenseConfig  `mapstructure:"typesense"`
	RabbitMQ   RabbitMQConfig   `mapstructure:"rabbitmq"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	EnableCORS     bool          `mapstructure:"enable_cors"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	RateBurst      int           `mapstructure:"rate_burst"`
	TrustedProxies []string      `mapstructure:"trusted_proxies"` // IPs or CIDRs allowed to set X-Forwarded-For
}

type SourceConfig struct {
	Driver string `mapstructure:"driver"` // api or postgres
}

type ListingAPIConfig struct {
	BaseURL        string               `mapstructure:"base_url"`
	APIKey         string               `mapstructure:"api_key"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	RateLimit      float64              `mapstructure:"rate_limit"`
	BurstLimit     int                  `mapstructure:"burst_limit"`
	MaxRetries     int                  `mapstructure:"max_retries"`
	RetryInterval  time.Duration        `mapstructure:"retry_interval"`
	PropertiesPath string               `mapstructure:"properties_path"`
	RoomsPath      string               `mapstructure:"rooms_path"`
	BookingsPath   string               `mapstructure:"bookings_path"`
	ReviewsPath    string               `mapstructure:"reviews_path"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

type CircuitBreakerConfig struct {
	MaxRequests         uint32        `mapstructure:"max_requests"`
	Interval            time.Duration `mapstructure:"interval"`
	Timeout             time.Duration `mapstructure:"timeout"`
	ConsecutiveFailures uint32        `mapstructure:"consecutive_failures"`
}

type DatabaseConfig struct {
	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port"`
	Username           string        `mapstructure:"username"`
	Password           string        `mapstructure:"password"`
	Database           string        `mapstructure:"database"`
	SSLMode            string        `mapstructure:"ssl_mode"`
	MaxOpenConnections int           `mapstructure:"max_open_connections"`
	MaxIdleConnections int           `mapstructure:"max_idle_connections"`
	ConnMaxLife        time.Duration `mapstructure:"conn_max_life"`
	AutoMigrate        bool          `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database"`
	PoolSize     int           `mapstructure:"pool_size"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type CacheConfig struct {
	LocalMaxSize int64         `mapstructure:"local_max_size"`
	LocalTTL     time.Duration `mapstructure:"local_ttl"`
}

type SnapshotConfig struct {
	TTL          time.Duration `mapstructure:"ttl"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

type TypesenseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ApiKey         string `mapstructure:"api_key"`
	Host           string `mapstructure:"host"`
	CollectionName string `mapstructure:"collection_name"`
}

type RabbitMQConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	URL           string `mapstructure:"url"`
	Queue         string `mapstructure:"queue"`
	Exchange      string `mapstructure:"exchange"`
	RoutingKey    string `mapstructure:"routing_key"`
	PrefetchCount int    `mapstructure:"prefetch_count"`
	PerInstance   bool   `mapstructure:"per_instance"`
}

type ScheduleConfig struct {
	DestinationRefreshMinutes uint64 `mapstructure:"destination_refresh_minutes"`
	RefreshOnStart            bool   `mapstructure:"refresh_on_start"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // json or text
	OutputFile string `mapstructure:"output_file"`
}

func LoadConfig() (*Config, error) {
	if err := gotenv.Load("../.env"); err != nil {
		_ = gotenv.Load()
	}
	return LoadConfigFromPaths("..", ".")
}

// LoadConfigFromPaths reads config.yaml from the first path that has one. Environment variables
// override file values using underscores for dots, e.g. SEARCH_SERVER_PORT.
func LoadConfigFromPaths(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := v.UnmarshalKey("search", &config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	expandConfigEnvVars(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func expandConfigEnvVars(config *Config) {
	config.Server.Host = os.ExpandEnv(config.Server.Host)

	config.ListingAPI.BaseURL = os.ExpandEnv(config.ListingAPI.BaseURL)
	config.ListingAPI.APIKey = os.ExpandEnv(config.ListingAPI.APIKey)

	config.Database.Host = os.ExpandEnv(config.Database.Host)
	config.Database.Username = os.ExpandEnv(config.Database.Username)
	config.Database.Password = os.ExpandEnv(config.Database.Password)
	config.Database.Database = os.ExpandEnv(config.Database.Database)
	config.Database.SSLMode = os.ExpandEnv(config.Database.SSLMode)

	config.Redis.Host = os.ExpandEnv(config.Redis.Host)
	config.Redis.Password = os.ExpandEnv(config.Redis.Password)

	config.Typesense.ApiKey = os.ExpandEnv(config.Typesense.ApiKey)
	config.Typesense.Host = os.ExpandEnv(config.Typesense.Host)

	config.RabbitMQ.URL = os.ExpandEnv(config.RabbitMQ.URL)
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode)
}

func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TrustedProxyPrefixes parses TrustedProxies. A bare address is treated as a single-host prefix.
func (c *ServerConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, entry := range c.TrustedProxies {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if _, err := c.Server.TrustedProxyPrefixes(); err != nil {
		return err
	}

	c.Source.Driver = strings.ToLower(strings.TrimSpace(c.Source.Driver))
	if c.Source.Driver == "" {
		c.Source.Driver = SourceDriverAPI
	}

	switch c.Source.Driver {
	case SourceDriverAPI:
		if err := c.ListingAPI.validate(); err != nil {
			return err
		}
	case SourceDriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required for the postgres source")
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	default:
		return fmt.Errorf("unknown source driver: %q", c.Source.Driver)
	}

	if c.Redis.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("redis host is required when redis is enabled")
	}

	if c.Typesense.Enabled {
		if c.Typesense.ApiKey == "" {
			return fmt.Errorf("typesense API key is required")
		}
		if c.Typesense.Host == "" {
			return fmt.Errorf("typesense host is required")
		}
		if c.Typesense.CollectionName == "" {
			return fmt.Errorf("typesense collection name is required")
		}
	}

	if c.RabbitMQ.Enabled {
		if c.RabbitMQ.URL == "" {
			return fmt.Errorf("rabbitmq url is required")
		}
		if c.RabbitMQ.Queue == "" {
			return fmt.Errorf("rabbitmq queue is required")
		}
		if c.RabbitMQ.PerInstance && c.RabbitMQ.Exchange == "" {
			return fmt.Errorf("rabbitmq per_instance requires an exchange")
		}
		if c.RabbitMQ.PrefetchCount <= 0 {
			c.RabbitMQ.PrefetchCount = 10
		}
	}

	if c.Snapshot.TTL <= 0 {
		c.Snapshot.TTL = 5 * time.Minute
	}
	if c.Snapshot.FetchTimeout <= 0 {
		c.Snapshot.FetchTimeout = 10 * time.Second
	}
	if c.Cache.LocalMaxSize <= 0 {
		c.Cache.LocalMaxSize = 100
	}
	if c.Cache.LocalTTL <= 0 {
		c.Cache.LocalTTL = c.Snapshot.TTL
	}
	if c.Schedule.DestinationRefreshMinutes == 0 {
		c.Schedule.DestinationRefreshMinutes = 15
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	return nil
}

func (c *ListingAPIConfig) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("listing API base URL is required")
	}

	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		c.BaseURL = "https://" + c.BaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}

	if c.PropertiesPath == "" {
		c.PropertiesPath = "/properties"
	}
	if c.RoomsPath == "" {
		c.RoomsPath = "/rooms"
	}
	if c.BookingsPath == "" {
		c.BookingsPath = "/bookings"
	}
	if c.ReviewsPath == "" {
		c.ReviewsPath = "/reviews"
	}
	return nil
}
