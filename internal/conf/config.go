package conf

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig   `mapstructure:"server"`
	Database  DatabaseConfig `mapstructure:"database"`
	Redis     RedisConfig    `mapstructure:"redis"`
	Providers ProviderConfig `mapstructure:"providers"`
	Storage   StorageConfig  `mapstructure:"storage"`
	Jobs      []JobConfig    `mapstructure:"jobs"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // postgres or mysql
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DbName   string `mapstructure:"dbname"`
	LogLevel string `mapstructure:"logLevel"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	// CacheTTLSeconds bounds how long a cached article listing page is served.
	CacheTTLSeconds int `mapstructure:"cacheTTLSeconds"`
}

// ProviderConfig carries one credential block per upstream news API.
// An empty key disables the provider without removing it from the registry.
type ProviderConfig struct {
	NewsAPI  ProviderCredentials `mapstructure:"newsapi"`
	Guardian ProviderCredentials `mapstructure:"guardian"`
	NYTimes  ProviderCredentials `mapstructure:"nytimes"`
}

type ProviderCredentials struct {
	Key     string `mapstructure:"key"`
	BaseURL string `mapstructure:"baseUrl"`
}

// StorageConfig exposes column widths the observer validates against,
// rather than hard-coding them next to the write path.
type StorageConfig struct {
	ImageURLWidth int `mapstructure:"imageUrlWidth"`
}

type JobConfig struct {
	Name     string `mapstructure:"name"`
	Cron     string `mapstructure:"cron"`
	Enable   bool   `mapstructure:"enable"`
	Provider string `mapstructure:"provider"` // empty = all providers
}

// LoadConfig 加载配置
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv() // 自动读取环境变量

	// 允许环境变量替换 YAML 中的 ${VAR}
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	// 显式展开环境变量
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.Contains(val, "${") {
			v.Set(key, os.ExpandEnv(val))
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Storage.ImageURLWidth == 0 {
		c.Storage.ImageURLWidth = 512
	}
	if c.Redis.CacheTTLSeconds == 0 {
		c.Redis.CacheTTLSeconds = 60
	}
	if c.Providers.NewsAPI.BaseURL == "" {
		c.Providers.NewsAPI.BaseURL = "https://newsapi.org/v2"
	}
	if c.Providers.Guardian.BaseURL == "" {
		c.Providers.Guardian.BaseURL = "https://content.guardianapis.com"
	}
	if c.Providers.NYTimes.BaseURL == "" {
		c.Providers.NYTimes.BaseURL = "https://api.nytimes.com/svc/search/v2"
	}
}
