package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MySQLConfig MySQL 数据库配置（凭据优先从 secrets 文件读取，环境变量兜底）
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DB       string `yaml:"db"`
	SSL      bool   `yaml:"ssl"`
}

// MongoConfig 文档库连接（仅诊断端点使用，可选）
type MongoConfig struct {
	URI string `yaml:"uri"`
}

// Config bim-dashboard（HTTP API）配置
type Config struct {
	HTTP struct {
		Addr string
	}
	MySQL MySQLConfig `yaml:"mysql"`
	Mongo MongoConfig `yaml:"mongo"`
	Cache struct {
		TTLSeconds int
		RedisAddr  string
	}
	Log struct {
		Level  string
		Format string
	}
}

// ConfigError reports every required field that is missing, not just the
// first, so the operator fixes all gaps in one pass.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return "missing required config: " + strings.Join(e.Missing, ", ")
}

// Load assembles configuration from layered sources: the secrets file takes
// precedence, process environment fills whatever the file left empty.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Addr = getenv("HTTP_ADDR", ":8080")
	cfg.Log.Level = getenv("LOG_LEVEL", "info")
	cfg.Log.Format = getenv("LOG_FORMAT", "json")
	cfg.Cache.RedisAddr = os.Getenv("CACHE_REDIS_ADDR")
	cfg.Cache.TTLSeconds = 300
	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Cache.TTLSeconds = n
		}
	}

	if err := cfg.loadSecretsFile(); err != nil {
		return nil, err
	}
	cfg.loadEnvFallback()

	if cfg.MySQL.Port == 0 {
		cfg.MySQL.Port = 3306
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadSecretsFile 读取 secrets 文件（缺文件不算错，仅走环境变量）
func (c *Config) loadSecretsFile() error {
	path := getenv("SECRETS_FILE", "secrets.yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read secrets file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse secrets file %s: %w", path, err)
	}
	return nil
}

// loadEnvFallback fills only fields the secrets file did not set.
func (c *Config) loadEnvFallback() {
	if c.MySQL.Host == "" {
		c.MySQL.Host = os.Getenv("MYSQL_HOST")
	}
	if c.MySQL.Port == 0 {
		if v := os.Getenv("MYSQL_PORT"); v != "" {
			fmt.Sscanf(v, "%d", &c.MySQL.Port)
		}
	}
	if c.MySQL.User == "" {
		c.MySQL.User = os.Getenv("MYSQL_USER")
	}
	if c.MySQL.Password == "" {
		c.MySQL.Password = os.Getenv("MYSQL_PASSWORD")
	}
	if c.MySQL.DB == "" {
		c.MySQL.DB = os.Getenv("MYSQL_DB")
	}
	if !c.MySQL.SSL {
		if v := os.Getenv("MYSQL_SSL"); v != "" {
			c.MySQL.SSL, _ = strconv.ParseBool(v)
		}
	}
	if c.Mongo.URI == "" {
		c.Mongo.URI = os.Getenv("MONGO_URI")
	}
}

func (c *Config) validate() error {
	var missing []string
	if c.MySQL.Host == "" {
		missing = append(missing, "mysql.host")
	}
	if c.MySQL.User == "" {
		missing = append(missing, "mysql.user")
	}
	if c.MySQL.Password == "" {
		missing = append(missing, "mysql.password")
	}
	if c.MySQL.DB == "" {
		missing = append(missing, "mysql.db")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

// SecretPresence reports which required credentials are set, for the doctor
// endpoint. Values are never exposed, only presence.
func (c *Config) SecretPresence() map[string]bool {
	return map[string]bool{
		"mysql.host":     c.MySQL.Host != "",
		"mysql.user":     c.MySQL.User != "",
		"mysql.password": c.MySQL.Password != "",
		"mysql.db":       c.MySQL.DB != "",
		"mongo.uri":      c.Mongo.URI != "",
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
