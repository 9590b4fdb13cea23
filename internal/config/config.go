package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	SessionStorePostgres = "postgres"
	SessionStoreRedis    = "redis"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
	AppHost string        `mapstructure:"host"`
}

type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type DBConfig struct {
	Source string `mapstructure:"source"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SessionConfig holds the sliding-window parameters. RenewAfter is measured
// from the session's last update; Retention is how long expired rows are kept
// before cmd/cleanup removes them.
type SessionConfig struct {
	Store        string        `mapstructure:"store"`
	Lifetime     time.Duration `mapstructure:"lifetime"`
	RenewAfter   time.Duration `mapstructure:"renew_after"`
	Retention    time.Duration `mapstructure:"retention"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
}

type LogConfig struct {
	Development bool `mapstructure:"development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("db.source", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("session.store", SessionStorePostgres)
	v.SetDefault("session.lifetime", 30*24*time.Hour)
	v.SetDefault("session.renew_after", 9*24*time.Hour)
	v.SetDefault("session.retention", 7*24*time.Hour)
	v.SetDefault("session.cookie_secure", false)
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.development", false)
}

func Load() (*Config, error) {
	v := viper.New()
	v.AddConfigPath("./configs")
	v.AddConfigPath("/configs")
	v.SetConfigName("settings")
	v.SetConfigType("yml")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
