package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Upload   UploadConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Driver   string // postgres, mongo or memory
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
	MongoURI string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type SessionConfig struct {
	Secret      string
	CookieName  string
	MaxAgeHours int
}

type UploadConfig struct {
	Dir               string
	URLPrefix         string
	AllowedExtensions []string
	MaxSizeMB         int64
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "storefront")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TTL", "5m")
	v.SetDefault("SESSION_COOKIE", "storefront_session")
	v.SetDefault("SESSION_MAX_AGE_HOURS", 24)
	v.SetDefault("UPLOAD_DIR", "static/uploads")
	v.SetDefault("UPLOAD_URL_PREFIX", "/static/uploads")
	v.SetDefault("UPLOAD_ALLOWED_EXTENSIONS", []string{"png", "jpg", "jpeg", "gif"})
	v.SetDefault("UPLOAD_MAX_MB", 10)

	// .env is optional, the environment alone is enough in containers
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *fs.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("DB_DRIVER"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
			MongoURI: v.GetString("MONGO_URI"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("REDIS_TTL"),
		},
		Session: SessionConfig{
			Secret:      v.GetString("SESSION_SECRET"),
			CookieName:  v.GetString("SESSION_COOKIE"),
			MaxAgeHours: v.GetInt("SESSION_MAX_AGE_HOURS"),
		},
		Upload: UploadConfig{
			Dir:               v.GetString("UPLOAD_DIR"),
			URLPrefix:         v.GetString("UPLOAD_URL_PREFIX"),
			AllowedExtensions: v.GetStringSlice("UPLOAD_ALLOWED_EXTENSIONS"),
			MaxSizeMB:         v.GetInt64("UPLOAD_MAX_MB"),
		},
	}

	if config.Session.Secret == "" {
		return nil, errors.New("SESSION_SECRET is required")
	}

	return config, nil
}
