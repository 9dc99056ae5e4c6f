package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort       string `mapstructure:"HTTP_PORT"`
	GRPCPort       string `mapstructure:"GRPC_PORT"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	AccessSecret   string `mapstructure:"ACCESS_SECRET"`
	RefreshSecret  string `mapstructure:"REFRESH_SECRET"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	TrustedProxies string `mapstructure:"TRUSTED_PROXIES"`
	AppURL         string `mapstructure:"APP_URL"`

	StripeAPIKey        string `mapstructure:"STRIPE_API_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	StripeAPIURL        string `mapstructure:"STRIPE_API_URL"`

	MuxTokenID     string `mapstructure:"MUX_TOKEN_ID"`
	MuxTokenSecret string `mapstructure:"MUX_TOKEN_SECRET"`
	MuxAPIURL      string `mapstructure:"MUX_API_URL"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

var keys = []string{
	"HTTP_PORT",
	"GRPC_PORT",
	"DB_HOST",
	"DB_PORT",
	"DB_USER",
	"DB_PASSWORD",
	"DB_NAME",
	"REDIS_ADDR",
	"ACCESS_SECRET",
	"REFRESH_SECRET",
	"ALLOWED_ORIGINS",
	"TRUSTED_PROXIES",
	"APP_URL",
	"STRIPE_API_KEY",
	"STRIPE_WEBHOOK_SECRET",
	"STRIPE_API_URL",
	"MUX_TOKEN_ID",
	"MUX_TOKEN_SECRET",
	"MUX_API_URL",
	"LOG_LEVEL",
}

// LoadConfig reads app.env from path when present; environment variables
// always win.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("HTTP_PORT", ":8080")
	v.SetDefault("GRPC_PORT", ":9090")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("APP_URL", "http://localhost:3000")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("STRIPE_API_URL", "https://api.stripe.com")
	v.SetDefault("MUX_API_URL", "https://api.mux.com")
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()
	for _, key := range keys {
		if err = v.BindEnv(key); err != nil {
			return
		}
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}
	if config.AccessSecret == "" || config.RefreshSecret == "" {
		err = errors.New("ACCESS_SECRET and REFRESH_SECRET are required")
	}
	return
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c Config) Origins() []string {
	return splitList(c.AllowedOrigins)
}

// Proxies lists the addresses or CIDRs whose X-Forwarded-For is believed.
// Empty means client IPs come from the connection only.
func (c Config) Proxies() []string {
	return splitList(c.TrustedProxies)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}
