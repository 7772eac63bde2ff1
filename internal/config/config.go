package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string           `yaml:"env" env-default:"development"` // environment
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	Database   DatabaseConfig   `yaml:"database"`
	JWT        JWTConfig        `yaml:"jwt"`
	Payment    PaymentConfig    `yaml:"payment"`
	Mail       MailConfig       `yaml:"mail"`
	Migrations MigrationsConfig `yaml:"migrations"`
}

// HTTPServerConfig settings of the http server
type HTTPServerConfig struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// DatabaseConfig settings of the database connection
type DatabaseConfig struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-required:"true"`
	Password string `yaml:"-" env:"DB_PASSWORD" env-required:"true"`
	Name     string `yaml:"name" env-required:"true"`
}

// JWTConfig jwt settings
type JWTConfig struct {
	Secret   string `yaml:"-" env:"JWT_SECRET" env-required:"true"`
	TokenTTL int    `yaml:"token_ttl" env-default:"60"` // minutes
}

// PaymentConfig settings for the hosted checkout provider.
// SuccessURL keeps the provider's session placeholder verbatim so the
// confirmation page can resolve the session that redirected to it.
type PaymentConfig struct {
	BaseURL    string        `yaml:"base_url" env-default:"https://api.stripe.com"`
	APIKey     string        `yaml:"-" env:"PAYMENT_API_KEY"`
	SuccessURL string        `yaml:"success_url" env-default:"http://localhost:5173/order-confirmed?session_id={CHECKOUT_SESSION_ID}"`
	CancelURL  string        `yaml:"cancel_url" env-default:"http://localhost:5173/checkout"`
	Timeout    time.Duration `yaml:"timeout" env-default:"10s"`
}

// MailConfig settings for the transactional mail provider
type MailConfig struct {
	BaseURL string        `yaml:"base_url" env-default:"https://api.resend.com"`
	APIKey  string        `yaml:"-" env:"MAIL_API_KEY"`
	From    string        `yaml:"from" env-default:"Vendrix <onboarding@resend.dev>"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

type MigrationsConfig struct {
	Path string `yaml:"path" env-default:"./migrations"`
}

// MustLoad - panics when the config cannot be loaded
func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		log.Fatal("CONFIG_PATH not exists")
	}
	return MustLoadByPath(configPath)
}

func fetchConfigPath() string {
	var path string

	flag.StringVar(&path, "config", "", "path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("can't read config file %s", configPath)
	}

	return &cfg
}
