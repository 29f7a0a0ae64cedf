package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppCfg struct {
	Env          string        `mapstructure:"env"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	FrontendURL  string        `mapstructure:"frontend_url"`
}

type MongoCfg struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisCfg struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTCfg struct {
	Secret                  string `mapstructure:"secret"`
	VerificationTTLMinutes  int    `mapstructure:"verification_ttl_minutes"`
	ResetPasswordTTLMinutes int    `mapstructure:"reset_password_ttl_minutes"`
	SessionTTLDays          int    `mapstructure:"session_ttl_days"`
}

type MailCfg struct {
	APIKey    string `mapstructure:"api_key"`
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`

	DispatchTimeoutSeconds int `mapstructure:"dispatch_timeout_seconds"`
}

type SecurityCfg struct {
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute"`
}

type Config struct {
	App      AppCfg      `mapstructure:"app"`
	Mongo    MongoCfg    `mapstructure:"mongo"`
	Redis    RedisCfg    `mapstructure:"redis"`
	JWT      JWTCfg      `mapstructure:"jwt"`
	Mail     MailCfg     `mapstructure:"mail"`
	Security SecurityCfg `mapstructure:"security"`

	// derived
	VerificationTTL  time.Duration
	ResetPasswordTTL time.Duration
	SessionTTL       time.Duration
	DispatchTimeout  time.Duration
}

// Load reads config.yaml and applies environment overrides. A .env file is
// loaded first if present so local development matches deployed environments.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 5000)
	v.SetDefault("app.read_timeout", 10*time.Second)
	v.SetDefault("app.write_timeout", 10*time.Second)
	v.SetDefault("app.idle_timeout", 60*time.Second)
	v.SetDefault("jwt.verification_ttl_minutes", 60)
	v.SetDefault("jwt.reset_password_ttl_minutes", 15)
	v.SetDefault("jwt.session_ttl_days", 7)
	v.SetDefault("mail.dispatch_timeout_seconds", 10)
	v.SetDefault("security.rate_limit_per_minute", 10)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	override := func(env string, apply func(string)) {
		if s := v.GetString(env); s != "" {
			apply(s)
		}
	}
	override("JWT_SECRET", func(s string) { cfg.JWT.Secret = s })
	override("MONGO_URI", func(s string) { cfg.Mongo.URI = s })
	override("MONGO_DB", func(s string) { cfg.Mongo.Database = s })
	override("REDIS_ADDR", func(s string) { cfg.Redis.Addr = s })
	override("REDIS_PASSWORD", func(s string) { cfg.Redis.Password = s })
	override("FRONTEND_URL", func(s string) { cfg.App.FrontendURL = s })
	override("BREVO_API_KEY", func(s string) { cfg.Mail.APIKey = s })
	override("MAIL_FROM_EMAIL", func(s string) { cfg.Mail.FromEmail = s })
	override("MAIL_FROM_NAME", func(s string) { cfg.Mail.FromName = s })

	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required (set in .env or config.yaml)")
	}
	if cfg.Mongo.URI == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	if cfg.App.FrontendURL == "" {
		return nil, errors.New("FRONTEND_URL is required")
	}

	cfg.VerificationTTL = time.Duration(cfg.JWT.VerificationTTLMinutes) * time.Minute
	cfg.ResetPasswordTTL = time.Duration(cfg.JWT.ResetPasswordTTLMinutes) * time.Minute
	cfg.SessionTTL = time.Duration(cfg.JWT.SessionTTLDays) * 24 * time.Hour
	cfg.DispatchTimeout = time.Duration(cfg.Mail.DispatchTimeoutSeconds) * time.Second

	return &cfg, nil
}
