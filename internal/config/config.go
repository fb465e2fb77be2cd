package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port        int    `yaml:"port"`
	GinMode     string `yaml:"gin_mode"`
	FrontendURL string `yaml:"frontend_url"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret        string `yaml:"secret"`
	RefreshSecret string `yaml:"refresh_secret"`
	Issuer        string `yaml:"issuer"`
	AccessTTL     string `yaml:"access_ttl"`
	RefreshTTL    string `yaml:"refresh_ttl"`
}

type OTPConfig struct {
	Length int    `yaml:"length"`
	TTL    string `yaml:"ttl"`
}

type TokensConfig struct {
	VerificationTTL string `yaml:"verification_ttl"`
	ResetTTL        string `yaml:"reset_ttl"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	From     string `yaml:"from"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	OTP      OTPConfig      `yaml:"otp"`
	Tokens   TokensConfig   `yaml:"tokens"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	Casbin   CasbinConfig   `yaml:"casbin"`
}

type Config struct {
	Port             string
	GinMode          string
	FrontendURL      string
	DSN              string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	JWTSecret        string
	JWTRefreshSecret string
	JWTIssuer        string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	OTPLength        int
	OTPTTL           time.Duration
	VerificationTTL  time.Duration
	ResetTTL         time.Duration
	SMTPHost         string
	SMTPPort         int
	SMTPFrom         string
	SMTPUsername     string
	SMTPPassword     string
	TwilioSID        string
	TwilioToken      string
	TwilioFrom       string
	CasbinModelPath  string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads config/config.yml and applies environment overrides for
// secrets so deployments never have to commit credentials.
func Load() (*Config, error) {
	return LoadFrom(env("GUARDIANAUTH_CONFIG", "config/config.yml"))
}

// LoadFrom reads the config file at path.
func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := time.ParseDuration(configFile.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}

	refTTL, err := time.ParseDuration(configFile.JWT.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT refresh TTL: %w", err)
	}

	otpTTL, err := time.ParseDuration(configFile.OTP.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}

	verTTL, err := time.ParseDuration(configFile.Tokens.VerificationTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid verification token TTL: %w", err)
	}

	resTTL, err := time.ParseDuration(configFile.Tokens.ResetTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid reset token TTL: %w", err)
	}

	return &Config{
		Port:             fmt.Sprintf("%d", configFile.App.Port),
		GinMode:          configFile.App.GinMode,
		FrontendURL:      configFile.App.FrontendURL,
		DSN:              env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:        env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:    env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:          configFile.Redis.DB,
		JWTSecret:        env("JWT_SECRET", configFile.JWT.Secret),
		JWTRefreshSecret: env("JWT_REFRESH_SECRET", configFile.JWT.RefreshSecret),
		JWTIssuer:        configFile.JWT.Issuer,
		AccessTTL:        accTTL,
		RefreshTTL:       refTTL,
		OTPLength:        configFile.OTP.Length,
		OTPTTL:           otpTTL,
		VerificationTTL:  verTTL,
		ResetTTL:         resTTL,
		SMTPHost:         env("SMTP_HOST", configFile.SMTP.Host),
		SMTPPort:         configFile.SMTP.Port,
		SMTPFrom:         configFile.SMTP.From,
		SMTPUsername:     env("SMTP_USERNAME", configFile.SMTP.Username),
		SMTPPassword:     env("SMTP_PASSWORD", configFile.SMTP.Password),
		TwilioSID:        env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken:      env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:       configFile.Twilio.FromNumber,
		CasbinModelPath:  configFile.Casbin.ModelPath,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
