package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	OTP      OTPConfig
	MSG91    MSG91Config
	Identity IdentityConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type OTPConfig struct {
	ExpiryMinutes int
	Length        int
}

type MSG91Config struct {
	BaseURL        string
	AuthKey        string
	TemplateID     string
	TimeoutSeconds int
}

type IdentityConfig struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("OTP_EXPIRY_MINUTES", 10)
	viper.SetDefault("OTP_LENGTH", 6)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("MSG91_BASE_URL", "https://api.msg91.com/api/v5/otp")
	viper.SetDefault("MSG91_TIMEOUT_SECONDS", 10)
	viper.SetDefault("IDENTITY_TIMEOUT_SECONDS", 10)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: viper.GetInt("OTP_EXPIRY_MINUTES"),
			Length:        viper.GetInt("OTP_LENGTH"),
		},
		MSG91: MSG91Config{
			BaseURL:        viper.GetString("MSG91_BASE_URL"),
			AuthKey:        viper.GetString("MSG91_AUTH_KEY"),
			TemplateID:     viper.GetString("MSG91_TEMPLATE_ID"),
			TimeoutSeconds: viper.GetInt("MSG91_TIMEOUT_SECONDS"),
		},
		Identity: IdentityConfig{
			BaseURL:        viper.GetString("IDENTITY_BASE_URL"),
			APIKey:         viper.GetString("IDENTITY_API_KEY"),
			TimeoutSeconds: viper.GetInt("IDENTITY_TIMEOUT_SECONDS"),
		},
	}

	return config, nil
}
