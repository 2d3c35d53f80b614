package config

import (
	"gopkg.in/yaml.v3"
	"os"
)

type TwilioConfig struct {
	AccountSID         string `yaml:"account_sid"`
	AuthToken          string `yaml:"auth_token"`
	FromNumber         string `yaml:"from_number"`
	DefaultCountryCode string `yaml:"default_country_code"`
	DryRun             bool   `yaml:"dry_run"`
}

type TelegramConfig struct {
	BotToken    string `yaml:"bot_token"`
	AdminChatID int64  `yaml:"admin_chat_id"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
		// MaintenanceToken gates operational endpoints (the recovery-code
		// sweep). Empty disables them.
		MaintenanceToken string `yaml:"maintenance_token"`
	} `yaml:"auth"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	Telegram TelegramConfig `yaml:"telegram"`
}

func LoadConfig() *Config {
	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	if cfg.Twilio.DefaultCountryCode == "" {
		cfg.Twilio.DefaultCountryCode = "52"
	}
	return &cfg
}
