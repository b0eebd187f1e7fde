package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is built once in main and passed to every component that needs it.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Telegram TelegramConfig
	AMQP     AMQPConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Addr             string
	GinMode          string
	LogLevel         string
	LogFormat        string
	PublicAPIURL     string
	CORSOrigins      []string
	StaticDir        string
	Timezone         string
	NotifyTimeout    time.Duration
	CallbackThrottle time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	AutoMigrate     bool
}

type SMTPConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	From      string
	Recipient string
}

// Enabled reports whether enough is configured to send mail.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

type TelegramConfig struct {
	BotToken string
	ChatID   int64
}

func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.ChatID != 0
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_addr", ":8080")
	v.SetDefault("gin_mode", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("public_api_url", "http://localhost:8080/api")
	v.SetDefault("cors_allowed_origins", "http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000")
	v.SetDefault("static_dir", "")
	v.SetDefault("app_timezone", "Africa/Johannesburg")
	v.SetDefault("notify_timeout", 30*time.Second)
	v.SetDefault("callback_throttle", 10*time.Minute)

	v.SetDefault("database_dsn", "root:@tcp(127.0.0.1:3306)/transport_connect")
	v.SetDefault("db_max_open_conns", 25)
	v.SetDefault("db_max_idle_conns", 25)
	v.SetDefault("db_conn_max_lifetime", 10*time.Minute)
	v.SetDefault("db_conn_max_idle_time", 5*time.Minute)
	v.SetDefault("db_auto_migrate", true)

	v.SetDefault("smtp_host", "")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("smtp_user", "")
	v.SetDefault("smtp_password", "")
	v.SetDefault("smtp_from", "")
	v.SetDefault("recipient_email", "")

	v.SetDefault("telegram_bot_token", "")
	v.SetDefault("telegram_chat_id", 0)

	v.SetDefault("amqp_url", "")
	v.SetDefault("amqp_exchange", "booking_events")

	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
}

// Load reads defaults, an optional config.yaml (./ or ./config) and the
// environment. Environment variables win, e.g. SMTP_HOST overrides smtp_host.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	v.AutomaticEnv()
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) Config {
	smtpUser := strings.TrimSpace(v.GetString("smtp_user"))
	from := strings.TrimSpace(v.GetString("smtp_from"))
	if from == "" {
		from = smtpUser
	}

	return Config{
		App: AppConfig{
			Addr:             strings.TrimSpace(v.GetString("app_addr")),
			GinMode:          strings.TrimSpace(v.GetString("gin_mode")),
			LogLevel:         v.GetString("log_level"),
			LogFormat:        v.GetString("log_format"),
			PublicAPIURL:     strings.TrimRight(strings.TrimSpace(v.GetString("public_api_url")), "/"),
			CORSOrigins:      splitList(v.GetString("cors_allowed_origins")),
			StaticDir:        strings.TrimSpace(v.GetString("static_dir")),
			Timezone:         v.GetString("app_timezone"),
			NotifyTimeout:    v.GetDuration("notify_timeout"),
			CallbackThrottle: v.GetDuration("callback_throttle"),
		},
		Database: DatabaseConfig{
			DSN:             strings.TrimSpace(v.GetString("database_dsn")),
			MaxOpenConns:    v.GetInt("db_max_open_conns"),
			MaxIdleConns:    v.GetInt("db_max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("db_conn_max_lifetime"),
			ConnMaxIdleTime: v.GetDuration("db_conn_max_idle_time"),
			AutoMigrate:     v.GetBool("db_auto_migrate"),
		},
		SMTP: SMTPConfig{
			Host:      strings.TrimSpace(v.GetString("smtp_host")),
			Port:      v.GetInt("smtp_port"),
			User:      smtpUser,
			Password:  v.GetString("smtp_password"),
			From:      from,
			Recipient: strings.TrimSpace(v.GetString("recipient_email")),
		},
		Telegram: TelegramConfig{
			BotToken: strings.TrimSpace(v.GetString("telegram_bot_token")),
			ChatID:   v.GetInt64("telegram_chat_id"),
		},
		AMQP: AMQPConfig{
			URL:      strings.TrimSpace(v.GetString("amqp_url")),
			Exchange: strings.TrimSpace(v.GetString("amqp_exchange")),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(v.GetString("redis_addr")),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
	}
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
