package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	MailProviderSMTP   = "smtp"
	MailProviderResend = "resend"
	MailProviderLog    = "log"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Driver string
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type RedisConfig struct {
	Enabled         bool
	Addr            string
	Password        string
	DB              int
	SessionCacheTTL time.Duration
	EnrichStream    string
}

type StorageConfig struct {
	Enabled       bool
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	Region        string
	PublicBaseURL string
	MaxUploadSize int64
}

type SecurityConfig struct {
	SessionTTL      time.Duration
	VerificationTTL time.Duration
	BcryptCost      int
	InviteSecret    string
	InviteTTL       time.Duration
}

type SMTPConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	ConnectTimeout  time.Duration
	GreetingTimeout time.Duration
	SocketTimeout   time.Duration
}

type ResendConfig struct {
	APIKey string
}

type MailConfig struct {
	Provider          string
	From              string
	AppBaseURL        string
	FailSignupOnError bool
	SMTP              SMTPConfig
	Resend            ResendConfig
}

type JobsConfig struct {
	SessionSweep string
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

type AppConfig struct {
	Environment      string
	LogLevel         string
	HTTP             HTTPConfig
	Database         DatabaseConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	Mail             MailConfig
	Jobs             JobsConfig
	OTel             OTelConfig
	AllowCORSOrigins []string
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func Load() (*AppConfig, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("LINKDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("database.driver: unknown driver %q", c.Database.Driver))
	}

	switch c.Mail.Provider {
	case MailProviderSMTP:
		if c.Mail.SMTP.Host == "" {
			errs = append(errs, errors.New("mail.smtp.host is required for the smtp provider"))
		}
	case MailProviderResend:
		if c.Mail.Resend.APIKey == "" {
			errs = append(errs, errors.New("mail.resend.apikey is required for the resend provider"))
		}
	case MailProviderLog:
		if c.IsProduction() {
			errs = append(errs, errors.New("mail.provider log cannot be used in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("mail.provider: unknown provider %q", c.Mail.Provider))
	}

	if c.Security.SessionTTL <= 0 {
		errs = append(errs, errors.New("security.sessionttl must be positive"))
	}
	if c.Security.VerificationTTL <= 0 {
		errs = append(errs, errors.New("security.verificationttl must be positive"))
	}
	if c.IsProduction() && c.Security.InviteSecret == "" {
		errs = append(errs, errors.New("security.invitesecret is required in production"))
	}

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("loglevel", "")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("database.driver", DriverPostgres)

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")
	v.SetDefault("postgres.automigrate", true)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.sessioncachettl", "5m")
	v.SetDefault("redis.enrichstream", "urls:enrich")

	v.SetDefault("storage.enabled", true)
	v.SetDefault("storage.endpoint", "127.0.0.1:9000")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.bucket", "linkdeck-assets")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.publicbaseurl", "")
	v.SetDefault("storage.maxuploadsize", 5<<20)

	v.SetDefault("security.sessionttl", "168h") // 7 days
	v.SetDefault("security.verificationttl", "24h")
	v.SetDefault("security.bcryptcost", 12)
	v.SetDefault("security.invitesecret", "")
	v.SetDefault("security.invitettl", "168h")

	v.SetDefault("mail.provider", MailProviderLog)
	v.SetDefault("mail.from", "Linkdeck <no-reply@linkdeck.local>")
	v.SetDefault("mail.appbaseurl", "http://localhost:3000")
	v.SetDefault("mail.failsignuponerror", true)
	v.SetDefault("mail.smtp.host", "")
	v.SetDefault("mail.smtp.port", 587)
	v.SetDefault("mail.smtp.username", "")
	v.SetDefault("mail.smtp.password", "")
	v.SetDefault("mail.smtp.connecttimeout", "10s")
	v.SetDefault("mail.smtp.greetingtimeout", "10s")
	v.SetDefault("mail.smtp.sockettimeout", "30s")
	v.SetDefault("mail.resend.apikey", "")

	v.SetDefault("jobs.sessionsweep", "")

	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.headers", "")
	v.SetDefault("otel.servicename", "linkdeck-api")
	v.SetDefault("otel.serviceversion", "dev")

	v.SetDefault("allowcorsorigins", []string{"http://localhost:3000"})
}
