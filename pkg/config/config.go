package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Mail         MailConfig
	Reminder     ReminderConfig
	Media        MediaConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env      string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port     string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	BaseURL  string `envconfig:"STOREFRONT_BASE_URL" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CartURL is the storefront page a reminder email links back to.
func (a AppConfig) CartURL() string {
	return strings.TrimRight(a.BaseURL, "/") + "/cart"
}

type DBConfig struct {
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"STOREFRONT_DB_HOST"`
	Port     int    `envconfig:"STOREFRONT_DB_PORT" default:"5432"`
	User     string `envconfig:"STOREFRONT_DB_USER"`
	Password string `envconfig:"STOREFRONT_DB_PASSWORD"`
	Name     string `envconfig:"STOREFRONT_DB_NAME"`
	SSLMode  string `envconfig:"STOREFRONT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"STOREFRONT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"STOREFRONT_JWT_ISSUER" default:"storefront"`
	ExpirationMinutes int    `envconfig:"STOREFRONT_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	BcryptCost int `envconfig:"STOREFRONT_BCRYPT_COST" default:"10"`
}

type MailConfig struct {
	Host      string `envconfig:"STOREFRONT_EMAIL_SERVER_HOST"`
	Port      int    `envconfig:"STOREFRONT_EMAIL_SERVER_PORT" default:"587"`
	User      string `envconfig:"STOREFRONT_EMAIL_SERVER_USER"`
	Password  string `envconfig:"STOREFRONT_EMAIL_SERVER_PASSWORD"`
	From      string `envconfig:"STOREFRONT_EMAIL_FROM"`
	ContactTo string `envconfig:"STOREFRONT_CONTACT_EMAIL"`
}

type ReminderConfig struct {
	Threshold    time.Duration `envconfig:"STOREFRONT_REMINDER_THRESHOLD" default:"60s"`
	PollInterval time.Duration `envconfig:"STOREFRONT_REMINDER_POLL_INTERVAL" default:"10s"`

	// Session is the key prefix of the cart session the watcher binary observes.
	Session string `envconfig:"STOREFRONT_REMINDER_SESSION" default:"default"`
	// APIURL is the base URL reminders are POSTed to.
	APIURL      string `envconfig:"STOREFRONT_REMINDER_API_URL" default:"http://localhost:8080"`
	MetricsPort string `envconfig:"STOREFRONT_REMINDER_METRICS_PORT" default:"9091"`

	// RecipientEmail pins the reminder recipient, overriding the session identity.
	RecipientEmail string `envconfig:"STOREFRONT_REMINDER_RECIPIENT_EMAIL"`
	RecipientName  string `envconfig:"STOREFRONT_REMINDER_RECIPIENT_NAME"`
}

type MediaConfig struct {
	CloudinaryURL string `envconfig:"STOREFRONT_CLOUDINARY_URL"`
	UploadFolder  string `envconfig:"STOREFRONT_CLOUDINARY_FOLDER" default:"ecommerce"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool     `envconfig:"STOREFRONT_USE_SQLITE" default:"false"`
	AutoMigrate bool     `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
	AdminEmails []string `envconfig:"STOREFRONT_ADMIN_EMAILS"`
}

// IsAdminEmail reports whether the address belongs to the configured admin list.
func (f FeatureFlagsConfig) IsAdminEmail(email string) bool {
	for _, admin := range f.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(admin), strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, "sqlite") {
		db.DSN = "file:storefront.db?cache=shared"
		return nil
	}

	missing := []string{}
	for _, pair := range []struct{ env, val string }{
		{"STOREFRONT_DB_HOST", db.Host},
		{"STOREFRONT_DB_USER", db.User},
		{"STOREFRONT_DB_NAME", db.Name},
	} {
		if pair.val == "" {
			missing = append(missing, pair.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either STOREFRONT_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
