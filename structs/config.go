package structs

import "time"

type Config struct {
	Server        *ServerConfig
	Cors          *CorsConfig
	Database      *DatabaseConfig
	Cache         *CacheConfig
	Auth          *AuthConfig
	RateLimit     *RateLimitConfig
	Messaging     *MessagingConfig
	Session       *SessionConfig
	Notifications *NotificationConfig
	Email         *EmailConfig
}

type ServerConfig struct {
	AppName        string        // FoodOrder
	Environment    string        // development, production
	Port           string        // :8082
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int // in bytes
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int // in seconds
}

type DatabaseConfig struct {
	Driver       string // pgdriver, pgx
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration
	MaxIdleTime  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AutoMigrate  bool
}

type CacheConfig struct {
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	// Restaurant and menu listings are served from redis for this long; 0 disables
	CatalogTTL time.Duration
}

type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	// Accounts created over the messaging channel have no password hash and
	// log in to the dashboard with this password.
	MessagingDefaultPassword string
}

type RateLimitConfig struct {
	Enabled       bool
	GeneralLimit  int
	GeneralWindow time.Duration
	WebhookLimit  int
	WebhookWindow time.Duration
	AuthLimit     int
	AuthWindow    time.Duration
}

type MessagingConfig struct {
	AccountSid   string
	AuthToken    string
	FromNumber   string // whatsapp:+14155238886
	APIBaseURL   string
	CountryCode  string // prepended to 10 digit numbers on the wire
	SendTimeout  time.Duration
	UPIPaymentID string
}

// Simulated reports whether outbound messages are only logged.
func (mc *MessagingConfig) Simulated() bool {
	return mc.AccountSid == "" || mc.AuthToken == ""
}

type SessionConfig struct {
	Backend   string        // memory, redis
	TTL       time.Duration // 0 keeps sessions forever
	KeyPrefix string
}

type NotificationConfig struct {
	Async bool
}

type EmailConfig struct {
	ApiKey string
	From   string
}
