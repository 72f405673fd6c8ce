package config

import (
	"foodorder_server/structs"
	"strings"
	"sync"
	"time"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = &structs.Config{
			Server: &structs.ServerConfig{
				AppName:        getEnvAsString("APP_NAME", "FoodOrder_no_env"),
				Environment:    getEnvAsString("APP_ENV", "development"),
				Port:           getEnvAsString("APP_PORT", ":8082"),
				ReadTimeout:    getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
				WriteTimeout:   getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 15*time.Second),
				IdleTimeout:    getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
				MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			},
			Cors: &structs.CorsConfig{
				AllowedOrigins:   getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
				AllowedMethods:   getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
				AllowedHeaders:   getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
				AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
				ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length", "X-RateLimit-Remaining"}),
				MaxAge:           getEnvAsInt("CORS_MAX_AGE", 300),
			},
			Database: &structs.DatabaseConfig{
				Driver:       getEnvAsString("DB_DRIVER", "pgdriver"),
				Host:         getEnvAsString("DB_HOST", "localhost"),
				Port:         getEnvAsInt("DB_PORT", 5432),
				User:         getEnvAsString("DB_USER", "postgres"),
				Password:     getEnvAsString("DB_PASSWORD", "password"),
				Name:         getEnvAsString("DB_NAME", "food_ordering"),
				SSLMode:      getEnvAsString("DB_SSL_MODE", "disable"),
				MaxConns:     getEnvAsInt("DB_MAX_CONNS", 10),
				MinConns:     getEnvAsInt("DB_MIN_CONNS", 2),
				MaxLifetime:  getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
				MaxIdleTime:  getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
				ReadTimeout:  getEnvAsTimeDuration("DB_READ_TIMEOUT", 5*time.Second),
				WriteTimeout: getEnvAsTimeDuration("DB_WRITE_TIMEOUT", 5*time.Second),
				AutoMigrate:  getEnvAsBool("DB_AUTO_MIGRATE", false),
			},
			Cache: &structs.CacheConfig{
				Address:         getEnvAsString("REDIS_ADDRESS", "localhost:6379"),
				Username:        getEnvAsString("REDIS_USERNAME", ""),
				Password:        getEnvAsString("REDIS_PASSWORD", ""),
				DB:              getEnvAsInt("REDIS_DB", 0),
				PoolSize:        getEnvAsInt("REDIS_POOL_SIZE", 10),
				MinIdleConns:    getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
				MaxIdleConns:    getEnvAsInt("REDIS_MAX_IDLE_CONNS", 5),
				PoolTimeout:     getEnvAsTimeDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
				IdleTimeout:     getEnvAsTimeDuration("REDIS_IDLE_TIMEOUT", 5*time.Minute),
				DialTimeout:     getEnvAsTimeDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
				ReadTimeout:     getEnvAsTimeDuration("REDIS_READ_TIMEOUT", 3*time.Second),
				WriteTimeout:    getEnvAsTimeDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
				MaxRetries:      getEnvAsInt("REDIS_MAX_RETRIES", 3),
				MinRetryBackoff: getEnvAsTimeDuration("REDIS_MIN_RETRY_BACKOFF", 8*time.Millisecond),
				MaxRetryBackoff: getEnvAsTimeDuration("REDIS_MAX_RETRY_BACKOFF", 512*time.Millisecond),
				CatalogTTL:      getEnvAsTimeDuration("CATALOG_CACHE_TTL", 0),
			},
			Auth: &structs.AuthConfig{
				AccessTokenSecret:        getEnvAsString("AUTH_ACCESS_TOKEN_SECRET", "default_access_secret"),
				AccessTokenExpiry:        getEnvAsTimeDuration("AUTH_ACCESS_TOKEN_EXPIRY", 24*time.Hour),
				MessagingDefaultPassword: getEnvAsString("AUTH_MESSAGING_DEFAULT_PASSWORD", "whatsapp123"),
			},
			RateLimit: &structs.RateLimitConfig{
				Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", true),
				GeneralLimit:  getEnvAsInt("RATE_LIMIT_GENERAL", 120),
				GeneralWindow: getEnvAsTimeDuration("RATE_LIMIT_GENERAL_WINDOW", time.Minute),
				WebhookLimit:  getEnvAsInt("RATE_LIMIT_WEBHOOK", 600),
				WebhookWindow: getEnvAsTimeDuration("RATE_LIMIT_WEBHOOK_WINDOW", time.Minute),
				AuthLimit:     getEnvAsInt("RATE_LIMIT_AUTH", 10),
				AuthWindow:    getEnvAsTimeDuration("RATE_LIMIT_AUTH_WINDOW", time.Minute),
			},
			Messaging: &structs.MessagingConfig{
				AccountSid:   getEnvAsString("TWILIO_ACCOUNT_SID", ""),
				AuthToken:    getEnvAsString("TWILIO_AUTH_TOKEN", ""),
				FromNumber:   getEnvAsString("TWILIO_WHATSAPP_NUMBER", "whatsapp:+14155238886"),
				APIBaseURL:   getEnvAsString("TWILIO_API_BASE_URL", "https://api.twilio.com"),
				CountryCode:  getEnvAsDigits("MESSAGING_COUNTRY_CODE", "91"),
				SendTimeout:  getEnvAsTimeDuration("MESSAGING_SEND_TIMEOUT", 10*time.Second),
				UPIPaymentID: getEnvAsString("UPI_PAYMENT_ID", "7032107890-2@ibl"),
			},
			Session: &structs.SessionConfig{
				Backend:   getEnvAsString("SESSION_BACKEND", "memory"),
				TTL:       getEnvAsTimeDuration("SESSION_TTL", 0),
				KeyPrefix: getEnvAsString("SESSION_KEY_PREFIX", "foodorder:"),
			},
			Notifications: &structs.NotificationConfig{
				Async: getEnvAsBool("NOTIFY_ASYNC", true),
			},
			Email: &structs.EmailConfig{
				ApiKey: getEnvAsString("RESEND_API_KEY", ""),
				From:   getEnvAsString("EMAIL_FROM", "orders@foodorder.local"),
			},
		}
	})
	return configInstance
}

// GetLogLevel honours LOG_LEVEL, then defaults to info in production and
// debug elsewhere.
func GetLogLevel() string {
	if level, ok := lookupEnv("LOG_LEVEL"); ok {
		return strings.ToLower(level)
	}
	if GetConfig().Server.Environment == "production" {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}
