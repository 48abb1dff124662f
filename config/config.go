package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Storage: "memory" or "mongo".
	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	DatabaseName  string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Allocation locks: "local" or "redis".
	LockDriver      string        `mapstructure:"LOCK_DRIVER"`
	LockTTL         time.Duration `mapstructure:"LOCK_TTL"`
	LockWaitTimeout time.Duration `mapstructure:"LOCK_WAIT_TIMEOUT"`

	MaxConfirmedPerVendor int `mapstructure:"MAX_CONFIRMED_PER_VENDOR"`

	// Secrets.
	JWTSecret            string        `mapstructure:"JWT_SECRET"`
	TokenTTL             time.Duration `mapstructure:"TOKEN_TTL"`
	CredentialSecret     string        `mapstructure:"CREDENTIAL_SECRET"`
	StaffRegistrationKey string        `mapstructure:"STAFF_REGISTRATION_KEY"`
	SeedAdminPassword    string        `mapstructure:"SEED_ADMIN_PASSWORD"`

	// Notifications: NOTIFY_DRIVER is "log" or "fcm", DISPATCH_MODE is "direct" or "queue".
	NotifyDriver            string        `mapstructure:"NOTIFY_DRIVER"`
	DispatchMode            string        `mapstructure:"DISPATCH_MODE"`
	DispatchInterval        time.Duration `mapstructure:"DISPATCH_INTERVAL"`
	FirebaseCredentialsFile string        `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
}

var AppConfig Config

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("STORAGE_DRIVER", "memory")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "bookfair")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_LOCK_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("LOCK_DRIVER", "local")
	v.SetDefault("LOCK_TTL", "10s")
	v.SetDefault("LOCK_WAIT_TIMEOUT", "5s")
	v.SetDefault("MAX_CONFIRMED_PER_VENDOR", 3)
	v.SetDefault("JWT_SECRET", "bookfair-dev-jwt")
	v.SetDefault("CREDENTIAL_SECRET", "bookfair-dev-credential")
	v.SetDefault("STAFF_REGISTRATION_KEY", "")
	v.SetDefault("SEED_ADMIN_PASSWORD", "admin123")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("NOTIFY_DRIVER", "log")
	v.SetDefault("DISPATCH_MODE", "direct")
	v.SetDefault("DISPATCH_INTERVAL", "5s")
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
}

// Load reads config.yaml from the given directories, overlays environment
// variables and returns the result.
func Load(paths ...string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	// Automatically use environment variables where available.
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig fills AppConfig from "." and "./config".
func LoadConfig() {
	cfg, err := Load(".", "./config")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
