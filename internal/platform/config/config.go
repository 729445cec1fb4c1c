// Package config reads process configuration from the environment. A .env
// file in the working directory is loaded first when present; variables
// already set in the environment take precedence over it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"payoutkyc/internal/compliance/models"
	pkgstrings "payoutkyc/pkg/platform/strings"
)

// Store backends for compliance records.
const (
	RecordStoreMemory   = "memory"
	RecordStorePostgres = "postgres"
	RecordStoreRedis    = "redis"
)

// Config is the full process configuration.
type Config struct {
	Server     Server
	Postgres   PostgresConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Compliance ComplianceConfig
	Log        LogConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	JWTSigningKey   string
	JWTIssuer       string
	ShutdownTimeout time.Duration
	// AdminToken guards the operator routes; empty disables them.
	AdminToken string
}

// PostgresConfig configures the database pool. An empty URL disables it.
type PostgresConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Migrate         bool
}

// RedisConfig configures the draft store client. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DraftTTL     time.Duration
}

// KafkaConfig configures the audit stream. No brokers disables it.
type KafkaConfig struct {
	Brokers     []string
	AuditTopic  string
	Partitions  int32
	Replication int16
	EnsureTopic bool
}

// ComplianceConfig holds form-level settings.
type ComplianceConfig struct {
	RecordStore string
	// CatalogPath overrides the embedded option catalog.
	CatalogPath string
	// MinAge is the youngest age an account holder may have.
	MinAge int
	// SealingKey is a base64 secretbox key; empty stores tax IDs unsealed.
	SealingKey string
	// DefaultProfile is used for users without a stored payout profile.
	DefaultProfile models.User
	DefaultPayout  models.PayoutMethod
	AuditBuffer    int
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Format string
	Level  string
}

// MinDOBYear returns the first birth year that is too recent to register.
func (c ComplianceConfig) MinDOBYear(now time.Time) int {
	return now.Year() - c.MinAge + 1
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Server: Server{
			Addr:            getEnv("PAYOUTKYC_ADDR", ":8080"),
			JWTSigningKey:   getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:       getEnv("JWT_ISSUER", "payoutkyc"),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
			AdminToken:      os.Getenv("ADMIN_API_TOKEN"),
		},
		Postgres: PostgresConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
			Migrate:         getBool("DATABASE_MIGRATE", true),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			DraftTTL:     getDuration("REDIS_DRAFT_TTL", 30*24*time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers:     pkgstrings.DedupeAndTrim(strings.Split(os.Getenv("KAFKA_BROKERS"), ",")),
			AuditTopic:  getEnv("KAFKA_AUDIT_TOPIC", "payoutkyc.audit"),
			Partitions:  int32(getInt("KAFKA_AUDIT_PARTITIONS", 3)),
			Replication: int16(getInt("KAFKA_AUDIT_REPLICATION", 1)),
			EnsureTopic: getBool("KAFKA_ENSURE_TOPIC", true),
		},
		Compliance: ComplianceConfig{
			RecordStore: strings.ToLower(getEnv("COMPLIANCE_RECORD_STORE", RecordStoreMemory)),
			CatalogPath: os.Getenv("COMPLIANCE_CATALOG_PATH"),
			MinAge:      getInt("COMPLIANCE_MIN_AGE", 13),
			SealingKey:  os.Getenv("COMPLIANCE_SEALING_KEY"),
			DefaultProfile: models.User{
				CountrySupportsNativePayouts:   getBool("DEFAULT_NATIVE_PAYOUTS", true),
				NeedFullSSN:                    getBool("DEFAULT_NEED_FULL_SSN", false),
				IndividualTaxIDNeededCountries: pkgstrings.SplitCSV(getEnv("DEFAULT_TAX_ID_COUNTRIES", "US,CA,MX,BR,AE,SG,HK")),
			},
			DefaultPayout: models.PayoutMethod(getEnv("DEFAULT_PAYOUT_METHOD", string(models.PayoutMethodBank))),
			AuditBuffer:   getInt("AUDIT_BUFFER", 256),
		},
		Log: LogConfig{
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		},
	}
	return cfg, cfg.Validate()
}

// Validate rejects combinations that cannot start.
func (c Config) Validate() error {
	switch c.Compliance.RecordStore {
	case RecordStoreMemory:
	case RecordStorePostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("COMPLIANCE_RECORD_STORE=postgres requires DATABASE_URL")
		}
	case RecordStoreRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("COMPLIANCE_RECORD_STORE=redis requires REDIS_URL")
		}
	default:
		return fmt.Errorf("unknown COMPLIANCE_RECORD_STORE %q", c.Compliance.RecordStore)
	}
	if c.Compliance.MinAge < 0 || c.Compliance.MinAge > 120 {
		return fmt.Errorf("COMPLIANCE_MIN_AGE out of range: %d", c.Compliance.MinAge)
	}
	if c.Server.JWTSigningKey == "" {
		return fmt.Errorf("JWT_SIGNING_KEY is required")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
