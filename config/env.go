package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	Auth    AuthConfig
	Pricing PricingConfig
	Billing BillingConfig
}

type ServerConfig struct {
	Port string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  int // hours
}

// PricingConfig resolves the knobs the two legacy order flows
// hard-coded with different values.
type PricingConfig struct {
	DefaultTaxRate  decimal.Decimal
	UpdateMinMeters decimal.Decimal
	ClampDiscount   bool
	ClampBalance    bool
}

type BillingConfig struct {
	BillPrefix  string
	OrderPrefix string
	DueDays     int
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	tokenTTL, _ := strconv.Atoi(getEnv("AUTH_TOKEN_TTL_HOURS", "12"))
	dueDays, _ := strconv.Atoi(getEnv("BILLING_DUE_DAYS", "7"))

	return Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "darzi"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", "change-me-in-production"),
			TokenTTL:  tokenTTL,
		},
		Pricing: PricingConfig{
			DefaultTaxRate:  getEnvDecimal("PRICING_DEFAULT_TAX_RATE", "5"),
			UpdateMinMeters: getEnvDecimal("PRICING_UPDATE_MIN_METERS", "2"),
			ClampDiscount:   getEnvBool("PRICING_CLAMP_DISCOUNT", false),
			ClampBalance:    getEnvBool("PRICING_CLAMP_BALANCE", false),
		},
		Billing: BillingConfig{
			BillPrefix:  getEnv("BILLING_BILL_PREFIX", "B"),
			OrderPrefix: getEnv("BILLING_ORDER_PREFIX", "ORD"),
			DueDays:     dueDays,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	raw := getEnv(key, defaultValue)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("invalid decimal for %s: %q, using default %s", key, raw, defaultValue)
		d, _ = decimal.NewFromString(defaultValue)
	}
	return d
}

func getEnvBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return b
}
