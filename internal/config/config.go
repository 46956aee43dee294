package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	StoreBackend string
	CORSOrigins  []string

	MongoURI      string
	MongoDatabase string

	ScyllaHosts      []string
	ScyllaKeyspace   string
	ScyllaUsername   string
	ScyllaPassword   string
	ScyllaCACertPath string

	RedisHost     string
	RedisPassword string
	RedisDB       int

	ElasticURL      string
	ElasticUser     string
	ElasticPassword string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string

	AMQPURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	JWTSecret         string
	AdminAPIKey       string
	ReconcileInterval time.Duration
}

// Load reads .env when present, then the process environment.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	} else {
		log.Println("✅ .env file loaded")
	}

	return &Config{
		Port:         getEnv("PORT", "8080"),
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", "mongo")),
		CORSOrigins:  getEnvAsList("CORS_ORIGINS", []string{"*"}),

		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "petshop"),

		ScyllaHosts:      getEnvAsList("SCYLLA_HOSTS", []string{"localhost"}),
		ScyllaKeyspace:   getEnv("SCYLLA_KEYSPACE", "petshop"),
		ScyllaUsername:   getEnv("SCYLLA_USERNAME", ""),
		ScyllaPassword:   getEnv("SCYLLA_PASSWORD", ""),
		ScyllaCACertPath: getEnv("SCYLLA_SSL_CA_PATH", ""),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		ElasticURL:      getEnv("ELASTIC_URL", ""),
		ElasticUser:     getEnv("ELASTIC_USER", ""),
		ElasticPassword: getEnv("ELASTIC_PASSWORD", ""),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "petshop-images"),
		MinioUseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
		MinioPublicURL: getEnv("MINIO_PUBLIC_URL", ""),

		AMQPURL: getEnv("AMQP_URL", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", "noreply@petshop.local"),

		JWTSecret:         getEnv("JWT_SECRET", "super_secret"),
		AdminAPIKey:       getEnv("ADMIN_API_KEY", ""),
		ReconcileInterval: getEnvAsDuration("RECONCILE_INTERVAL", 10*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Printf("⚠️ %s=%q is not an integer, using %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("⚠️ %s=%q is not a duration, using %s", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
