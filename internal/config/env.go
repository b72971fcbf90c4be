package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr     string
	GinMode     string
	StoreDriver string // "memory" or "mysql"
	DBDSN       string

	KafkaBrokers string
	KafkaTopic   string

	JWTSecret string
	SeedDemo  bool

	CORSAllowedOrigins []string
}

func LoadEnv() Env {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	driver := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_DRIVER")))
	if driver != "mysql" {
		driver = "memory"
	}

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		dsn = "root:@tcp(127.0.0.1:3306)/broride?parseTime=true&loc=UTC&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"
	}

	topic := strings.TrimSpace(os.Getenv("KAFKA_TOPIC"))
	if topic == "" {
		topic = "broride.events"
	}

	origins := []string{}
	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}

	return Env{
		AppAddr:            appAddr,
		GinMode:            strings.TrimSpace(os.Getenv("GIN_MODE")),
		StoreDriver:        driver,
		DBDSN:              dsn,
		KafkaBrokers:       strings.TrimSpace(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:         topic,
		JWTSecret:          strings.TrimSpace(os.Getenv("IDENTITY_JWT_SECRET")),
		SeedDemo:           os.Getenv("SEED_DEMO") == "1",
		CORSAllowedOrigins: origins,
	}
}
