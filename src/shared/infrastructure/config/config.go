package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// AppConfig configuración explícita del proceso, armada una sola vez en el
// arranque e inyectada donde se necesite. El secreto de firma JWT es
// obligatorio y no tiene valor por defecto: sin secreto el proceso no levanta.
type AppConfig struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string

	PrometheusEnabled bool
}

// Load lee .env (si existe) y las variables de entorno, y valida la configuración
func Load() (*AppConfig, error) {
	// .env es opcional; en contenedores la config llega por entorno
	_ = godotenv.Load()

	cfg := &AppConfig{
		Port:              getEnv("PORT", "8080"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "sales_db"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		PrometheusEnabled: os.Getenv("PROMETHEUS_ENABLED") == "true",
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required and has no default")
	}

	return cfg, nil
}

// DSN arma el string de conexión de PostgreSQL
func (c *AppConfig) DSN() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=disable"
}

// getEnv obtiene una variable de entorno o devuelve un valor por defecto
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
