package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config contiene todas las configuraciones de la aplicación
type Config struct {
	Port                    string
	Host                    string
	MongoURI                string
	MongoDB                 string
	JWTSecret               string
	Environment             string
	CORSOrigins             []string
	FirebaseCredentialsFile string
	FCMVAPIDKey             string
	FCMBatchSize            int // Límite de tokens por llamada del proveedor push
	MaxCourts               int
	DefaultCourts           int
	VAPIDPublicKey          string
	VAPIDPrivateKey         string
	VAPIDSubject            string
	SlackWebhookURL         string
}

// Load carga la configuración desde las variables de entorno
func Load() (*Config, error) {
	// Cargar el archivo .env si existe
	_ = godotenv.Load()

	config := &Config{
		Port:                    getEnv("PORT", "8090"),
		Host:                    getEnv("HOST", "0.0.0.0"), // 0.0.0.0 para servidor cloud
		MongoURI:                getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:                 getEnv("MONGO_DB", "ajupam_pager_db"),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		Environment:             getEnv("ENVIRONMENT", "development"),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", "firebase-service-account.json"),
		FCMVAPIDKey:             getEnv("FCM_VAPID_KEY", ""),
		FCMBatchSize:            getEnvInt("FCM_BATCH_SIZE", 500),
		MaxCourts:               getEnvInt("MAX_COURTS", 20),
		DefaultCourts:           getEnvInt("DEFAULT_COURTS", 6),
		VAPIDPublicKey:          getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey:         getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubject:            getEnv("VAPID_SUBJECT", "mailto:contacto@ajupam.ar"),
		SlackWebhookURL:         getEnv("SLACK_WEBHOOK_URL", ""),
	}

	// Parsear los orígenes CORS
	origins := getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	originsList := strings.Split(origins, ",")
	config.CORSOrigins = make([]string, 0, len(originsList))
	for _, origin := range originsList {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			config.CORSOrigins = append(config.CORSOrigins, trimmed)
		}
	}

	// Validar las configuraciones críticas
	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET es requerido")
	}
	if config.FCMBatchSize < 1 {
		return nil, fmt.Errorf("FCM_BATCH_SIZE debe ser positivo")
	}
	if config.MaxCourts < 1 {
		return nil, fmt.Errorf("MAX_COURTS debe ser positivo")
	}

	// Las claves VAPID son opcionales (el canal principal es FCM)

	return config, nil
}

// getEnv obtiene una variable de entorno con un valor por defecto
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt obtiene una variable de entorno numérica con un valor por defecto
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
