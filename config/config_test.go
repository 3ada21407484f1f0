package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	// Guardar y restaurar las variables de entorno
	origJWT := os.Getenv("JWT_SECRET")
	origPort := os.Getenv("PORT")
	origBatch := os.Getenv("FCM_BATCH_SIZE")
	defer func() {
		restore := func(key, val string) {
			if val != "" {
				os.Setenv(key, val)
			} else {
				os.Unsetenv(key)
			}
		}
		restore("JWT_SECRET", origJWT)
		restore("PORT", origPort)
		restore("FCM_BATCH_SIZE", origBatch)
	}()

	t.Run("error sin JWT_SECRET", func(t *testing.T) {
		os.Unsetenv("JWT_SECRET")
		_, err := Load()
		if err == nil {
			t.Error("Load() debería fallar sin JWT_SECRET")
		}
		if err != nil && err.Error() != "JWT_SECRET es requerido" {
			t.Errorf("Load() error = %v, esperado 'JWT_SECRET es requerido'", err)
		}
	})

	t.Run("éxito con JWT_SECRET", func(t *testing.T) {
		os.Setenv("JWT_SECRET", "test-secret")
		os.Unsetenv("PORT")
		os.Unsetenv("FCM_BATCH_SIZE")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.JWTSecret != "test-secret" {
			t.Errorf("JWTSecret = %v, esperado test-secret", cfg.JWTSecret)
		}
		if cfg.Port != "8090" {
			t.Errorf("Port = %v, esperado 8090 (defecto)", cfg.Port)
		}
		if cfg.FCMBatchSize != 500 {
			t.Errorf("FCMBatchSize = %v, esperado 500 (defecto)", cfg.FCMBatchSize)
		}
		if cfg.MaxCourts != 20 {
			t.Errorf("MaxCourts = %v, esperado 20 (defecto)", cfg.MaxCourts)
		}
	})

	t.Run("PORT desde env", func(t *testing.T) {
		os.Setenv("JWT_SECRET", "test-secret")
		os.Setenv("PORT", "9999")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Port != "9999" {
			t.Errorf("Port = %v, esperado 9999", cfg.Port)
		}
	})

	t.Run("FCM_BATCH_SIZE inválido usa el defecto", func(t *testing.T) {
		os.Setenv("JWT_SECRET", "test-secret")
		os.Setenv("FCM_BATCH_SIZE", "no-numérico")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.FCMBatchSize != 500 {
			t.Errorf("FCMBatchSize = %v, esperado 500", cfg.FCMBatchSize)
		}
	})

	t.Run("FCM_BATCH_SIZE negativo rechazado", func(t *testing.T) {
		os.Setenv("JWT_SECRET", "test-secret")
		os.Setenv("FCM_BATCH_SIZE", "-1")
		_, err := Load()
		if err == nil {
			t.Error("Load() debería fallar con FCM_BATCH_SIZE negativo")
		}
	})

	t.Run("parseo CORS", func(t *testing.T) {
		os.Setenv("JWT_SECRET", "test-secret")
		os.Unsetenv("FCM_BATCH_SIZE")
		os.Setenv("CORS_ALLOWED_ORIGINS", "http://a.com, http://b.com , c.com")
		defer os.Unsetenv("CORS_ALLOWED_ORIGINS")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(cfg.CORSOrigins) != 3 {
			t.Errorf("CORSOrigins = %v, esperado 3 elementos", cfg.CORSOrigins)
		}
	})
}
