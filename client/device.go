// Package client implementa el lado pager: identidad del dispositivo,
// registro de token push y suscripción a canchas contra el backend.
package client

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Storage persiste el identificador del dispositivo entre ejecuciones
type Storage interface {
	Load() (string, error)
	Save(id string) error
}

// FileStorage guarda el identificador en el directorio de configuración
// del usuario
type FileStorage struct {
	path string
}

// NewFileStorage crea el almacenamiento en <config del usuario>/ajupam-pager
func NewFileStorage() (*FileStorage, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("no se pudo resolver el directorio de configuración: %w", err)
	}
	return &FileStorage{path: filepath.Join(dir, "ajupam-pager", "device_id")}, nil
}

func (s *FileStorage) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileStorage) Save(id string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(id), 0o644)
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// newDeviceID genera un identificador único: device-<ms>-<9 chars base36>
func newDeviceID() string {
	suffix := make([]byte, 9)
	random := make([]byte, 9)
	if _, err := rand.Read(random); err != nil {
		// Sin entropía del sistema, el timestamp solo ya distingue razonablemente
		for i := range random {
			random[i] = byte(time.Now().UnixNano() >> (i * 7))
		}
	}
	for i, b := range random {
		suffix[i] = base36[int(b)%len(base36)]
	}
	return "device-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + string(suffix)
}

// DeviceID devuelve el identificador estable del dispositivo, creándolo la
// primera vez. Si el almacenamiento no funciona, degrada a un identificador
// fresco por llamada: el pager sigue operando, solo que sin identidad
// persistente.
func DeviceID(storage Storage) string {
	id, err := storage.Load()
	if err == nil && id != "" {
		return id
	}

	id = newDeviceID()
	// Si Save falla el identificador no persiste y la próxima llamada va a
	// generar otro, pero la operación en curso sigue andando
	_ = storage.Save(id)
	return id
}
