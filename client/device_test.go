package client

import (
	"errors"
	"strings"
	"testing"
)

type memStorage struct {
	id      string
	saveErr error
	loadErr error
}

func (s *memStorage) Load() (string, error) {
	return s.id, s.loadErr
}

func (s *memStorage) Save(id string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.id = id
	return nil
}

func TestDeviceIDEstable(t *testing.T) {
	storage := &memStorage{}

	first := DeviceID(storage)
	second := DeviceID(storage)

	if first == "" {
		t.Fatal("DeviceID() no debe ser vacío")
	}
	if first != second {
		t.Errorf("DeviceID() cambió entre llamadas: %q vs %q", first, second)
	}
}

func TestDeviceIDFormato(t *testing.T) {
	id := DeviceID(&memStorage{})

	if !strings.HasPrefix(id, "device-") {
		t.Errorf("DeviceID() = %q, debe empezar con device-", id)
	}

	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		t.Fatalf("DeviceID() = %q, se esperaban 3 partes", id)
	}
	if len(parts[2]) != 9 {
		t.Errorf("sufijo = %q, se esperaban 9 caracteres", parts[2])
	}
}

func TestDeviceIDDegradaSinStorage(t *testing.T) {
	storage := &memStorage{saveErr: errors.New("disco lleno")}

	first := DeviceID(storage)
	second := DeviceID(storage)

	// Sin persistencia cada llamada genera un identificador fresco,
	// pero nunca vacío
	if first == "" || second == "" {
		t.Fatal("DeviceID() no debe ser vacío aunque el storage falle")
	}
	if first == second {
		t.Errorf("sin persistencia se esperaban identificadores distintos")
	}
}
