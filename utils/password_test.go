package utils

import (
	"testing"
)

func TestHashPassword(t *testing.T) {
	password := "contraseña123"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "" {
		t.Error("HashPassword() retornó un hash vacío")
	}
	if hash == password {
		t.Error("HashPassword() no debe retornar la contraseña en claro")
	}
}

func TestCheckPassword(t *testing.T) {
	password := "contraseña123"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if !CheckPassword(hash, password) {
		t.Error("CheckPassword() debería retornar true para la contraseña correcta")
	}
	if CheckPassword(hash, "incorrecta") {
		t.Error("CheckPassword() debería retornar false para una contraseña incorrecta")
	}
	if CheckPassword(hash, "") {
		t.Error("CheckPassword() debería retornar false para una contraseña vacía")
	}
}
