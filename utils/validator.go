package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// courtCodeRegex reconoce los códigos impresos en las canchas (AJUPAM-CANCHA-XX)
var courtCodeRegex = regexp.MustCompile(`AJUPAM-CANCHA-(\d+)`)

// numericRegex extrae el primer componente numérico de un código tipeado a mano
var numericRegex = regexp.MustCompile(`(\d+)`)

// ValidationError representa un error de validación
type ValidationError struct {
	Field   string
	Message string
}

// Error implementa la interfaz error
func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// ValidateEmail valida un email
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "el email es requerido"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "formato de email inválido"}
	}
	return nil
}

// ValidatePassword valida una contraseña
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "la contraseña es requerida"}
	}
	if len(password) < 6 {
		return ValidationError{Field: "password", Message: "la contraseña debe tener al menos 6 caracteres"}
	}
	return nil
}

// ValidateRequired valida que un campo no esté vacío
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: fmt.Sprintf("el campo %s es requerido", field)}
	}
	return nil
}

// ParseCourtCode extrae el número de cancha de un código escaneado o tipeado.
// Acepta el formato impreso AJUPAM-CANCHA-XX y también cualquier código con
// un componente numérico (entrada manual). Un código sin número es un error
// de validación: no se escribe nada en el store.
func ParseCourtCode(code string) (int, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if code == "" {
		return 0, ValidationError{Field: "code", Message: "el código es requerido"}
	}

	if match := courtCodeRegex.FindStringSubmatch(code); match != nil {
		n, err := strconv.Atoi(match[1])
		if err != nil || n < 1 {
			return 0, ValidationError{Field: "code", Message: "número de cancha inválido"}
		}
		return n, nil
	}

	// Entrada manual: extraer el componente numérico
	match := numericRegex.FindStringSubmatch(code)
	if match == nil {
		return 0, ValidationError{Field: "code", Message: "el código no contiene un número de cancha"}
	}

	n, err := strconv.Atoi(match[1])
	if err != nil || n < 1 {
		return 0, ValidationError{Field: "code", Message: "número de cancha inválido"}
	}
	return n, nil
}
