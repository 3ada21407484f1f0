package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondError(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, http.StatusBadRequest, "Campo inválido")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Code = %v, esperado %v", rr.Code, http.StatusBadRequest)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("Content-Type = %v", ct)
	}
	if !strings.Contains(rr.Body.String(), "Bad Request") {
		t.Errorf("Body debería contener 'Bad Request', got %s", rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Campo inválido") {
		t.Errorf("Body debería contener 'Campo inválido', got %s", rr.Body.String())
	}
}

func TestRespondSuccess(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondSuccess(rr, "Éxito", map[string]string{"id": "123"})

	if rr.Code != http.StatusOK {
		t.Errorf("Code = %v, esperado 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Éxito") {
		t.Errorf("Body debería contener 'Éxito', got %s", body)
	}
	if !strings.Contains(body, "true") {
		t.Errorf("Body debería contener success true, got %s", body)
	}
}
