package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTestNotifyDisabledInProduction(t *testing.T) {
	h := &NotificationHandler{environment: "production"}

	req := httptest.NewRequest(http.MethodPost, "/api/test/notificar", strings.NewReader(`{"court_number": 1}`))
	rr := httptest.NewRecorder()
	h.TestNotify(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("TestNotify() status = %v, se esperaba 403 en producción", rr.Code)
	}
}

func TestTestNotifyRequiresCourtNumber(t *testing.T) {
	h := &NotificationHandler{environment: "development"}

	req := httptest.NewRequest(http.MethodPost, "/api/test/notificar", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	h.TestNotify(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("TestNotify() status = %v, se esperaba 400", rr.Code)
	}
}

func TestNotifyRejectsBadCourtNumber(t *testing.T) {
	h := &NotificationHandler{}

	// Sin variable {number} en la ruta, el número no parsea
	req := httptest.NewRequest(http.MethodPost, "/api/admin/canchas/abc/notificar", nil)
	rr := httptest.NewRecorder()
	h.Notify(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Notify() status = %v, se esperaba 400", rr.Code)
	}
}
