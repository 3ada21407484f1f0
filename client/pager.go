package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// ErrPermissionDenied indica que el usuario rechazó el permiso de
// notificaciones. El pager lo recuerda y no vuelve a preguntar en esta
// sesión.
var ErrPermissionDenied = errors.New("permiso de notificaciones denegado")

// ErrOperationInFlight indica que ya hay una operación en curso para esa
// cancha. Tocar dos veces produce una sola transición.
var ErrOperationInFlight = errors.New("operación en curso para esta cancha")

// TokenSource obtiene el token push del dispositivo. Pedirlo puede implicar
// un prompt de permiso al usuario: el pager solo lo invoca cuando hace falta.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Pager es el cliente del backend: maneja la identidad del dispositivo y
// las suscripciones a canchas
type Pager struct {
	baseURL    string
	httpClient *http.Client
	deviceID   string
	tokens     TokenSource

	mu       sync.Mutex
	inFlight map[int]bool
	denied   bool
}

// NewPager crea el cliente resolviendo la identidad del dispositivo
func NewPager(baseURL string, storage Storage, tokens TokenSource) *Pager {
	return &Pager{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		deviceID: DeviceID(storage),
		tokens:   tokens,
		inFlight: make(map[int]bool),
	}
}

// DeviceID devuelve el identificador con el que opera este pager
func (p *Pager) DeviceID() string {
	return p.deviceID
}

// RegisterForPush obtiene el token push y lo registra en el backend. Si el
// usuario ya denegó el permiso no se le vuelve a preguntar.
func (p *Pager) RegisterForPush(ctx context.Context) error {
	p.mu.Lock()
	if p.denied {
		p.mu.Unlock()
		return ErrPermissionDenied
	}
	p.mu.Unlock()

	token, err := p.tokens.Token(ctx)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			p.mu.Lock()
			p.denied = true
			p.mu.Unlock()
		}
		return err
	}

	payload := map[string]string{
		"device_id": p.deviceID,
		"fcm_token": token,
	}
	return p.post(ctx, "/api/fcm/registrar", payload)
}

// Subscribe suscribe este dispositivo a una cancha
func (p *Pager) Subscribe(ctx context.Context, courtNumber int) error {
	if !p.acquire(courtNumber) {
		return ErrOperationInFlight
	}
	defer p.release(courtNumber)

	payload := map[string]interface{}{
		"device_id":    p.deviceID,
		"court_number": courtNumber,
	}
	return p.post(ctx, "/api/pager/suscripciones", payload)
}

// SubscribeCode suscribe usando un código impreso (AJUPAM-CANCHA-XX). El
// servidor resuelve el número de cancha, así que acá no aplica el guard
// por cancha.
func (p *Pager) SubscribeCode(ctx context.Context, code string) error {
	payload := map[string]interface{}{
		"device_id": p.deviceID,
		"code":      code,
	}
	return p.post(ctx, "/api/pager/suscripciones", payload)
}

// Unsubscribe desuscribe este dispositivo de una cancha
func (p *Pager) Unsubscribe(ctx context.Context, courtNumber int) error {
	if !p.acquire(courtNumber) {
		return ErrOperationInFlight
	}
	defer p.release(courtNumber)

	payload := map[string]interface{}{
		"device_id":    p.deviceID,
		"court_number": courtNumber,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, p.baseURL+"/api/pager/suscripciones", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return p.do(req)
}

// Subscriptions devuelve las canchas a las que está suscripto este dispositivo
func (p *Pager) Subscriptions(ctx context.Context) ([]int, error) {
	url := fmt.Sprintf("%s/api/pager/suscripciones?device_id=%s", p.baseURL, p.deviceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("el servidor respondió %d", resp.StatusCode)
	}

	var out struct {
		Courts []int `json:"courts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Courts, nil
}

// acquire marca la cancha como en curso; retorna false si ya lo estaba
func (p *Pager) acquire(courtNumber int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight[courtNumber] {
		return false
	}
	p.inFlight[courtNumber] = true
	return true
}

func (p *Pager) release(courtNumber int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inFlight, courtNumber)
}

func (p *Pager) post(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return p.do(req)
}

func (p *Pager) do(req *http.Request) error {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Message != "" {
			return fmt.Errorf("el servidor respondió %d: %s", resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("el servidor respondió %d", resp.StatusCode)
	}
	return nil
}
