package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"ajupam-pager/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Fakes en memoria para testear el fan-out sin Mongo ni FCM ---

type fakeIntentStore struct {
	mu      sync.Mutex
	intents map[primitive.ObjectID]*models.Notification
}

func newFakeIntentStore(intents ...*models.Notification) *fakeIntentStore {
	s := &fakeIntentStore{intents: make(map[primitive.ObjectID]*models.Notification)}
	for _, n := range intents {
		s.intents[n.ID] = n
	}
	return s
}

func (s *fakeIntentStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.intents[id]
	if !ok {
		return nil, nil
	}
	copia := *n
	return &copia, nil
}

func (s *fakeIntentStore) Claim(_ context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.intents[id]
	if !ok || n.Status != models.NotificationStatusCreated {
		return false, nil
	}
	n.Status = models.NotificationStatusDispatching
	return true, nil
}

func (s *fakeIntentStore) MarkCompleted(_ context.Context, id primitive.ObjectID, sent, failed int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.intents[id]
	n.Status = models.NotificationStatusCompleted
	n.SentCount = sent
	n.FailedCount = failed
	return nil
}

func (s *fakeIntentStore) MarkFailed(_ context.Context, id primitive.ObjectID, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.intents[id]
	n.Status = models.NotificationStatusFailed
	n.Error = errMsg
	return nil
}

type fakeSubscriptionStore struct {
	mu      sync.Mutex
	subs    []models.Subscription
	deleted []string
	findErr error
}

func (s *fakeSubscriptionStore) FindByCourt(_ context.Context, courtNumber int) ([]models.Subscription, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	var out []models.Subscription
	for _, sub := range s.subs {
		if sub.CourtNumber == courtNumber {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *fakeSubscriptionStore) DeleteByTokens(_ context.Context, tokens []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	muertos := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		muertos[t] = true
		s.deleted = append(s.deleted, t)
	}
	var keep []models.Subscription
	count := 0
	for _, sub := range s.subs {
		if muertos[sub.FCMToken] {
			count++
			continue
		}
		keep = append(keep, sub)
	}
	s.subs = keep
	return count, nil
}

type fakeDeviceTokenStore struct {
	mu      sync.Mutex
	deleted []string
}

func (s *fakeDeviceTokenStore) DeleteByTokens(_ context.Context, tokens []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, tokens...)
	return nil
}

// fakeSender registra los lotes recibidos y clasifica según el mapa permanent
type fakeSender struct {
	mu        sync.Mutex
	batches   [][]string
	permanent map[string]bool
	err       error
}

func (s *fakeSender) SendBatch(_ context.Context, tokens []string, _ *models.PushNotification) ([]SendResult, error) {
	s.mu.Lock()
	s.batches = append(s.batches, tokens)
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	results := make([]SendResult, 0, len(tokens))
	for _, token := range tokens {
		if s.permanent[token] {
			results = append(results, SendResult{Token: token, Permanent: true})
			continue
		}
		results = append(results, SendResult{Token: token, Delivered: true})
	}
	return results, nil
}

func (s *fakeSender) sentTokens() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, b := range s.batches {
		out = append(out, b...)
	}
	return out
}

func newIntent(court int) *models.Notification {
	return &models.Notification{
		ID:          primitive.NewObjectID(),
		CourtNumber: court,
		Status:      models.NotificationStatusCreated,
	}
}

func newTestDispatcher(intents *fakeIntentStore, subs *fakeSubscriptionStore, sender PushSender, batchSize int) (*Dispatcher, *fakeDeviceTokenStore) {
	tokens := &fakeDeviceTokenStore{}
	return NewDispatcher(intents, subs, tokens, nil, sender, nil, batchSize), tokens
}

// --- Tests ---

// TestDispatch_DedupeTokens: dos filas con el mismo token producen un solo
// push por instalación
func TestDispatch_DedupeTokens(t *testing.T) {
	intent := newIntent(3)
	intents := newFakeIntentStore(intent)
	subs := &fakeSubscriptionStore{subs: []models.Subscription{
		{CourtNumber: 3, DeviceID: "device-a", FCMToken: "T1"},
		{CourtNumber: 3, DeviceID: "device-b", FCMToken: "T2"},
		{CourtNumber: 3, DeviceID: "device-c", FCMToken: "T1"},
	}}
	sender := &fakeSender{}
	d, _ := newTestDispatcher(intents, subs, sender, 500)

	if err := d.Dispatch(context.Background(), intent.ID); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	sent := sender.sentTokens()
	if len(sent) != 2 {
		t.Fatalf("tokens enviados = %v, se esperaban 2 distintos", sent)
	}
	if sent[0] != "T1" || sent[1] != "T2" {
		t.Errorf("tokens enviados = %v, se esperaba [T1 T2]", sent)
	}

	final := intents.intents[intent.ID]
	if final.Status != models.NotificationStatusCompleted {
		t.Errorf("estado final = %s, se esperaba completed", final.Status)
	}
	if final.SentCount != 2 || final.FailedCount != 0 {
		t.Errorf("contadores = %d/%d, se esperaba 2/0", final.SentCount, final.FailedCount)
	}
}

// TestDispatch_PruneTokensInvalidos: un token permanentemente inválido se
// borra de todas las canchas, los válidos quedan intactos
func TestDispatch_PruneTokensInvalidos(t *testing.T) {
	intent := newIntent(1)
	intents := newFakeIntentStore(intent)
	subs := &fakeSubscriptionStore{subs: []models.Subscription{
		{CourtNumber: 1, DeviceID: "device-a", FCMToken: "T1"},
		{CourtNumber: 1, DeviceID: "device-b", FCMToken: "T2"},
		{CourtNumber: 4, DeviceID: "device-b", FCMToken: "T2"}, // Misma instalación, otra cancha
	}}
	sender := &fakeSender{permanent: map[string]bool{"T2": true}}
	d, deviceTokens := newTestDispatcher(intents, subs, sender, 500)

	if err := d.Dispatch(context.Background(), intent.ID); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	// T2 tiene que desaparecer de la cancha 1 Y de la cancha 4
	for _, sub := range subs.subs {
		if sub.FCMToken == "T2" {
			t.Errorf("el token T2 sigue suscripto a la cancha %d", sub.CourtNumber)
		}
	}
	if len(subs.subs) != 1 || subs.subs[0].FCMToken != "T1" {
		t.Errorf("suscripciones restantes = %+v, se esperaba solo T1", subs.subs)
	}
	if len(deviceTokens.deleted) != 1 || deviceTokens.deleted[0] != "T2" {
		t.Errorf("registros de token borrados = %v, se esperaba [T2]", deviceTokens.deleted)
	}

	final := intents.intents[intent.ID]
	if final.SentCount != 1 || final.FailedCount != 1 {
		t.Errorf("contadores = %d/%d, se esperaba 1/1", final.SentCount, final.FailedCount)
	}
}

// TestDispatch_SinSuscriptores: cero suscriptores no es un error, la
// intención se completa con 0/0
func TestDispatch_SinSuscriptores(t *testing.T) {
	intent := newIntent(2)
	intents := newFakeIntentStore(intent)
	subs := &fakeSubscriptionStore{}
	sender := &fakeSender{}
	d, _ := newTestDispatcher(intents, subs, sender, 500)

	if err := d.Dispatch(context.Background(), intent.ID); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if len(sender.batches) != 0 {
		t.Errorf("el sender no debería haber sido llamado, recibió %d lotes", len(sender.batches))
	}

	final := intents.intents[intent.ID]
	if final.Status != models.NotificationStatusCompleted {
		t.Errorf("estado final = %s, se esperaba completed", final.Status)
	}
	if final.SentCount != 0 || final.FailedCount != 0 {
		t.Errorf("contadores = %d/%d, se esperaba 0/0", final.SentCount, final.FailedCount)
	}
}

// TestDispatch_Lotes: los tokens se parten según el límite configurado
func TestDispatch_Lotes(t *testing.T) {
	intent := newIntent(1)
	intents := newFakeIntentStore(intent)
	subs := &fakeSubscriptionStore{subs: []models.Subscription{
		{CourtNumber: 1, DeviceID: "d1", FCMToken: "T1"},
		{CourtNumber: 1, DeviceID: "d2", FCMToken: "T2"},
		{CourtNumber: 1, DeviceID: "d3", FCMToken: "T3"},
		{CourtNumber: 1, DeviceID: "d4", FCMToken: "T4"},
		{CourtNumber: 1, DeviceID: "d5", FCMToken: "T5"},
	}}
	sender := &fakeSender{}
	d, _ := newTestDispatcher(intents, subs, sender, 2)

	if err := d.Dispatch(context.Background(), intent.ID); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if len(sender.batches) != 3 {
		t.Fatalf("lotes = %d, se esperaban 3 (2+2+1)", len(sender.batches))
	}
	for _, batch := range sender.batches {
		if len(batch) > 2 {
			t.Errorf("lote de %d tokens supera el límite de 2", len(batch))
		}
	}
	if got := len(sender.sentTokens()); got != 5 {
		t.Errorf("tokens enviados en total = %d, se esperaban 5", got)
	}
}

// TestDispatch_FalloTransitorioNoPoda: el error de un lote entero cuenta
// como fallo pero no borra ninguna suscripción
func TestDispatch_FalloTransitorioNoPoda(t *testing.T) {
	intent := newIntent(1)
	intents := newFakeIntentStore(intent)
	subs := &fakeSubscriptionStore{subs: []models.Subscription{
		{CourtNumber: 1, DeviceID: "d1", FCMToken: "T1"},
		{CourtNumber: 1, DeviceID: "d2", FCMToken: "T2"},
	}}
	sender := &fakeSender{err: errors.New("proveedor no disponible")}
	d, deviceTokens := newTestDispatcher(intents, subs, sender, 500)

	if err := d.Dispatch(context.Background(), intent.ID); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if len(subs.deleted) != 0 || len(deviceTokens.deleted) != 0 {
		t.Errorf("un fallo transitorio no debe podar: subs=%v tokens=%v", subs.deleted, deviceTokens.deleted)
	}

	final := intents.intents[intent.ID]
	if final.Status != models.NotificationStatusCompleted {
		t.Errorf("estado final = %s, se esperaba completed", final.Status)
	}
	if final.SentCount != 0 || final.FailedCount != 2 {
		t.Errorf("contadores = %d/%d, se esperaba 0/2", final.SentCount, final.FailedCount)
	}
}

// TestDispatch_ReclamoUnico: una intención ya reclamada no se procesa dos veces
func TestDispatch_ReclamoUnico(t *testing.T) {
	intent := newIntent(1)
	intent.Status = models.NotificationStatusDispatching
	intents := newFakeIntentStore(intent)
	subs := &fakeSubscriptionStore{subs: []models.Subscription{
		{CourtNumber: 1, DeviceID: "d1", FCMToken: "T1"},
	}}
	sender := &fakeSender{}
	d, _ := newTestDispatcher(intents, subs, sender, 500)

	if err := d.Dispatch(context.Background(), intent.ID); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if len(sender.batches) != 0 {
		t.Errorf("una intención ya reclamada no debe despacharse de nuevo")
	}
	if intents.intents[intent.ID].Status != models.NotificationStatusDispatching {
		t.Errorf("el estado no debe cambiar cuando el reclamo falla")
	}
}

// TestDispatch_ErrorDelStore: si la lectura de suscriptores falla, la
// intención queda en failed con el mensaje y el error se propaga
func TestDispatch_ErrorDelStore(t *testing.T) {
	intent := newIntent(1)
	intents := newFakeIntentStore(intent)
	subs := &fakeSubscriptionStore{findErr: errors.New("mongo caído")}
	sender := &fakeSender{}
	d, _ := newTestDispatcher(intents, subs, sender, 500)

	err := d.Dispatch(context.Background(), intent.ID)
	if err == nil {
		t.Fatal("Dispatch() debería propagar el error del store")
	}

	final := intents.intents[intent.ID]
	if final.Status != models.NotificationStatusFailed {
		t.Errorf("estado final = %s, se esperaba failed", final.Status)
	}
	if !strings.Contains(final.Error, "mongo caído") {
		t.Errorf("error registrado = %q, debería contener la causa", final.Error)
	}
}

// --- Canal Web Push legado ---

type fakeWebPushStore struct {
	mu      sync.Mutex
	subs    []models.WebPushSubscription
	removed []string
	findErr error
}

func (s *fakeWebPushStore) FindByCourt(_ context.Context, courtNumber int) ([]models.WebPushSubscription, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	var out []models.WebPushSubscription
	for _, sub := range s.subs {
		if sub.CourtNumber == courtNumber {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *fakeWebPushStore) DeleteByEndpoint(_ context.Context, endpoint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, endpoint)
	return nil
}

type fakeWebPushSender struct {
	statuses map[string]int // Endpoint → status HTTP
}

func (s *fakeWebPushSender) Send(_ context.Context, sub *models.WebPushSubscription, _ []byte) (int, error) {
	status, ok := s.statuses[sub.Endpoint]
	if !ok {
		return 201, nil
	}
	return status, nil
}

// TestDispatch_WebPushDaDeBajaEndpointsMuertos: un 410 del proveedor da de
// baja el abono, un envío exitoso suma al contador
func TestDispatch_WebPushDaDeBajaEndpointsMuertos(t *testing.T) {
	intent := newIntent(2)
	intents := newFakeIntentStore(intent)
	subs := &fakeSubscriptionStore{}
	wpStore := &fakeWebPushStore{subs: []models.WebPushSubscription{
		{CourtNumber: 2, DeviceID: "d1", Endpoint: "https://push.example/vivo"},
		{CourtNumber: 2, DeviceID: "d2", Endpoint: "https://push.example/muerto"},
	}}
	wpSender := &fakeWebPushSender{statuses: map[string]int{
		"https://push.example/muerto": 410,
	}}
	tokens := &fakeDeviceTokenStore{}
	d := NewDispatcher(intents, subs, tokens, wpStore, &fakeSender{}, wpSender, 500)

	if err := d.Dispatch(context.Background(), intent.ID); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if len(wpStore.removed) != 1 || wpStore.removed[0] != "https://push.example/muerto" {
		t.Errorf("endpoints dados de baja = %v, se esperaba solo el muerto", wpStore.removed)
	}

	final := intents.intents[intent.ID]
	if final.SentCount != 1 || final.FailedCount != 1 {
		t.Errorf("contadores = %d/%d, se esperaba 1/1", final.SentCount, final.FailedCount)
	}
}

// TestDispatch_WebPushCaidoNoPierdeContadores: un fallo de lectura del canal
// legado no descarta los envíos FCM ya hechos, la intención se completa igual
func TestDispatch_WebPushCaidoNoPierdeContadores(t *testing.T) {
	intent := newIntent(5)
	intents := newFakeIntentStore(intent)
	subs := &fakeSubscriptionStore{subs: []models.Subscription{
		{CourtNumber: 5, DeviceID: "device-a", FCMToken: "T1"},
		{CourtNumber: 5, DeviceID: "device-b", FCMToken: "T2"},
	}}
	wpStore := &fakeWebPushStore{findErr: errors.New("mongo caído")}
	tokens := &fakeDeviceTokenStore{}
	d := NewDispatcher(intents, subs, tokens, wpStore, &fakeSender{}, &fakeWebPushSender{}, 500)

	if err := d.Dispatch(context.Background(), intent.ID); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	final := intents.intents[intent.ID]
	if final.Status != models.NotificationStatusCompleted {
		t.Errorf("estado final = %s, se esperaba completed", final.Status)
	}
	if final.SentCount != 2 || final.FailedCount != 0 {
		t.Errorf("contadores = %d/%d, se esperaba 2/0", final.SentCount, final.FailedCount)
	}
}

// TestBuildCourtNotification cubre el mensaje por defecto y el tag por cancha
func TestBuildCourtNotification(t *testing.T) {
	tests := []struct {
		name      string
		intent    *models.Notification
		wantTitle string
		wantBody  string
		wantTag   string
	}{
		{
			name:      "mensaje personalizado",
			intent:    &models.Notification{CourtNumber: 3, Message: "¡Vengan ya!"},
			wantTitle: "¡Cancha 3 Disponible!",
			wantBody:  "¡Vengan ya!",
			wantTag:   "court-3",
		},
		{
			name:      "mensaje por defecto",
			intent:    &models.Notification{CourtNumber: 5},
			wantTitle: "¡Cancha 5 Disponible!",
			wantBody:  "La cancha 5 está libre para jugar",
			wantTag:   "court-5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notif := buildCourtNotification(tt.intent)
			if notif.Title != tt.wantTitle {
				t.Errorf("Title = %q, se esperaba %q", notif.Title, tt.wantTitle)
			}
			if notif.Body != tt.wantBody {
				t.Errorf("Body = %q, se esperaba %q", notif.Body, tt.wantBody)
			}
			if notif.Tag != tt.wantTag {
				t.Errorf("Tag = %q, se esperaba %q", notif.Tag, tt.wantTag)
			}
			if notif.Data["type"] != "court-available" {
				t.Errorf("Data[type] = %q, se esperaba court-available", notif.Data["type"])
			}
		})
	}
}
