package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"ajupam-pager/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// subscriptionStore es lo que el despachador necesita del repositorio de
// suscripciones. Interfaz chica para poder testear el fan-out sin Mongo.
type subscriptionStore interface {
	FindByCourt(ctx context.Context, courtNumber int) ([]models.Subscription, error)
	DeleteByTokens(ctx context.Context, tokens []string) (int, error)
}

type deviceTokenStore interface {
	DeleteByTokens(ctx context.Context, tokens []string) error
}

type intentStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
	Claim(ctx context.Context, id primitive.ObjectID) (bool, error)
	MarkCompleted(ctx context.Context, id primitive.ObjectID, sent, failed int) error
	MarkFailed(ctx context.Context, id primitive.ObjectID, errMsg string) error
}

type webPushStore interface {
	FindByCourt(ctx context.Context, courtNumber int) ([]models.WebPushSubscription, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
}

// DispatchResult resume una pasada de despacho
type DispatchResult struct {
	Sent   int
	Failed int
	Pruned int
}

// Dispatcher procesa las intenciones de notificación: lee los suscriptores
// de la cancha, hace el fan-out por lotes, clasifica los resultados y poda
// los tokens inválidos. Corre como tarea de fondo sin estado propio: la
// transición created → dispatching en el store garantiza a lo sumo una
// pasada por reclamo aunque el disparador entregue la misma intención dos
// veces.
type Dispatcher struct {
	intents      intentStore
	subs         subscriptionStore
	deviceTokens deviceTokenStore
	webpushSubs  webPushStore
	sender       PushSender
	webpush      WebPushSender // Canal legado; puede ser nil
	batchSize    int           // Límite de tokens por llamada del proveedor
	queue        chan primitive.ObjectID
}

// NewDispatcher crea el despachador. batchSize es el límite del proveedor
// (FCM acepta hasta 500 tokens por llamada), configurable por entorno.
func NewDispatcher(intents intentStore, subs subscriptionStore, deviceTokens deviceTokenStore, webpushSubs webPushStore, sender PushSender, webpush WebPushSender, batchSize int) *Dispatcher {
	return &Dispatcher{
		intents:      intents,
		subs:         subs,
		deviceTokens: deviceTokens,
		webpushSubs:  webpushSubs,
		sender:       sender,
		webpush:      webpush,
		batchSize:    batchSize,
		queue:        make(chan primitive.ObjectID, 64),
	}
}

// Enqueue encola una intención para despachar. Si la cola está llena no
// bloquea: el barrido del cron la va a levantar.
func (d *Dispatcher) Enqueue(id primitive.ObjectID) {
	select {
	case d.queue <- id:
	default:
		log.Printf("⚠️  Cola de despacho llena, la intención %s queda para el barrido", id.Hex())
	}
}

// Run consume la cola hasta que el contexto se cancele
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-d.queue:
			if err := d.Dispatch(ctx, id); err != nil {
				log.Printf("❌ Error al despachar la notificación %s: %v", id.Hex(), err)
			}
		}
	}
}

// Dispatch procesa una intención de punta a punta. Si la operación falla
// antes de completarse, el error queda registrado en la intención y se
// retorna para que el disparador aplique su propia política de reintentos.
func (d *Dispatcher) Dispatch(ctx context.Context, id primitive.ObjectID) error {
	intent, err := d.intents.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if intent == nil {
		log.Printf("⚠️  Intención %s no encontrada", id.Hex())
		return nil
	}

	// Reclamar la intención: created → dispatching
	claimed, err := d.intents.Claim(ctx, id)
	if err != nil {
		return err
	}
	if !claimed {
		// Ya reclamada o en estado terminal: otra pasada la tiene
		return nil
	}

	log.Printf("🔔 Procesando notificación para la cancha %d", intent.CourtNumber)

	result, err := d.fanOut(ctx, intent)
	if err != nil {
		if mErr := d.intents.MarkFailed(ctx, id, err.Error()); mErr != nil {
			log.Printf("❌ Error al registrar el fallo de la intención %s: %v", id.Hex(), mErr)
		}
		return err
	}

	log.Printf("📊 Cancha %d: %d enviados, %d fallidos, %d tokens podados",
		intent.CourtNumber, result.Sent, result.Failed, result.Pruned)

	return d.intents.MarkCompleted(ctx, id, result.Sent, result.Failed)
}

// fanOut ejecuta el algoritmo de difusión para una intención ya reclamada
func (d *Dispatcher) fanOut(ctx context.Context, intent *models.Notification) (*DispatchResult, error) {
	subs, err := d.subs.FindByCourt(ctx, intent.CourtNumber)
	if err != nil {
		return nil, err
	}

	result := &DispatchResult{}
	notif := buildCourtNotification(intent)

	// Tokens únicos: filas duplicadas o dos dispositivos que comparten un
	// token no deben producir pushes duplicados a la misma instalación
	tokens := dedupeTokens(subs)

	if len(tokens) == 0 {
		log.Printf("ℹ️  Sin tokens FCM válidos para la cancha %d", intent.CourtNumber)
	} else {
		log.Printf("📤 Enviando a %d dispositivos en lotes de %d", len(tokens), d.batchSize)

		var mu sync.Mutex
		var wg sync.WaitGroup
		var toPrune []string

		// Los lotes se despachan en paralelo y los resultados se juntan
		// antes de podar. El fallo de un lote no bloquea a los demás.
		for start := 0; start < len(tokens); start += d.batchSize {
			end := start + d.batchSize
			if end > len(tokens) {
				end = len(tokens)
			}
			batch := tokens[start:end]

			wg.Add(1)
			go func(batch []string) {
				defer wg.Done()

				results, err := d.sender.SendBatch(ctx, batch, notif)

				mu.Lock()
				defer mu.Unlock()

				if err != nil {
					// Fallo transitorio del lote completo: no se poda nada
					log.Printf("❌ Error en un lote de %d tokens: %v", len(batch), err)
					result.Failed += len(batch)
					return
				}

				for _, r := range results {
					if r.Delivered {
						result.Sent++
						continue
					}
					result.Failed++
					if r.Permanent {
						toPrune = append(toPrune, r.Token)
					}
				}
			}(batch)
		}

		wg.Wait()

		// Podar los tokens permanentemente inválidos en TODAS las canchas,
		// en una sola escritura por pasada
		if len(toPrune) > 0 {
			log.Printf("🗑️  Limpiando %d tokens inválidos", len(toPrune))

			pruned, err := d.subs.DeleteByTokens(ctx, toPrune)
			if err != nil {
				return nil, err
			}
			result.Pruned = pruned

			if err := d.deviceTokens.DeleteByTokens(ctx, toPrune); err != nil {
				log.Printf("⚠️  Error al limpiar los registros de tokens: %v", err)
			}
		}
	}

	// Canal Web Push legado. Un fallo acá no invalida el fan-out FCM ya
	// hecho: la intención se completa con los contadores acumulados.
	if err := d.sendWebPush(ctx, intent, notif, result); err != nil {
		log.Printf("⚠️  Canal web push degradado para la cancha %d: %v", intent.CourtNumber, err)
	}

	return result, nil
}

// sendWebPush difunde por el canal Web Push (VAPID) a los abonados de la
// cancha, dando de baja los endpoints que el proveedor reporta muertos
func (d *Dispatcher) sendWebPush(ctx context.Context, intent *models.Notification, notif *models.PushNotification, result *DispatchResult) error {
	if d.webpush == nil || d.webpushSubs == nil {
		return nil
	}

	subs, err := d.webpushSubs.FindByCourt(ctx, intent.CourtNumber)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return nil
	}

	payload, err := json.Marshal(notif)
	if err != nil {
		return fmt.Errorf("error al serializar el payload web push: %w", err)
	}

	for _, sub := range subs {
		status, err := d.webpush.Send(ctx, &sub, payload)

		if status == http.StatusGone || status == http.StatusNotFound {
			// Endpoint muerto: dar de baja el abono
			log.Printf("🗑️  Dando de baja el endpoint inválido: %s", sub.Endpoint)
			if dErr := d.webpushSubs.DeleteByEndpoint(ctx, sub.Endpoint); dErr != nil {
				log.Printf("⚠️  Error al dar de baja el endpoint: %v", dErr)
			}
			result.Failed++
			continue
		}

		if err != nil || (status != http.StatusCreated && status != http.StatusOK) {
			log.Printf("❌ Error web push para %s: status=%d err=%v", sub.DeviceID, status, err)
			result.Failed++
			continue
		}

		result.Sent++
	}

	return nil
}

// buildCourtNotification arma el push de cancha disponible
func buildCourtNotification(intent *models.Notification) *models.PushNotification {
	body := intent.Message
	if body == "" {
		body = fmt.Sprintf("La cancha %d está libre para jugar", intent.CourtNumber)
	}

	return &models.PushNotification{
		Title: fmt.Sprintf("¡Cancha %d Disponible!", intent.CourtNumber),
		Body:  body,
		Icon:  "/icons/icon-192.png",
		Badge: "/icons/badge-72.png",
		Tag:   fmt.Sprintf("court-%d", intent.CourtNumber),
		Data: map[string]string{
			"courtNumber": fmt.Sprintf("%d", intent.CourtNumber),
			"url":         "/",
			"type":        "court-available",
		},
	}
}

// dedupeTokens extrae el conjunto de tokens distintos, preservando el orden
// y descartando los vacíos
func dedupeTokens(subs []models.Subscription) []string {
	seen := make(map[string]bool, len(subs))
	tokens := make([]string, 0, len(subs))
	for _, sub := range subs {
		if sub.FCMToken == "" || seen[sub.FCMToken] {
			continue
		}
		seen[sub.FCMToken] = true
		tokens = append(tokens, sub.FCMToken)
	}
	return tokens
}
