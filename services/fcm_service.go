package services

import (
	"context"
	"fmt"
	"log"
	"os"

	"ajupam-pager/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// SendResult es el resultado por token de un lote de envío
type SendResult struct {
	Token     string
	Delivered bool
	// Permanent indica que el proveedor reportó el token como no registrado
	// o malformado: hay que podarlo. Los fallos transitorios (rate limiting,
	// servicio no disponible) dejan el token en paz.
	Permanent bool
	Err       error
}

// PushSender envía un lote de notificaciones push. La cantidad de tokens
// por llamada la limita el despachador según la configuración, no este
// servicio. Interfaz inyectable: los tests usan un cliente falso y un
// decorador de reintentos puede envolverla.
type PushSender interface {
	SendBatch(ctx context.Context, tokens []string, notif *models.PushNotification) ([]SendResult, error)
}

// FCMService envía notificaciones vía Firebase Cloud Messaging
type FCMService struct {
	client *messaging.Client
}

// NewFCMService crea una nueva instancia de FCMService
func NewFCMService(credentialsFile string) (*FCMService, error) {
	ctx := context.Background()

	var app *firebase.App
	var err error

	// Verificar si FIREBASE_CREDENTIALS_JSON existe (para cloud)
	credentialsJSON := os.Getenv("FIREBASE_CREDENTIALS_JSON")

	if credentialsJSON != "" {
		// Leer desde la variable de entorno
		log.Println("📦 Usando credenciales Firebase desde FIREBASE_CREDENTIALS_JSON")
		opt := option.WithCredentialsJSON([]byte(credentialsJSON))
		app, err = firebase.NewApp(ctx, nil, opt)
	} else {
		// Leer desde el archivo (desarrollo local)
		log.Printf("📦 Usando credenciales Firebase desde el archivo: %s", credentialsFile)
		opt := option.WithCredentialsFile(credentialsFile)
		app, err = firebase.NewApp(ctx, nil, opt)
	}

	if err != nil {
		return nil, fmt.Errorf("error al inicializar Firebase: %w", err)
	}

	// Crear el cliente de messaging
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error al crear el cliente FCM: %w", err)
	}

	log.Println("✓ Firebase Cloud Messaging inicializado")

	return &FCMService{
		client: client,
	}, nil
}

// SendBatch envía una notificación a un lote de tokens y clasifica el
// resultado por token
func (s *FCMService) SendBatch(ctx context.Context, tokens []string, notif *models.PushNotification) ([]SendResult, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Data:   notif.Data,
		Webpush: &messaging.WebpushConfig{
			Headers: map[string]string{
				"Urgency": "high",
			},
			Notification: &messaging.WebpushNotification{
				Title:              notif.Title,
				Body:               notif.Body,
				Icon:               notif.Icon,
				Badge:              notif.Badge,
				Tag:                notif.Tag,
				RequireInteraction: true,
				Vibrate:            []int{200, 100, 200},
			},
		},
	}

	response, err := s.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("error en el envío multicast: %w", err)
	}

	results := make([]SendResult, len(response.Responses))
	for idx, resp := range response.Responses {
		results[idx] = SendResult{
			Token:     tokens[idx],
			Delivered: resp.Success,
		}
		if !resp.Success {
			results[idx].Err = resp.Error
			// Token no registrado o malformado: inválido de forma permanente
			if messaging.IsUnregistered(resp.Error) || errorutils.IsInvalidArgument(resp.Error) {
				results[idx].Permanent = true
			}
			log.Printf("❌ Fallo para el token %s: %v", abbreviateToken(tokens[idx]), resp.Error)
		}
	}

	log.Printf("📊 Lote enviado: %d éxitos, %d fallos sobre %d", response.SuccessCount, response.FailureCount, len(tokens))

	return results, nil
}

// DisabledFCMService es un PushSender que no envía nada. Permite levantar
// el servidor sin credenciales Firebase.
type DisabledFCMService struct{}

// NewDisabledFCMService crea el servicio deshabilitado
func NewDisabledFCMService() *DisabledFCMService {
	return &DisabledFCMService{}
}

// SendBatch no envía nada y reporta todos los tokens como fallos transitorios
func (s *DisabledFCMService) SendBatch(ctx context.Context, tokens []string, notif *models.PushNotification) ([]SendResult, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	log.Printf("⚠️  FCM deshabilitado: %d tokens sin notificar", len(tokens))

	results := make([]SendResult, len(tokens))
	for i, token := range tokens {
		results[i] = SendResult{
			Token: token,
			Err:   fmt.Errorf("FCM deshabilitado"),
		}
	}
	return results, nil
}

// abbreviateToken acorta un token para los logs
func abbreviateToken(token string) string {
	if len(token) <= 20 {
		return token
	}
	return token[:20] + "..."
}
