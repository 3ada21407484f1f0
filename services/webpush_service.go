package services

import (
	"context"

	"ajupam-pager/models"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// WebPushSender envía un payload por el canal Web Push legado y devuelve el
// status HTTP del proveedor (0 si el transporte falló antes de responder)
type WebPushSender interface {
	Send(ctx context.Context, sub *models.WebPushSubscription, payload []byte) (int, error)
}

// WebPushService implementa el envío con las claves VAPID del servidor
type WebPushService struct {
	publicKey  string
	privateKey string
	subject    string
}

func NewWebPushService(publicKey, privateKey, subject string) *WebPushService {
	return &WebPushService{
		publicKey:  publicKey,
		privateKey: privateKey,
		subject:    subject,
	}
}

func (s *WebPushService) Send(_ context.Context, sub *models.WebPushSubscription, payload []byte) (int, error) {
	target := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.Keys.P256dh,
			Auth:   sub.Keys.Auth,
		},
	}

	resp, err := webpush.SendNotification(payload, target, &webpush.Options{
		Subscriber:      s.subject,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             86400, // 24 horas en segundos
		Urgency:         webpush.UrgencyHigh,
	})
	if resp != nil {
		defer resp.Body.Close()
		return resp.StatusCode, err
	}
	return 0, err
}
