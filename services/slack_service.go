package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// SlackService envía alertas operativas al webhook de Slack del club
type SlackService struct {
	webhookURL string
	client     *http.Client
}

// SlackMessage representa un mensaje de Slack
type SlackMessage struct {
	Text        string       `json:"text,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment representa un adjunto de Slack
type Attachment struct {
	Color     string  `json:"color,omitempty"`
	Title     string  `json:"title,omitempty"`
	Text      string  `json:"text,omitempty"`
	Fields    []Field `json:"fields,omitempty"`
	Timestamp int64   `json:"ts,omitempty"`
	Footer    string  `json:"footer,omitempty"`
}

// Field representa un campo dentro de un adjunto de Slack
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// NewSlackService crea una nueva instancia de SlackService
func NewSlackService(webhookURL string) *SlackService {
	if webhookURL == "" {
		log.Println("⚠️  Webhook de Slack no configurado - alertas Slack desactivadas")
	}

	return &SlackService{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// SendErrorNotification envía una alerta de error a Slack
func (s *SlackService) SendErrorNotification(errorType, method, path, statusCode, message, origin, userAgent string) error {
	if s.webhookURL == "" {
		return nil // Servicio desactivado
	}

	// Rojo por defecto, naranja para los rechazos CORS/Forbidden
	color := "danger"
	if statusCode == "403" {
		color = "warning"
	}

	slackMsg := SlackMessage{
		Attachments: []Attachment{
			{
				Color:     color,
				Title:     fmt.Sprintf("🚨 Error del servidor: %s", errorType),
				Text:      message,
				Timestamp: time.Now().Unix(),
				Footer:    "AJUPAM Pager - Backend",
				Fields: []Field{
					{
						Title: "Método",
						Value: method,
						Short: true,
					},
					{
						Title: "Status Code",
						Value: statusCode,
						Short: true,
					},
					{
						Title: "Ruta",
						Value: path,
						Short: false,
					},
				},
			},
		},
	}

	if origin != "" {
		slackMsg.Attachments[0].Fields = append(slackMsg.Attachments[0].Fields, Field{
			Title: "Origin",
			Value: origin,
			Short: true,
		})
	}

	if userAgent != "" {
		slackMsg.Attachments[0].Fields = append(slackMsg.Attachments[0].Fields, Field{
			Title: "User-Agent",
			Value: userAgent,
			Short: false,
		})
	}

	jsonData, err := json.Marshal(slackMsg)
	if err != nil {
		return fmt.Errorf("error al serializar el mensaje de Slack: %w", err)
	}

	req, err := http.NewRequest("POST", s.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error al crear la petición: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("error al enviar a Slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Slack devolvió un código de error: %d", resp.StatusCode)
	}

	log.Printf("✓ Alerta Slack enviada para el error: %s %s", method, path)
	return nil
}

// SendCriticalError envía una alerta por un error crítico
func (s *SlackService) SendCriticalError(method, path, statusCode, errorMessage, origin, userAgent string) {
	if err := s.SendErrorNotification(
		"Error Crítico",
		method,
		path,
		statusCode,
		errorMessage,
		origin,
		userAgent,
	); err != nil {
		log.Printf("❌ Error al enviar la alerta a Slack: %v", err)
	}
}

// SendCORSError envía una alerta por un rechazo CORS
func (s *SlackService) SendCORSError(method, path, origin, userAgent string) {
	if err := s.SendErrorNotification(
		"Error CORS",
		method,
		path,
		"403",
		fmt.Sprintf("Origen no autorizado: %s", origin),
		origin,
		userAgent,
	); err != nil {
		log.Printf("❌ Error al enviar la alerta a Slack: %v", err)
	}
}
