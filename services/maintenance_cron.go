package services

import (
	"context"
	"log"
	"strconv"
	"time"

	"ajupam-pager/database"
	"ajupam-pager/models"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/mongo"
)

// MaintenanceCron agrupa las tareas de fondo: barrido de intenciones
// pendientes, limpieza de suscripciones viejas y snapshot diario de
// estadísticas
type MaintenanceCron struct {
	notificationRepo *database.NotificationRepository
	subscriptionRepo *database.SubscriptionRepository
	statsRepo        *database.StatsRepository
	dispatcher       *Dispatcher
	cron             *cron.Cron
}

// Las suscripciones sin renovar más viejas que esto se consideran abandonadas
const subscriptionMaxAge = 6 * 30 * 24 * time.Hour

// NewMaintenanceCron crea una nueva instancia
func NewMaintenanceCron(db *mongo.Database, dispatcher *Dispatcher) *MaintenanceCron {
	return &MaintenanceCron{
		notificationRepo: database.NewNotificationRepository(db),
		subscriptionRepo: database.NewSubscriptionRepository(db),
		statsRepo:        database.NewStatsRepository(db),
		dispatcher:       dispatcher,
		cron:             cron.New(),
	}
}

// Start arranca las tareas programadas
func (mc *MaintenanceCron) Start() {
	// Reencolar cada minuto las intenciones que quedaron sin despachar
	mc.cron.AddFunc("@every 1m", mc.sweepPendingIntents)

	// Limpieza semanal de suscripciones abandonadas (lunes a las 03:00)
	mc.cron.AddFunc("0 3 * * 1", mc.cleanupStaleSubscriptions)

	// Snapshot de estadísticas al cierre del día
	mc.cron.AddFunc("59 23 * * *", mc.snapshotDailyStats)

	mc.cron.Start()
	log.Println("✓ Tareas de mantenimiento iniciadas (barrido cada minuto)")
}

// Stop detiene las tareas programadas
func (mc *MaintenanceCron) Stop() {
	mc.cron.Stop()
}

// sweepPendingIntents reencola las intenciones en estado created que el
// disparador en línea no llegó a despachar. El reclamo condicional del
// despachador hace inocuo entregar la misma intención dos veces.
func (mc *MaintenanceCron) sweepPendingIntents() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Dejar pasar 2 minutos antes de barrer, para no pisar el camino feliz
	pending, err := mc.notificationRepo.FindPending(ctx, time.Now().Add(-2*time.Minute))
	if err != nil {
		log.Printf("Error al buscar intenciones pendientes: %v", err)
		return
	}

	if len(pending) == 0 {
		return // Nada que hacer
	}

	log.Printf("🔁 Reencolando %d intención(es) pendiente(s)", len(pending))
	for _, intent := range pending {
		mc.dispatcher.Enqueue(intent.ID)
	}
}

// cleanupStaleSubscriptions borra las suscripciones más viejas que el
// límite de antigüedad
func (mc *MaintenanceCron) cleanupStaleSubscriptions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-subscriptionMaxAge)
	deleted, err := mc.subscriptionRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Printf("Error en la limpieza de suscripciones: %v", err)
		return
	}

	log.Printf("🧹 Limpieza semanal: %d suscripción(es) abandonada(s) eliminada(s)", deleted)
}

// snapshotDailyStats guarda el resumen del día: total de notificaciones,
// desglose por cancha y dispositivos suscriptos
func (mc *MaintenanceCron) snapshotDailyStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	notifications, err := mc.notificationRepo.FindSince(ctx, startOfDay)
	if err != nil {
		log.Printf("Error al leer las notificaciones del día: %v", err)
		return
	}

	byCourt := make(map[string]int)
	for _, n := range notifications {
		byCourt[strconv.Itoa(n.CourtNumber)]++
	}

	subscribers, err := mc.subscriptionRepo.CountDistinctDevices(ctx)
	if err != nil {
		log.Printf("Error al contar los dispositivos suscriptos: %v", err)
		return
	}

	stats := &models.DailyStats{
		Date:                 startOfDay,
		TotalNotifications:   len(notifications),
		NotificationsByCourt: byCourt,
		TotalSubscribers:     subscribers,
	}

	if err := mc.statsRepo.Insert(ctx, stats); err != nil {
		log.Printf("Error al guardar las estadísticas del día: %v", err)
		return
	}

	log.Printf("📊 Estadísticas del %s guardadas: %d notificaciones, %d suscriptores",
		stats.Date.Format("2006-01-02"), stats.TotalNotifications, stats.TotalSubscribers)
}
