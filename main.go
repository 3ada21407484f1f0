package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ajupam-pager/config"
	"ajupam-pager/database"
	"ajupam-pager/handlers"
	"ajupam-pager/middleware"
	"ajupam-pager/services"

	"github.com/gorilla/mux"
)

func main() {
	// Cargar la configuración
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Error al cargar la configuración: %v", err)
	}

	// Conexión a MongoDB
	if err := database.Connect(cfg.MongoURI, cfg.MongoDB); err != nil {
		log.Fatalf("❌ Error de conexión a MongoDB: %v", err)
	}
	defer database.Close()

	// Asegurar el catálogo de canchas según la configuración persistida
	configRepo := database.NewConfigRepository(database.DB, cfg.DefaultCourts)
	courtRepo := database.NewCourtRepository(database.DB)
	courtCount, err := configRepo.GetCourtCount(context.Background())
	if err != nil {
		log.Fatalf("❌ Error al leer la configuración de canchas: %v", err)
	}
	if err := courtRepo.UpsertRange(context.Background(), courtCount); err != nil {
		log.Fatalf("❌ Error al crear las canchas: %v", err)
	}
	log.Printf("✓ Catálogo de canchas listo (%d canchas)", courtCount)

	// Alertas operativas por Slack
	slackService := services.NewSlackService(cfg.SlackWebhookURL)

	// Inicializar Firebase Cloud Messaging (opcional)
	var pushSender services.PushSender
	fcmService, err := services.NewFCMService(cfg.FirebaseCredentialsFile)
	if err != nil {
		log.Printf("⚠️  Error de inicialización de Firebase: %v", err)
		log.Println("⚠️  El servidor arranca SIN notificaciones push")
		pushSender = services.NewDisabledFCMService()
	} else {
		log.Println("✓ Firebase Cloud Messaging inicializado")
		pushSender = fcmService
	}

	// Canal Web Push legado (solo si hay claves VAPID configuradas)
	var webpushSender services.WebPushSender
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		webpushSender = services.NewWebPushService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubject)
		log.Println("✓ Canal Web Push (VAPID) habilitado")
	}

	// Despachador de notificaciones
	dispatcher := services.NewDispatcher(
		database.NewNotificationRepository(database.DB),
		database.NewSubscriptionRepository(database.DB),
		database.NewDeviceTokenRepository(database.DB),
		database.NewWebPushRepository(database.DB),
		pushSender,
		webpushSender,
		cfg.FCMBatchSize,
	)
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	defer stopDispatcher()
	go dispatcher.Run(dispatcherCtx)

	// Tareas de mantenimiento: barrido de pendientes, limpieza y estadísticas
	maintenanceCron := services.NewMaintenanceCron(database.DB, dispatcher)
	maintenanceCron.Start()
	defer maintenanceCron.Stop()

	// Crear el router
	router := mux.NewRouter()
	router.Use(middleware.Logging(slackService))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	// Crear los handlers
	healthHandler := handlers.NewHealthHandler(cfg.Environment)
	authHandler := handlers.NewAuthHandler(database.DB, cfg.JWTSecret)
	pagerHandler := handlers.NewPagerHandler(database.DB)
	courtHandler := handlers.NewCourtHandler(database.DB, cfg.DefaultCourts, cfg.MaxCourts)
	notificationHandler := handlers.NewNotificationHandler(database.DB, dispatcher, cfg.Environment)
	fcmHandler := handlers.NewFCMHandler(database.DB, cfg.FCMVAPIDKey)
	webpushHandler := handlers.NewWebPushHandler(database.DB, cfg.VAPIDPublicKey)
	statsHandler := handlers.NewStatsHandler(database.DB)

	// Middleware Guest para impedir un login con sesión ya iniciada
	guestMiddleware := middleware.Guest(cfg.JWTSecret)

	// Rutas públicas
	router.HandleFunc("/api/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/api/canchas", courtHandler.List).Methods("GET", "OPTIONS")

	// Suscripciones del pager
	router.HandleFunc("/api/pager/suscripciones", pagerHandler.Subscribe).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/pager/suscripciones", pagerHandler.Unsubscribe).Methods("DELETE")
	router.HandleFunc("/api/pager/suscripciones", pagerHandler.List).Methods("GET")

	// Registro de tokens FCM
	router.HandleFunc("/api/fcm/vapid-key", fcmHandler.VAPIDKey).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/fcm/registrar", fcmHandler.RegisterToken).Methods("POST", "OPTIONS")

	// Canal Web Push legado (VAPID)
	router.HandleFunc("/api/notifications/vapid-public-key", webpushHandler.VAPIDPublicKey).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/notifications/subscribe", webpushHandler.Subscribe).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/notifications/unsubscribe", webpushHandler.Unsubscribe).Methods("POST", "DELETE", "OPTIONS")

	// Login admin
	router.Handle("/api/admin/login", guestMiddleware(http.HandlerFunc(authHandler.Login))).Methods("POST", "OPTIONS")

	// Rutas protegidas
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.Auth(cfg.JWTSecret))

	protected.HandleFunc("/admin/config/canchas", courtHandler.SetCourtCount).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/admin/canchas/{number}", courtHandler.Toggle).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/admin/canchas/{number}/notificar", notificationHandler.Notify).Methods("POST", "OPTIONS")
	protected.HandleFunc("/admin/stats", statsHandler.Stats).Methods("GET", "OPTIONS")
	protected.HandleFunc("/admin/notificaciones", notificationHandler.List).Methods("GET", "OPTIONS")

	// Disparador de prueba (rechazado en producción)
	protected.HandleFunc("/test/notificar", notificationHandler.TestNotify).Methods("POST", "OPTIONS")

	// Arrancar el servidor
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 Servidor iniciado en http://%s", addr)
		log.Printf("📝 Entorno: %s", cfg.Environment)
		log.Println("📋 Rutas disponibles:")
		log.Println("   GET    /api/health                          - Health check")
		log.Println("   GET    /api/canchas                         - Catálogo de canchas (público)")
		log.Println("   POST   /api/pager/suscripciones             - Suscribirse a una cancha")
		log.Println("   DELETE /api/pager/suscripciones             - Desuscribirse")
		log.Println("   GET    /api/pager/suscripciones             - Suscripciones del dispositivo")
		log.Println("   GET    /api/fcm/vapid-key                   - Clave VAPID de Firebase")
		log.Println("   POST   /api/fcm/registrar                   - Registrar token FCM")
		log.Println("   GET    /api/notifications/vapid-public-key  - Clave pública Web Push")
		log.Println("   POST   /api/notifications/subscribe         - Abono Web Push (legado)")
		log.Println("   POST   /api/notifications/unsubscribe       - Baja Web Push (legado)")
		log.Println("   POST   /api/admin/login                     - Login admin")
		log.Println("")
		log.Println("   🔒 Rutas protegidas:")
		log.Println("   PUT    /api/admin/config/canchas            - Configurar cantidad de canchas")
		log.Println("   PUT    /api/admin/canchas/{n}               - Activar/desactivar cancha")
		log.Println("   POST   /api/admin/canchas/{n}/notificar     - Notificar cancha disponible")
		log.Println("   GET    /api/admin/stats                     - Estadísticas")
		log.Println("   GET    /api/admin/notificaciones            - Historial de notificaciones")
		log.Println("   POST   /api/test/notificar                  - Disparador de prueba (no producción)")
		log.Println("\n✨ El servidor está listo para recibir peticiones!")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Error del servidor: %v", err)
		}
	}()

	// Esperar la señal de corte
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n🛑 Apagando el servidor...")
	stopDispatcher()
	maintenanceCron.Stop()
	if err := server.Close(); err != nil {
		log.Printf("❌ Error al apagar el servidor: %v", err)
	}
	log.Println("✓ Servidor apagado correctamente")
}
