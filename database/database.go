package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DB es la instancia de conexión a la base de datos MongoDB
var DB *mongo.Database
var Client *mongo.Client

// Connect establece la conexión a la base de datos MongoDB
func Connect(uri, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Opciones de conexión
	clientOptions := options.Client().ApplyURI(uri)

	// Conexión a MongoDB
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("error al conectar a MongoDB: %w", err)
	}

	// Verificar la conexión
	if err = client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("error al hacer ping a MongoDB: %w", err)
	}

	Client = client
	DB = client.Database(dbName)

	log.Println("✓ Conexión a MongoDB establecida")

	// Crear los índices
	if err = createIndexes(); err != nil {
		return fmt.Errorf("error al crear los índices: %w", err)
	}

	return nil
}

// Ping verifica que la conexión MongoDB esté activa
func Ping() error {
	if Client == nil {
		return fmt.Errorf("cliente MongoDB no inicializado")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return Client.Ping(ctx, nil)
}

// Close cierra la conexión a la base de datos
func Close() error {
	if Client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return Client.Disconnect(ctx)
	}
	return nil
}

// createIndexes crea los índices necesarios
func createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Índice único sobre el email de los admins
	_, err := DB.Collection("admins").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("error al crear el índice de email: %w", err)
	}

	// Índice único sobre el número de cancha
	_, err = DB.Collection("courts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "number", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("error al crear el índice de canchas: %w", err)
	}

	// Índice compuesto único (court_number, device_id): una sola suscripción
	// por cancha y dispositivo, garantizado por el store
	_, err = DB.Collection("subscriptions").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "court_number", Value: 1}, {Key: "device_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// La poda de tokens inválidos borra por token, no por fila
			Keys: bson.D{{Key: "fcm_token", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("error al crear los índices de suscripciones: %w", err)
	}

	// Un token por dispositivo (el último conocido)
	_, err = DB.Collection("device_tokens").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "device_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("error al crear el índice de tokens: %w", err)
	}

	// Endpoint único para el canal Web Push
	_, err = DB.Collection("webpush_subscriptions").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "endpoint", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("error al crear el índice de webpush: %w", err)
	}

	// El barrido de intenciones pendientes consulta por estado
	_, err = DB.Collection("notifications").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "sent_at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("error al crear el índice de notificaciones: %w", err)
	}

	log.Println("✓ Índices MongoDB creados")
	return nil
}
