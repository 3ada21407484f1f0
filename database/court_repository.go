package database

import (
	"context"
	"fmt"
	"time"

	"ajupam-pager/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CourtRepository gestiona las operaciones sobre las canchas
type CourtRepository struct {
	collection *mongo.Collection
}

// NewCourtRepository crea una nueva instancia de CourtRepository
func NewCourtRepository(db *mongo.Database) *CourtRepository {
	return &CourtRepository{
		collection: db.Collection("courts"),
	}
}

// UpsertRange asegura que existan las canchas 1..n, en una sola escritura
// por lotes con semántica de merge: una cancha ya existente conserva su
// created_at y su estado activo, y las canchas por encima de n no se tocan
// (reducir la cantidad configurada nunca borra ni desactiva canchas).
// Las canchas nuevas nacen activas.
func (r *CourtRepository) UpsertRange(ctx context.Context, n int) error {
	if n < 1 {
		return fmt.Errorf("cantidad de canchas inválida: %d", n)
	}

	// Commit todo-o-nada del lote (escritura ordenada)
	_, err := r.collection.BulkWrite(ctx, courtRangeWrites(n, time.Now()), options.BulkWrite().SetOrdered(true))
	if err != nil {
		return fmt.Errorf("error al guardar las canchas: %w", err)
	}

	return nil
}

// courtRangeWrites arma el lote de merge para las canchas 1..n. El estado
// activo y el created_at van solo en $setOnInsert: un reinicio o un cambio
// de cantidad nunca reactiva una cancha que el admin desactivó. El lote
// nunca incluye escrituras por encima de n.
func courtRangeWrites(n int, now time.Time) []mongo.WriteModel {
	writes := make([]mongo.WriteModel, 0, n)
	for i := 1; i <= n; i++ {
		filter := bson.M{"number": i}
		update := bson.M{
			"$set": bson.M{
				"updated_at": now,
			},
			"$setOnInsert": bson.M{
				"number":     i,
				"active":     true,
				"created_at": now,
			},
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(filter).
			SetUpdate(update).
			SetUpsert(true))
	}
	return writes
}

// FindByNumber busca una cancha por su número
func (r *CourtRepository) FindByNumber(ctx context.Context, number int) (*models.Court, error) {
	var court models.Court
	err := r.collection.FindOne(ctx, bson.M{"number": number}).Decode(&court)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error al buscar la cancha: %w", err)
	}

	return &court, nil
}

// FindAll retorna todas las canchas ordenadas por número
func (r *CourtRepository) FindAll(ctx context.Context) ([]models.Court, error) {
	opts := options.Find().SetSort(bson.D{{Key: "number", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error al buscar las canchas: %w", err)
	}
	defer cursor.Close(ctx)

	var courts []models.Court
	if err = cursor.All(ctx, &courts); err != nil {
		return nil, fmt.Errorf("error al decodificar las canchas: %w", err)
	}

	return courts, nil
}

// SetActive activa o desactiva una cancha sin tocar sus suscripciones
func (r *CourtRepository) SetActive(ctx context.Context, number int, active bool) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"number": number},
		bson.M{"$set": bson.M{"active": active, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("error al actualizar la cancha: %w", err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CountActive retorna la cantidad de canchas activas
func (r *CourtRepository) CountActive(ctx context.Context) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"active": true})
	if err != nil {
		return 0, fmt.Errorf("error al contar las canchas activas: %w", err)
	}
	return int(count), nil
}
