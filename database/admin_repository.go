package database

import (
	"context"
	"fmt"
	"time"

	"ajupam-pager/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdminRepository gestiona las cuentas de administrador
type AdminRepository struct {
	collection *mongo.Collection
}

// NewAdminRepository crea una nueva instancia de AdminRepository
func NewAdminRepository(db *mongo.Database) *AdminRepository {
	return &AdminRepository{
		collection: db.Collection("admins"),
	}
}

// FindByEmail busca un administrador por su email
func (r *AdminRepository) FindByEmail(email string) (*models.Admin, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var admin models.Admin
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&admin)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error al buscar el administrador: %w", err)
	}

	return &admin, nil
}

// Create crea una cuenta de administrador. El índice único sobre el email
// rechaza duplicados.
func (r *AdminRepository) Create(admin *models.Admin) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	admin.ID = primitive.NewObjectID()
	admin.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, admin)
	if err != nil {
		return fmt.Errorf("error al crear el administrador: %w", err)
	}

	return nil
}
