package main

import (
	"flag"
	"log"

	"ajupam-pager/config"
	"ajupam-pager/database"
	"ajupam-pager/models"
	"ajupam-pager/utils"
)

// Herramienta de provisión: crea un admin con la contraseña hasheada.
// Uso: create-admin -email admin@ajupam.ar -password <contraseña>
func main() {
	email := flag.String("email", "", "Email del admin")
	password := flag.String("password", "", "Contraseña del admin")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("❌ Uso: create-admin -email <email> -password <contraseña>")
	}

	if err := utils.ValidateEmail(*email); err != nil {
		log.Fatalf("❌ %v", err)
	}
	if err := utils.ValidatePassword(*password); err != nil {
		log.Fatalf("❌ %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Error de configuración: %v", err)
	}

	if err := database.Connect(cfg.MongoURI, cfg.MongoDB); err != nil {
		log.Fatalf("❌ Error al conectar a MongoDB: %v", err)
	}
	defer database.Close()

	hash, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatalf("❌ Error al hashear la contraseña: %v", err)
	}

	repo := database.NewAdminRepository(database.DB)
	admin := &models.Admin{
		Email:    *email,
		Password: hash,
	}

	if err := repo.Create(admin); err != nil {
		log.Fatalf("❌ Error al crear el admin: %v", err)
	}

	log.Printf("✅ Admin %s creado", *email)
}
