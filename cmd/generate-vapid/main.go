package main

import (
	"fmt"
	"log"

	"ajupam-pager/utils"
)

func main() {
	log.Println("🔐 Generando claves VAPID...")

	publicKey, privateKey, err := utils.GenerateVAPIDKeys()
	if err != nil {
		log.Fatalf("❌ Error al generar las claves: %v", err)
	}

	fmt.Println("\n✅ Claves VAPID generadas con éxito!")
	fmt.Println("\nAgregá estas líneas a tu archivo .env:")
	fmt.Println()
	fmt.Println("VAPID_PUBLIC_KEY=" + publicKey)
	fmt.Println("VAPID_PRIVATE_KEY=" + privateKey)
	fmt.Println("VAPID_SUBJECT=mailto:contacto@ajupam.ar")
	fmt.Println("\n⚠️  Importante: NUNCA compartas tu clave privada!")
}
