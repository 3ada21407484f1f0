package utils

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

// GenerateVAPIDKeys genera un par de claves VAPID (pública y privada)
// para el canal Web Push
func GenerateVAPIDKeys() (publicKey, privateKey string, err error) {
	// Generar un par de claves ECDSA
	curve := elliptic.P256()
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("error al generar la clave: %w", err)
	}

	// Codificar la clave pública (X e Y)
	pubBytes := elliptic.Marshal(curve, key.PublicKey.X, key.PublicKey.Y)
	publicKey = base64.RawURLEncoding.EncodeToString(pubBytes)

	// Codificar la clave privada
	privBytes := key.D.Bytes()
	// Rellenar a 32 bytes si hace falta
	if len(privBytes) < 32 {
		padding := make([]byte, 32-len(privBytes))
		privBytes = append(padding, privBytes...)
	}
	privateKey = base64.RawURLEncoding.EncodeToString(privBytes)

	return publicKey, privateKey, nil
}

// DecodeVAPIDPrivateKey decodifica una clave privada VAPID desde base64
func DecodeVAPIDPrivateKey(privateKey string) (*ecdsa.PrivateKey, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(privateKey)
	if err != nil {
		return nil, fmt.Errorf("error al decodificar la clave privada: %w", err)
	}

	curve := elliptic.P256()
	d := new(big.Int).SetBytes(decoded)

	priv := &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{
			Curve: curve,
		},
		D: d,
	}

	priv.PublicKey.X, priv.PublicKey.Y = curve.ScalarBaseMult(decoded)

	return priv, nil
}
