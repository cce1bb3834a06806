package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más la identidad del operario.
// Roles y StoragePointIDs permiten autorizar sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID          string   `json:"user_id"`
	Roles           []string `json:"roles"`             // "admin" | "bodeguero" | "vendedor"
	StoragePointIDs []string `json:"storage_point_ids"` // puntos de almacenamiento asignados
	Language        string   `json:"language,omitempty"`
}

// Identity datos del principal transportados en el token.
type Identity struct {
	UserID          string
	Roles           []string
	StoragePointIDs []string
	Language        string
}

// Generate genera un token JWT firmado con la identidad indicada.
func Generate(secret, issuer string, expMinutes int, id Identity) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	if id.UserID == "" {
		return "", fmt.Errorf("jwt: user_id vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:          id.UserID,
		Roles:           id.Roles,
		StoragePointIDs: id.StoragePointIDs,
		Language:        id.Language,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve la identidad.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (Identity, error) {
	if secret == "" {
		return Identity{}, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return Identity{}, fmt.Errorf("claims inválidos")
	}
	return Identity{
		UserID:          claims.UserID,
		Roles:           claims.Roles,
		StoragePointIDs: claims.StoragePointIDs,
		Language:        claims.Language,
	}, nil
}
