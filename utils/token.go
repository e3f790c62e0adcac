package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// ServiceClaim is the claim set carried by internal service tokens. Export
// and webhook workers call /internal/* endpoints with these; interactive user
// sessions use the Redis-backed session token instead.
type ServiceClaim struct {
	Service    string `json:"service"`
	BusinessId string `json:"business_id,omitempty"`
	jwt.StandardClaims
}

var jwtSecret = []byte(getJwtSecret())

func getJwtSecret() string {
	secret := os.Getenv("API_SECRET")
	if secret == "" {
		return "CatalogPricing-Secret"
	}
	return secret
}

// JwtGenerate mints a service token. businessId may be empty for tokens that
// act across tenants (platform ops tooling); tenant scoping then relies on
// the request payload's business_id plus admin context flags.
func JwtGenerate(service string, businessId string) (string, error) {
	tokenLifespan, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if err != nil {
		tokenLifespan = 24
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &ServiceClaim{
		Service:    service,
		BusinessId: businessId,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour * time.Duration(tokenLifespan)).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	})

	return t.SignedString(jwtSecret)
}

func JwtValidate(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &ServiceClaim{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("there's a problem with the signing method")
		}
		return jwtSecret, nil
	})
}
