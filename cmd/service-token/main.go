package main

import (
	"flag"
	"fmt"
	"log"

	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"github.com/joho/godotenv"
)

// Mints a Bearer token for internal callers (vendor adapters, export
// workers). API_SECRET and TOKEN_HOUR_LIFESPAN come from the environment.
func main() {
	_ = godotenv.Load()

	service := flag.String("service", "", "calling service name (required)")
	businessId := flag.String("business", "", "optional business id to scope the token to")
	flag.Parse()
	if *service == "" {
		log.Fatal("usage: service-token -service <name> [-business <business-id>]")
	}

	token, err := utils.JwtGenerate(*service, *businessId)
	if err != nil {
		log.Fatalf("token generation failed: %v", err)
	}
	fmt.Println(token)
}
