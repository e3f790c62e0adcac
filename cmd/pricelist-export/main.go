package main

import (
	"context"
	"flag"
	"log"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
	"bitbucket.org/mmdatafocus/catalog_backend/models"
	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"github.com/joho/godotenv"
)

// One-off price list export for a single tenant. Useful for support requests
// and for backfilling exports without going through the HTTP endpoint.
func main() {
	_ = godotenv.Load()

	businessId := flag.String("business", "", "business id to export (required)")
	flag.Parse()
	if *businessId == "" {
		log.Fatal("usage: pricelist-export -business <business-id>")
	}

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	ctx := utils.SetBusinessIdInContext(context.Background(), *businessId)
	objectName, err := models.ExportPriceList(ctx, *businessId)
	if err != nil {
		log.Fatalf("export failed for business %s: %v", *businessId, err)
	}
	log.Printf("exported price list for business %s to %s", *businessId, objectName)
}
