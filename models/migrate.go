package models

import (
	"bitbucket.org/mmdatafocus/catalog_backend/config"
	"bitbucket.org/mmdatafocus/catalog_backend/utils"
)

func MigrateTable() {
	db := config.GetDB()
	err := db.AutoMigrate(
		&Product{},
		&Vendor{},
		&VendorQuote{},
		&PricingConfiguration{},
	)
	utils.ErrorPanic(err)
}
