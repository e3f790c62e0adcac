package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
)

type Product struct {
	ID               int       `gorm:"primary_key" json:"id"`
	BusinessId       string    `gorm:"index;not null" json:"business_id" binding:"required"`
	Name             string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Sku              string    `gorm:"index;size:100;not null" json:"sku" binding:"required"`
	Barcode          string    `gorm:"index;size:100" json:"barcode"`
	IsActive         *bool     `gorm:"not null;default:true" json:"is_active"`
	ExternalSystemId string    `gorm:"index" json:"external_system_id"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetActiveProducts(ctx context.Context, businessId string) ([]Product, error) {
	db := config.GetDB()
	var products []Product
	err := db.WithContext(ctx).
		Where("business_id = ? AND is_active = ?", businessId, true).
		Order("sku").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
