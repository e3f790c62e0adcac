package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
)

// Vendor is a distributor the tenant buys from. IsMarketplace marks
// integrations (auction/marketplace feeds) whose "cost" is a live asking
// price rather than a wholesale cost basis.
type Vendor struct {
	ID               int       `gorm:"primary_key" json:"id"`
	BusinessId       string    `gorm:"index;not null" json:"business_id" binding:"required"`
	Name             string    `gorm:"size:100;not null" json:"name" binding:"required"`
	IsMarketplace    *bool     `gorm:"not null;default:false" json:"is_marketplace"`
	IsActive         *bool     `gorm:"not null;default:true" json:"is_active"`
	ExternalSystemId string    `gorm:"index" json:"external_system_id"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// GetVendorMap returns the tenant's vendors keyed by id, for stamping the
// marketplace flag onto engine quotes.
func GetVendorMap(ctx context.Context, businessId string) (map[int]Vendor, error) {
	db := config.GetDB()
	var vendors []Vendor
	if err := db.WithContext(ctx).Where("business_id = ?", businessId).Find(&vendors).Error; err != nil {
		return nil, err
	}
	m := make(map[int]Vendor, len(vendors))
	for _, v := range vendors {
		m[v.ID] = v
	}
	return m, nil
}

func (v Vendor) isMarketplaceListing() bool {
	return v.IsMarketplace != nil && *v.IsMarketplace
}
