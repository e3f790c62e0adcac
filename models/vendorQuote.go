package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
	"bitbucket.org/mmdatafocus/catalog_backend/pricing"
	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"gorm.io/gorm"
)

// VendorQuote is the cached snapshot of one vendor's latest cost/MSRP/MAP for
// one product. Monetary fields stay exactly as the vendor adapter delivered
// them ("$24.67", "N/A", ""); normalization is the pricing engine's job, so a
// bad feed never breaks ingestion.
type VendorQuote struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"index;not null" json:"business_id" binding:"required"`
	ProductId  int       `gorm:"index;not null" json:"product_id" binding:"required"`
	VendorId   int       `gorm:"index;not null" json:"vendor_id" binding:"required"`
	Cost       string    `gorm:"size:50" json:"cost"`
	Msrp       string    `gorm:"size:50" json:"msrp"`
	Map        string    `gorm:"size:50" json:"map"`
	FetchedAt  time.Time `json:"fetched_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// GetVendorQuotes returns all quote snapshots for a product, cache-first.
func GetVendorQuotes(ctx context.Context, businessId string, productId int) ([]VendorQuote, error) {
	if !config.PricingCacheDisabled() {
		cached, err := utils.RetrieveRedisList[VendorQuote](businessId, productId)
		if err == nil && cached != nil {
			quotes := make([]VendorQuote, 0, len(cached))
			for _, q := range cached {
				quotes = append(quotes, *q)
			}
			return quotes, nil
		}
	}

	db := config.GetDB()
	var quotes []VendorQuote
	err := db.WithContext(ctx).
		Where("business_id = ? AND product_id = ?", businessId, productId).
		Order("vendor_id").
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}

	_ = utils.StoreRedisList[VendorQuote](&quotes, businessId, productId)
	return quotes, nil
}

// UpsertVendorQuote applies one quote-refresh event and invalidates the
// product's quote list cache.
func UpsertVendorQuote(ctx context.Context, msg config.QuoteRefreshMessage) error {
	db := config.GetDB()
	now := time.Now().UTC()

	var existing VendorQuote
	err := db.WithContext(ctx).
		Where("business_id = ? AND product_id = ? AND vendor_id = ?", msg.BusinessId, msg.ProductId, msg.VendorId).
		First(&existing).Error
	switch {
	case err == nil:
		err = db.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
			"cost":       msg.Cost,
			"msrp":       msg.Msrp,
			"map":        msg.Map,
			"fetched_at": now,
		}).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = db.WithContext(ctx).Create(&VendorQuote{
			BusinessId: msg.BusinessId,
			ProductId:  msg.ProductId,
			VendorId:   msg.VendorId,
			Cost:       msg.Cost,
			Msrp:       msg.Msrp,
			Map:        msg.Map,
			FetchedAt:  now,
		}).Error
	}
	if err != nil {
		return err
	}

	return utils.RemoveRedisList[VendorQuote](msg.BusinessId, msg.ProductId)
}

// EngineQuote converts the snapshot for the pricing engine, stamping the
// vendor's marketplace flag.
func (q VendorQuote) EngineQuote(vendors map[int]Vendor) pricing.Quote {
	v, ok := vendors[q.VendorId]
	return pricing.Quote{
		VendorId:             fmt.Sprint(q.VendorId),
		Cost:                 q.Cost,
		Msrp:                 q.Msrp,
		Map:                  q.Map,
		IsMarketplaceListing: ok && v.isMarketplaceListing(),
	}
}

// EngineQuotes converts a product's full snapshot set.
func EngineQuotes(quotes []VendorQuote, vendors map[int]Vendor) []pricing.Quote {
	out := make([]pricing.Quote, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, q.EngineQuote(vendors))
	}
	return out
}

// ChooseLowestCostQuote picks the default primary vendor for a product: the
// present cost with the lowest value. The order-creation UI can override by
// passing an explicit vendor id.
func ChooseLowestCostQuote(quotes []pricing.Quote) (pricing.Quote, bool) {
	var (
		best  pricing.Quote
		found bool
	)
	bestCost := pricing.ParseCost(nil)
	for _, q := range quotes {
		c := pricing.ParseCost(q.Cost)
		if !c.Valid {
			continue
		}
		if !found || c.Decimal.LessThan(bestCost.Decimal) {
			best, bestCost, found = q, c, true
		}
	}
	return best, found
}
