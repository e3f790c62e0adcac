package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
	"bitbucket.org/mmdatafocus/catalog_backend/pricing"
	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PricingConfiguration is a tenant's stored pricing rule set. The admin
// screens own create/edit; this side only reads. Exactly one row per
// business carries is_default = true, enforced at write time by the admin
// flow, not by the engine.
type PricingConfiguration struct {
	ID                       int                      `gorm:"primary_key" json:"id"`
	BusinessId               string                   `gorm:"index;not null" json:"business_id" binding:"required"`
	Name                     string                   `gorm:"size:100;not null" json:"name" binding:"required"`
	Strategy                 pricing.Strategy         `gorm:"size:30;not null" json:"strategy" binding:"required"`
	MarkupPercentage         decimal.NullDecimal      `gorm:"type:decimal(20,4)" json:"markup_percentage"`
	TargetMarginPercentage   decimal.NullDecimal      `gorm:"type:decimal(20,4)" json:"target_margin_percentage"`
	PremiumAmount            decimal.NullDecimal      `gorm:"type:decimal(20,4)" json:"premium_amount"`
	DiscountPercentage       decimal.NullDecimal      `gorm:"type:decimal(20,4)" json:"discount_percentage"`
	FallbackStrategy         pricing.FallbackStrategy `gorm:"size:30;not null;default:none" json:"fallback_strategy"`
	FallbackMarkupPercentage decimal.NullDecimal      `gorm:"type:decimal(20,4)" json:"fallback_markup_percentage"`
	RoundingRule             pricing.RoundingRule     `gorm:"size:20;not null;default:none" json:"rounding_rule"`
	UseCrossVendorFallback   *bool                    `gorm:"not null;default:false" json:"use_cross_vendor_fallback"`
	IsDefault                *bool                    `gorm:"index;not null;default:false" json:"is_default"`
	CreatedAt                time.Time                `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                time.Time                `gorm:"autoUpdateTime" json:"updated_at"`
}

// EngineConfig converts the stored row into the engine's immutable value.
// The platform-wide kill switch overrides the tenant's cross-vendor opt-in.
func (c *PricingConfiguration) EngineConfig() pricing.Config {
	crossVendor := c.UseCrossVendorFallback != nil && *c.UseCrossVendorFallback
	if config.CrossVendorFallbackKillSwitch() {
		crossVendor = false
	}
	return pricing.Config{
		Strategy:                 c.Strategy,
		MarkupPercentage:         c.MarkupPercentage,
		TargetMarginPercentage:   c.TargetMarginPercentage,
		PremiumAmount:            c.PremiumAmount,
		DiscountPercentage:       c.DiscountPercentage,
		FallbackStrategy:         c.FallbackStrategy,
		FallbackMarkupPercentage: c.FallbackMarkupPercentage,
		RoundingRule:             c.RoundingRule,
		UseCrossVendorFallback:   crossVendor,
	}
}

func defaultConfigCacheKey(businessId string) string {
	return "PricingConfigurationDefault:" + businessId
}

// GetDefaultPricingConfiguration returns the tenant's is_default row,
// cache-first.
func GetDefaultPricingConfiguration(ctx context.Context, businessId string) (*PricingConfiguration, error) {
	var cached *PricingConfiguration
	exists, err := config.GetRedisObject(defaultConfigCacheKey(businessId), &cached)
	if err == nil && exists && cached != nil {
		return cached, nil
	}

	db := config.GetDB()
	var cfg PricingConfiguration
	err = db.WithContext(ctx).
		Where("business_id = ? AND is_default = ?", businessId, true).
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}

	_ = config.SetRedisObject(defaultConfigCacheKey(businessId), &cfg, 0)
	return &cfg, nil
}

// GetPricingConfiguration returns one configuration by id, cache-first.
func GetPricingConfiguration(ctx context.Context, businessId string, id int) (*PricingConfiguration, error) {
	cached, err := utils.RetrieveRedis[PricingConfiguration](businessId, id)
	if err == nil && cached != nil {
		return cached, nil
	}

	db := config.GetDB()
	var cfg PricingConfiguration
	err = db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessId, id).
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}

	_ = utils.StoreRedis[PricingConfiguration](&cfg, businessId, id)
	return &cfg, nil
}

// ClearPricingConfigurationCache drops the cached rows after the admin flow
// edits a configuration.
func ClearPricingConfigurationCache(businessId string, id int) error {
	if err := utils.RemoveRedis[PricingConfiguration](businessId, id); err != nil {
		return err
	}
	return config.RemoveRedisKey(defaultConfigCacheKey(businessId))
}
