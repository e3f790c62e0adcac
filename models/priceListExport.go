package models

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/catalog_backend/pricing"
	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"github.com/xuri/excelize/v2"
)

const priceListSheet = "Price List"

// BuildPriceListWorkbook computes a retail price for every active product
// under the tenant's default configuration and lays the results out as an
// XLSX workbook. Products with no usable quote get an empty price cell plus
// the engine's explanation, so merchandisers can see what needs fixing.
func BuildPriceListWorkbook(ctx context.Context, businessId string) (*excelize.File, error) {
	cfg, err := GetDefaultPricingConfiguration(ctx, businessId)
	if err != nil {
		return nil, err
	}
	engineCfg := cfg.EngineConfig()
	if err := engineCfg.Validate(); err != nil {
		return nil, err
	}

	products, err := GetActiveProducts(ctx, businessId)
	if err != nil {
		return nil, err
	}
	vendors, err := GetVendorMap(ctx, businessId)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(priceListSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"SKU", "Product", "Vendor", "Cost", "Retail Price", "Margin %", "Explanation"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(priceListSheet, cell, h); err != nil {
			return nil, err
		}
	}

	row := 2
	for _, p := range products {
		quotes, err := GetVendorQuotes(ctx, businessId, p.ID)
		if err != nil {
			return nil, err
		}
		engineQuotes := EngineQuotes(quotes, vendors)

		primary, ok := ChooseLowestCostQuote(engineQuotes)
		var result pricing.Result
		if ok {
			result = pricing.ComputeRetailPrice(engineCfg, primary, engineQuotes)
		} else {
			result = pricing.Result{Explanation: pricing.ExplanationNoPrice}
		}

		values := []any{p.Sku, p.Name, primary.VendorId, nil, nil, nil, result.Explanation}
		if cost := pricing.ParseCost(primary.Cost); cost.Valid {
			values[3], _ = cost.Decimal.Float64()
		}
		if result.Price.Valid {
			values[4], _ = result.Price.Decimal.Float64()
		}
		if result.MarginPercent.Valid {
			values[5], _ = result.MarginPercent.Decimal.Float64()
		}
		for i, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := f.SetCellValue(priceListSheet, cell, v); err != nil {
				return nil, err
			}
		}
		row++
	}

	return f, nil
}

// ExportPriceList builds the workbook and uploads it to the exports bucket,
// returning the object name.
func ExportPriceList(ctx context.Context, businessId string) (string, error) {
	f, err := BuildPriceListWorkbook(ctx, businessId)
	if err != nil {
		return "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("price-lists/%s/price-list-%s.xlsx",
		businessId, time.Now().UTC().Format("20060102-150405"))
	return utils.UploadExportToGCS(ctx, objectName,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
