package pricing

// Quote is one vendor's offer for a product. Monetary fields carry whatever
// shape the vendor adapter produced (string, number, nil); ParseMoney owns
// normalization, so a Quote can be built straight from a JSON payload or a
// cached vendor response without pre-cleaning.
type Quote struct {
	VendorId string `json:"vendor_id"`
	Cost     any    `json:"cost"`
	Msrp     any    `json:"msrp"`
	Map      any    `json:"map"`

	// IsMarketplaceListing marks vendor integrations (auction/marketplace
	// types) where Cost is the live asking price rather than a wholesale
	// cost basis. Markup-style strategies must not inflate it.
	IsMarketplaceListing bool `json:"is_marketplace_listing"`
}
