package models

// Media is a creator's content item. Only the pricing attributes matter to the
// payment core; upload and rendering live elsewhere.
type Media struct {
	// ID is the unique identifier of the media item.
	ID string `json:"id" gorm:"column:id;primaryKey"`
	// CreatorID is the owning creator.
	CreatorID string `json:"creator_id" gorm:"column:creator_id;index"`
	// PriceUsdCents is the gated-access price. Nil means the item is not purchasable.
	PriceUsdCents *int64 `json:"price_usd_cents" gorm:"column:price_usd_cents"`
	// CreatedAt is the unix timestamp of upload.
	CreatedAt int64 `json:"created_at" gorm:"column:created_at"`
}

// Purchasable reports whether the media can be bought for gated access.
func (m *Media) Purchasable() bool {
	return m != nil && m.PriceUsdCents != nil && *m.PriceUsdCents > 0
}

// MediaPurchase is a permanent access grant for one user and one media item.
type MediaPurchase struct {
	// ID is the unique identifier of the purchase.
	ID string `json:"id" gorm:"column:id;primaryKey"`
	// UserID is the buyer.
	UserID string `json:"user_id" gorm:"column:user_id;index:idx_purchase_user_media,unique"`
	// MediaID is the purchased media item.
	MediaID string `json:"media_id" gorm:"column:media_id;index:idx_purchase_user_media,unique"`
	// OrderID is the confirming order for on-chain purchases, empty for wallet-funded ones.
	OrderID string `json:"order_id" gorm:"column:order_id"`
	// AmountLamports is what the buyer paid.
	AmountLamports int64 `json:"amount_lamports" gorm:"column:amount_lamports"`
	// CreatedAt is the unix timestamp of the grant.
	CreatedAt int64 `json:"created_at" gorm:"column:created_at"`
}

// Balance is a creator's accumulated earnings in USD cents, credited when
// orders paying that creator are confirmed.
type Balance struct {
	// UserID is the owning creator.
	UserID string `json:"user_id" gorm:"column:user_id;primaryKey"`
	// UsdCents is the running total, non-negative.
	UsdCents int64 `json:"usd_cents" gorm:"column:usd_cents"`
}
