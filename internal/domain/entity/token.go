package entity

// CoinMetadata holds the details of a coin type as returned by suix_getCoinMetadata.
type CoinMetadata struct {
	ID          *string `json:"id"`
	Decimals    uint8   `json:"decimals"`
	Name        string  `json:"name"`
	Symbol      string  `json:"symbol"`
	Description string  `json:"description"`
	IconURL     *string `json:"iconUrl"`
}
