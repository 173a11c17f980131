package checkoutdto

type CreateOrderInput struct {
	Customer CustomerInput `json:"customer"`
	Items    []ItemInput   `json:"items"`
	Notes    string        `json:"notes"`
}

type CustomerInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Province   string `json:"province"`
}

// ItemInput prices are integer cents.
type ItemInput struct {
	ProductSlug    string `json:"product_slug"`
	ProductName    string `json:"product_name"`
	VariantID      string `json:"variant_id"`
	VariantName    string `json:"variant_name"`
	Size           string `json:"size"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}
