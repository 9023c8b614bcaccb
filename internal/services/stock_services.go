package services

import "github.com/DhanaNugraha/ruparawi-backend/internal/model"

// Stock rejection reasons surfaced in the checkout "issue" field.
const (
	ReasonNotEnoughStock  = "Not enough stock"
	ReasonProductInactive = "Product is inactive"
)

// VerifyStock reports whether the product can satisfy the requested quantity.
// Stock is checked before the active flag; when both fail the caller sees the
// stock reason.
func VerifyStock(p *model.Product, quantity int) (string, bool) {
	if p.StockQuantity < quantity {
		return ReasonNotEnoughStock, false
	}
	if !p.IsActive {
		return ReasonProductInactive, false
	}
	return "", true
}
