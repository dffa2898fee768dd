// Package inventory holds the stock availability check shared by the cart
// endpoints and checkout, so the two can never disagree on what
// "in stock" means.
package inventory

import (
	"errors"
	"fmt"

	"github.com/theilkerm/pf-se-cs/models"
)

// ErrVariantNotFound is returned when the requested (type, value) pair does
// not match any variant of the product, e.g. after an admin removed it.
var ErrVariantNotFound = errors.New("product variant not found")

// InsufficientStockError reports how many units are actually available so
// clients can offer a corrected quantity.
type InsufficientStockError struct {
	ProductName string
	Variant     models.VariantKey
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q (%s: %s): only %d available",
		e.ProductName, e.Variant.Type, e.Variant.Value, e.Available)
}

// CheckAvailability decides whether requested more units of the given
// variant can be claimed on top of what the cart already reserves. It
// mutates nothing. Cart additions pass the existing line quantity as
// reserved; checkout passes 0 and the full line quantity as requested,
// because it claims the whole amount against live stock.
func CheckAvailability(product *models.Product, key models.VariantKey, reserved, requested int) error {
	variant := product.FindVariant(key)
	if variant == nil {
		return ErrVariantNotFound
	}
	if reserved+requested > variant.Stock {
		return &InsufficientStockError{
			ProductName: product.Name,
			Variant:     key,
			Available:   variant.Stock,
		}
	}
	return nil
}
