package menu

import (
	"errors"
	"fmt"
)

// Size is the variant a dish is ordered in. Exactly one size applies per
// line; combinations (familj + glutenfri) are not a thing.
type Size string

const (
	SizeStandard   Size = "standard"
	SizeFamily     Size = "familj"
	SizeChild      Size = "barn"
	SizeGlutenFree Size = "glutenfri"
	SizeDouble     Size = "dubbel"
)

// Price adjustments in kronor relative to the standard price.
const (
	familySurcharge     = 150 // only when the dish has no family price of its own
	childDiscount       = 10
	glutenFreeSurcharge = 25
	doubleSurcharge     = 10
)

var ErrUnknownSize = errors.New("unknown size")

// UnitPrice returns the price of one unit of item in the given size.
func UnitPrice(item Item, size Size) (int, error) {
	switch size {
	case SizeStandard:
		return item.Price, nil
	case SizeFamily:
		if item.FamilyPrice > 0 {
			return item.FamilyPrice, nil
		}
		return item.Price + familySurcharge, nil
	case SizeChild:
		return item.Price - childDiscount, nil
	case SizeGlutenFree:
		return item.Price + glutenFreeSurcharge, nil
	case SizeDouble:
		return item.Price + doubleSurcharge, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSize, size)
}

// LineTotal returns unit price times quantity. Quantity must be positive.
func LineTotal(item Item, size Size, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	unit, err := UnitPrice(item, size)
	if err != nil {
		return 0, err
	}
	return unit * quantity, nil
}
