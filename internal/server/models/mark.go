package models

import "fmt"

// MarkKind distinguishes the per-user recipe membership tables.
type MarkKind int

const (
	MarkFavorite MarkKind = iota + 1
	MarkCart
)

// Table returns the relation that stores marks of kind k.
func (k MarkKind) Table() string {
	switch k {
	case MarkFavorite:
		return "favorites"
	case MarkCart:
		return "shopping_carts"
	default:
		panic(fmt.Sprintf("unknown mark kind %d", int(k)))
	}
}

func (k MarkKind) String() string {
	switch k {
	case MarkFavorite:
		return "favorite"
	case MarkCart:
		return "cart"
	default:
		return fmt.Sprintf("MarkKind(%d)", int(k))
	}
}

func (k MarkKind) Valid() bool {
	return k == MarkFavorite || k == MarkCart
}
