package models

import "time"

// CartLine is one ingredient link of a recipe in a user's shopping cart.
type CartLine struct {
	RecipeID        int64
	Name            string
	MeasurementUnit string
	Amount          int
}

// ShoppingItem is the aggregated amount of one (name, unit) group.
type ShoppingItem struct {
	Name            string
	MeasurementUnit string
	TotalAmount     int64
}

// CartRecipe is a recipe in the cart annotated with its author's username.
// AuthorUsername is empty when the author row could not be resolved.
type CartRecipe struct {
	ID             int64
	Name           string
	AuthorUsername string
}

// ShoppingList is everything the text document is rendered from.
type ShoppingList struct {
	Username    string
	GeneratedAt time.Time
	Items       []ShoppingItem
	Recipes     []CartRecipe
}
