// Package common contains shared constants and sentinel errors used across
// Foodgram components.
package common

const (
	// AuthorizationHeaderName carries the access token on inbound requests.
	AuthorizationHeaderName = "Authorization"

	// TokenSchemes lists the accepted prefixes of the Authorization header.
	TokenSchemeToken  = "Token"
	TokenSchemeBearer = "Bearer"

	// ShoppingListFileName is the attachment name of the exported shopping list.
	ShoppingListFileName = "shopping_list.txt"
)
