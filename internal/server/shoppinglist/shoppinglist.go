// Package shoppinglist aggregates the ingredient links of a user's cart
// recipes and renders them as a plain-text document.
package shoppinglist

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/foodgram/internal/server/models"
)

// TimestampLayout is DD-MM-YYYY HH:MM:SS.
const TimestampLayout = "02-01-2006 15:04:05"

const FallbackText = "The shopping list could not be generated. Please try again later.\n"

type groupKey struct {
	name string
	unit string
}

// Aggregate sums amounts per (name, unit) and orders the groups by name,
// then unit. Units never merge: "salt (g)" and "salt (kg)" stay apart.
func Aggregate(lines []models.CartLine) []models.ShoppingItem {
	totals := make(map[groupKey]int64, len(lines))
	for _, l := range lines {
		totals[groupKey{l.Name, l.MeasurementUnit}] += int64(l.Amount)
	}

	items := make([]models.ShoppingItem, 0, len(totals))
	for k, total := range totals {
		items = append(items, models.ShoppingItem{Name: k.name, MeasurementUnit: k.unit, TotalAmount: total})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].MeasurementUnit < items[j].MeasurementUnit
	})

	return items
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// Render writes the document for list to w. Missing usernames are rendered
// as placeholders rather than failing.
func Render(w io.Writer, list models.ShoppingList) error {
	bw := bufio.NewWriter(w)

	owner := list.Username
	if owner == "" {
		owner = "unknown user"
	}
	fmt.Fprintf(bw, "Shopping list for %s\n", owner)
	fmt.Fprintf(bw, "Compiled: %s\n\n", list.GeneratedAt.Format(TimestampLayout))

	fmt.Fprintln(bw, "Products:")
	for i, it := range list.Items {
		fmt.Fprintf(bw, "%d. %s (%s) - %d\n", i+1, Capitalize(it.Name), it.MeasurementUnit, it.TotalAmount)
	}

	fmt.Fprintln(bw, "\nRecipes using these products:")
	for _, r := range list.Recipes {
		if r.AuthorUsername == "" {
			fmt.Fprintf(bw, "- %s (author unknown)\n", r.Name)
			continue
		}
		fmt.Fprintf(bw, "- %s (@%s)\n", r.Name, r.AuthorUsername)
	}

	return bw.Flush()
}
