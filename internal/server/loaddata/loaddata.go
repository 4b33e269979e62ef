// Package loaddata seeds the ingredient catalog from a JSON file of
// {"name", "measurement_unit"} objects.
package loaddata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/foodgram/internal/server/models"
)

// DefaultPath is used when no file is given on the command line.
const DefaultPath = "data/ingredients.json"

type Importer interface {
	Import(ctx context.Context, items []models.Ingredient) (int, error)
}

// Decode reads the ingredient list from r.
func Decode(r io.Reader) ([]models.Ingredient, error) {
	var items []models.Ingredient
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("malformed ingredient file: %w", err)
	}
	return items, nil
}

// Run imports the file at path and returns the number of inserted rows.
// Entries already present in the catalog are skipped.
func Run(ctx context.Context, path string, imp Importer) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	items, err := Decode(f)
	if err != nil {
		return 0, err
	}

	n, err := imp.Import(ctx, items)
	if err != nil {
		return 0, fmt.Errorf("import error: %w", err)
	}
	return n, nil
}
