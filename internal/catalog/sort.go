package catalog

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/GustavoCaso/bookcatalog/internal/storage"
)

type compareFunc func(a, b storage.Product) int

// sortKeys maps a sort field to its ordering. Only "name" is compared on a
// lower-cased projection; every other field uses its raw value.
var sortKeys = map[string]compareFunc{
	"id": func(a, b storage.Product) int {
		return cmp.Compare(a.ID(), b.ID())
	},
	"sku": func(a, b storage.Product) int {
		return strings.Compare(a.SKU(), b.SKU())
	},
	"name": func(a, b storage.Product) int {
		return strings.Compare(strings.ToLower(a.Name()), strings.ToLower(b.Name()))
	},
	"author": func(a, b storage.Product) int {
		return strings.Compare(a.Author(), b.Author())
	},
	"price": func(a, b storage.Product) int {
		return cmp.Compare(a.Price(), b.Price())
	},
	"rating": func(a, b storage.Product) int {
		return compareRating(a.Rating(), b.Rating())
	},
}

// compareRating orders unrated products first, the way SQLite orders NULLs.
func compareRating(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	return cmp.Compare(*a, *b)
}

func reverse(compare compareFunc) compareFunc {
	return func(a, b storage.Product) int {
		return compare(b, a)
	}
}

// SortFields returns the fields products can be sorted by, alphabetically.
func SortFields() []string {
	fields := maps.Keys(sortKeys)
	slices.Sort(fields)
	return fields
}
