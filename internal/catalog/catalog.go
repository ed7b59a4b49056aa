package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/GustavoCaso/bookcatalog/internal/storage"
)

// ErrEmptySearch is returned when the search parameter is present but empty.
var ErrEmptySearch = errors.New("please enter search criteria")

const none = "None"

// Direction is the sort order requested for the listing.
type Direction string

const (
	DirectionAsc  Direction = "asc"
	DirectionDesc Direction = "desc"
)

// Params holds the listing parameters taken from the request.
// All fields are pointers to distinguish "not set" from zero values.
type Params struct {
	SortField *string
	Direction *Direction
	Search    *string
}

// CurrentSorting returns the "{field}_{direction}" descriptor used by the
// listing page to remember the active sort. Missing values are rendered as
// "None".
func (p Params) CurrentSorting() string {
	field := none
	if p.SortField != nil {
		field = *p.SortField
	}

	direction := none
	if p.Direction != nil {
		direction = string(*p.Direction)
	}

	return fmt.Sprintf("%s_%s", field, direction)
}

// Result is the listing produced by Build.
type Result struct {
	Products       []storage.Product
	SearchTerm     *string
	CurrentSorting string
}

// Build sorts products by the requested field and then keeps the ones
// matching the search term. The input slice is never modified.
func Build(products []storage.Product, params Params) (Result, error) {
	if params.Search != nil && *params.Search == "" {
		return Result{}, ErrEmptySearch
	}

	result := slices.Clone(products)

	if params.SortField != nil {
		if compare, ok := sortKeys[*params.SortField]; ok {
			if params.Direction != nil && *params.Direction == DirectionDesc {
				compare = reverse(compare)
			}
			slices.SortStableFunc(result, compare)
		}
	}

	if params.Search != nil {
		result = search(result, *params.Search)
	}

	return Result{
		Products:       result,
		SearchTerm:     params.Search,
		CurrentSorting: params.CurrentSorting(),
	}, nil
}

// search keeps the products whose name or author contains term, ignoring case.
func search(products []storage.Product, term string) []storage.Product {
	term = strings.ToLower(term)

	matches := make([]storage.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name()), term) ||
			strings.Contains(strings.ToLower(p.Author()), term) {
			matches = append(matches, p)
		}
	}

	return matches
}
