package catalog

import (
	"fmt"
	"net/url"

	"github.com/gorilla/schema"
)

const (
	sortParam      = "sort"
	directionParam = "direction"
	searchParam    = "q"
)

type listingQuery struct {
	Sort      string `schema:"sort"`
	Direction string `schema:"direction"`
	Q         string `schema:"q"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// ParseParams maps the listing query string into Params. A key that is
// present with an empty value is kept as a non-nil empty string, so "q="
// is reported by Build as an empty search.
func ParseParams(values url.Values) (Params, error) {
	var query listingQuery
	if err := decoder.Decode(&query, values); err != nil {
		return Params{}, fmt.Errorf("invalid catalog query: %w", err)
	}

	params := Params{}

	if values.Has(sortParam) {
		params.SortField = &query.Sort
	}

	if values.Has(directionParam) {
		direction := Direction(query.Direction)
		params.Direction = &direction
	}

	if values.Has(searchParam) {
		params.Search = &query.Q
	}

	return params, nil
}

// Values is the inverse of ParseParams and is used to build listing links
// that keep the current state.
func (p Params) Values() url.Values {
	values := url.Values{}

	if p.SortField != nil {
		values.Set(sortParam, *p.SortField)
	}

	if p.Direction != nil {
		values.Set(directionParam, string(*p.Direction))
	}

	if p.Search != nil {
		values.Set(searchParam, *p.Search)
	}

	return values
}
