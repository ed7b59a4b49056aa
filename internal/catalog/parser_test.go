package catalog

import (
	"net/url"
	"testing"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		wantSort      *string
		wantDirection *Direction
		wantSearch    *string
		wantSorting   string
	}{
		{
			name:        "no parameters",
			query:       "",
			wantSorting: "None_None",
		},
		{
			name:          "sort and direction",
			query:         "sort=price&direction=desc",
			wantSort:      ptr("price"),
			wantDirection: ptr(DirectionDesc),
			wantSorting:   "price_desc",
		},
		{
			name:        "sort without direction",
			query:       "sort=name",
			wantSort:    ptr("name"),
			wantSorting: "name_None",
		},
		{
			name:          "direction without sort",
			query:         "direction=asc",
			wantDirection: ptr(DirectionAsc),
			wantSorting:   "None_asc",
		},
		{
			name:        "search term",
			query:       "q=Kennedy",
			wantSearch:  ptr("Kennedy"),
			wantSorting: "None_None",
		},
		{
			name:        "empty search term is present",
			query:       "q=",
			wantSearch:  ptr(""),
			wantSorting: "None_None",
		},
		{
			name:        "whitespace search term",
			query:       "q=+",
			wantSearch:  ptr(" "),
			wantSorting: "None_None",
		},
		{
			name:        "empty sort is present",
			query:       "sort=",
			wantSort:    ptr(""),
			wantSorting: "_None",
		},
		{
			name:        "unknown keys are ignored",
			query:       "page=2&category=fiction",
			wantSorting: "None_None",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("Failed to parse query: %v", err)
			}

			params, err := ParseParams(values)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			assertOptional(t, "sort", tt.wantSort, params.SortField)
			assertOptional(t, "search", tt.wantSearch, params.Search)
			assertOptional(t, "direction", tt.wantDirection, params.Direction)

			if got := params.CurrentSorting(); got != tt.wantSorting {
				t.Errorf("Expected sorting %q, got %q", tt.wantSorting, got)
			}
		})
	}
}

func assertOptional[T comparable](t *testing.T, name string, want, got *T) {
	t.Helper()

	switch {
	case want == nil && got == nil:
	case want == nil:
		t.Errorf("Expected %s to be unset, got %v", name, *got)
	case got == nil:
		t.Errorf("Expected %s %v, got unset", name, *want)
	case *want != *got:
		t.Errorf("Expected %s %v, got %v", name, *want, *got)
	}
}

func TestParamsValuesRoundTrip(t *testing.T) {
	params := Params{
		SortField: ptr("rating"),
		Direction: ptr(DirectionDesc),
		Search:    ptr("tolkien"),
	}

	parsed, err := ParseParams(params.Values())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if parsed.CurrentSorting() != "rating_desc" {
		t.Errorf("Expected sorting 'rating_desc', got %q", parsed.CurrentSorting())
	}

	if parsed.Search == nil || *parsed.Search != "tolkien" {
		t.Errorf("Expected search 'tolkien', got %v", parsed.Search)
	}

	if encoded := (Params{}).Values().Encode(); encoded != "" {
		t.Errorf("Expected empty encoding, got %q", encoded)
	}
}
