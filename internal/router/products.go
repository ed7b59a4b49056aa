package router

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/GustavoCaso/bookcatalog/internal/catalog"
	"github.com/GustavoCaso/bookcatalog/internal/export"
	"github.com/GustavoCaso/bookcatalog/internal/storage"
)

const emptySearchMessage = "Please enter search criteria..."

type sortOption struct {
	Label  string
	URL    string
	Active bool
}

var sortChoices = []struct {
	field     string
	direction catalog.Direction
	label     string
}{
	{field: "price", direction: catalog.DirectionAsc, label: "Price (low to high)"},
	{field: "price", direction: catalog.DirectionDesc, label: "Price (high to low)"},
	{field: "rating", direction: catalog.DirectionAsc, label: "Rating (low to high)"},
	{field: "rating", direction: catalog.DirectionDesc, label: "Rating (high to low)"},
	{field: "name", direction: catalog.DirectionAsc, label: "Name (A-Z)"},
	{field: "name", direction: catalog.DirectionDesc, label: "Name (Z-A)"},
	{field: "author", direction: catalog.DirectionAsc, label: "Author (A-Z)"},
	{field: "author", direction: catalog.DirectionDesc, label: "Author (Z-A)"},
}

type productsViewData struct {
	viewBase
	Products       []storage.Product
	HasSearch      bool
	CurrentSorting string
	SortOptions    []sortOption
	ResetSortURL   string
	ExportURL      string
}

type productDetailViewData struct {
	viewBase
	Product storage.Product
}

type productsHandler struct {
	router *router
}

func (p *productsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /products", p.listProducts)
	mux.HandleFunc("GET /products/{id}", p.productDetail)
	mux.HandleFunc("GET /products/export.csv", p.exportProducts)
}

// buildListing runs the catalog query for the request. It writes the response
// itself and returns false when the request cannot be served.
func (p *productsHandler) buildListing(w http.ResponseWriter, r *http.Request) (catalog.Params, catalog.Result, bool) {
	params, err := catalog.ParseParams(r.URL.Query())
	if err != nil {
		p.router.logger.Warn("Invalid catalog query", "error", err, "query", r.URL.RawQuery)
		params = catalog.Params{}
	}

	products, err := p.router.storage.GetProducts(r.Context())
	if err != nil {
		p.router.logger.Error("Failed to get products", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return params, catalog.Result{}, false
	}

	result, err := catalog.Build(products, params)
	if errors.Is(err, catalog.ErrEmptySearch) {
		catalogEmptySearches.Inc()
		setFlash(w, emptySearchMessage)
		http.Redirect(w, r, "/products", http.StatusSeeOther)
		return params, result, false
	}
	if err != nil {
		p.router.logger.Error("Failed to build catalog", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return params, result, false
	}

	if result.SearchTerm != nil {
		catalogSearches.Inc()
	}

	return params, result, true
}

func (p *productsHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	params, result, ok := p.buildListing(w, r)
	if !ok {
		return
	}

	data := productsViewData{
		viewBase:       p.router.newViewBase(w, r, pageProducts),
		Products:       result.Products,
		HasSearch:      result.SearchTerm != nil,
		CurrentSorting: result.CurrentSorting,
		SortOptions:    sortOptions(params, result.CurrentSorting),
		ResetSortURL:   listingURL(catalog.Params{Search: params.Search}),
		ExportURL:      exportURL(params),
	}

	if result.SearchTerm != nil {
		data.SearchTerm = *result.SearchTerm
	}

	p.router.render(w, "pages/products/index.html", data)
}

func (p *productsHandler) exportProducts(w http.ResponseWriter, r *http.Request) {
	_, result, ok := p.buildListing(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="products.csv"`)

	if err := export.CSV(w, result.Products); err != nil {
		p.router.logger.Error("Failed to export products", "error", err)
	}
}

func (p *productsHandler) productDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		p.notFound(w, r)
		return
	}

	product, err := p.router.storage.GetProductByID(r.Context(), id)
	if err != nil {
		var notFoundErr *storage.NotFoundError
		if errors.As(err, &notFoundErr) {
			p.notFound(w, r)
			return
		}

		p.router.logger.Error("Failed to get product", "error", err, "product_id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.router.render(w, "pages/products/detail.html", productDetailViewData{
		viewBase: p.router.newViewBase(w, r, pageProducts),
		Product:  product,
	})
}

func (p *productsHandler) notFound(w http.ResponseWriter, r *http.Request) {
	p.router.renderStatus(w, http.StatusNotFound, "pages/errors/not_found.html", p.router.newViewBase(w, r, pageProducts))
}

// sortOptions builds the sort links, keeping the current search term.
func sortOptions(params catalog.Params, currentSorting string) []sortOption {
	options := make([]sortOption, 0, len(sortChoices))

	for _, choice := range sortChoices {
		field := choice.field
		direction := choice.direction
		choiceParams := catalog.Params{
			SortField: &field,
			Direction: &direction,
			Search:    params.Search,
		}

		options = append(options, sortOption{
			Label:  choice.label,
			URL:    listingURL(choiceParams),
			Active: choiceParams.CurrentSorting() == currentSorting,
		})
	}

	return options
}

func listingURL(params catalog.Params) string {
	return withQuery("/products", params)
}

func exportURL(params catalog.Params) string {
	return withQuery("/products/export.csv", params)
}

func withQuery(path string, params catalog.Params) string {
	query := params.Values().Encode()
	if query == "" {
		return path
	}
	return path + "?" + query
}
