package products

import (
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"text/template"

	"github.com/GustavoCaso/bookcatalog/internal/catalog"
	"github.com/GustavoCaso/bookcatalog/internal/cli"
	"github.com/GustavoCaso/bookcatalog/internal/config"
	"github.com/GustavoCaso/bookcatalog/internal/export"
	"github.com/GustavoCaso/bookcatalog/internal/logger"
	"github.com/GustavoCaso/bookcatalog/internal/storage"
	"github.com/GustavoCaso/bookcatalog/internal/util"
)

//go:embed templates/*
var content embed.FS

type listing struct {
	Products       []storage.Product
	SearchTerm     string
	CurrentSorting string
}

type productsCommand struct {
	params catalog.Params
	csv    bool
	out    io.Writer
}

func NewCommand() cli.Command {
	return &productsCommand{out: os.Stdout}
}

func (c *productsCommand) Description() string {
	return "List the catalog in the terminal"
}

// SetFlags uses flag.Func so a flag given with an empty value is told apart
// from a missing one.
func (c *productsCommand) SetFlags(fs *flag.FlagSet) {
	fs.Func("sort", fmt.Sprintf("field to sort by (%v)", catalog.SortFields()), func(value string) error {
		c.params.SortField = &value
		return nil
	})
	fs.Func("direction", "sort direction (asc or desc)", func(value string) error {
		direction := catalog.Direction(value)
		c.params.Direction = &direction
		return nil
	})
	fs.Func("q", "search term matched against name and author", func(value string) error {
		c.params.Search = &value
		return nil
	})
	fs.BoolVar(&c.csv, "csv", false, "write the listing as CSV")
}

func (c *productsCommand) Run(_ *config.Config, s storage.Storage, logger *logger.Logger) error {
	products, err := s.GetProducts(context.Background())
	if err != nil {
		return fmt.Errorf("unable to get products: %w", err)
	}

	result, err := catalog.Build(products, c.params)
	if err != nil {
		if errors.Is(err, catalog.ErrEmptySearch) {
			fmt.Fprintln(c.out, util.ColorOutput("Please enter search criteria...", util.StyleError))
		}
		return err
	}

	logger.Debug("Listing products", "sorting", result.CurrentSorting, "count", len(result.Products))

	if c.csv {
		return export.CSV(c.out, result.Products)
	}

	data := listing{
		Products:       result.Products,
		CurrentSorting: result.CurrentSorting,
	}
	if result.SearchTerm != nil {
		data.SearchTerm = *result.SearchTerm
	}

	if err = renderTemplate(c.out, "products.tmpl", data); err != nil {
		return fmt.Errorf("unable to render products: %w", err)
	}

	return nil
}

var templateFuncs = template.FuncMap{
	"colorOutput":  util.ColorOutput,
	"formatPrice":  util.FormatPrice,
	"formatRating": util.FormatRating,
}

func renderTemplate(out io.Writer, templateName string, value any) error {
	tmpl, err := content.ReadFile(path.Join("templates", templateName))
	if err != nil {
		return err
	}

	t, err := template.New(templateName).Funcs(templateFuncs).Parse(string(tmpl))
	if err != nil {
		return err
	}

	return t.Execute(out, value)
}
