package seed

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/GustavoCaso/bookcatalog/internal/cli"
	"github.com/GustavoCaso/bookcatalog/internal/config"
	"github.com/GustavoCaso/bookcatalog/internal/logger"
	"github.com/GustavoCaso/bookcatalog/internal/storage"
)

type fixtureFile struct {
	Products []fixture `yaml:"products"`
}

type fixture struct {
	SKU         string   `yaml:"sku"`
	Name        string   `yaml:"name"`
	Author      string   `yaml:"author"`
	Description string   `yaml:"description"`
	Price       string   `yaml:"price"`
	Rating      *float64 `yaml:"rating"`
	ImageURL    string   `yaml:"image_url"`
}

type seedCommand struct {
	file    string
	replace bool
	out     io.Writer
}

func NewCommand() cli.Command {
	return &seedCommand{out: os.Stdout}
}

func (c *seedCommand) Description() string {
	return "Load product fixtures from a YAML file"
}

func (c *seedCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.file, "f", "", "YAML file with the products to load")
	fs.BoolVar(&c.replace, "replace", false, "delete existing products before loading")
}

func (c *seedCommand) Run(_ *config.Config, s storage.Storage, logger *logger.Logger) error {
	if c.file == "" {
		return errors.New("you must provide a fixtures file")
	}

	file, err := os.Open(c.file)
	if err != nil {
		return err
	}
	defer file.Close()

	products, err := parseFixtures(file)
	if err != nil {
		return fmt.Errorf("unable to parse fixtures %s: %w", c.file, err)
	}

	ctx := context.Background()

	if c.replace {
		deleted, deleteErr := s.DeleteProducts(ctx)
		if deleteErr != nil {
			return fmt.Errorf("unable to delete existing products: %w", deleteErr)
		}
		logger.Info("Deleted existing products", "count", deleted)
	}

	inserted, err := s.InsertProducts(ctx, products)
	if err != nil {
		return fmt.Errorf("unable to insert products: %w", err)
	}

	logger.Info("Seeded products", "file", c.file, "count", inserted)
	fmt.Fprintf(c.out, "Total products seeded: %d\n", inserted)

	return nil
}

func parseFixtures(r io.Reader) ([]storage.Product, error) {
	var file fixtureFile

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return []storage.Product{}, nil
		}
		return nil, err
	}

	products := make([]storage.Product, 0, len(file.Products))
	for i, f := range file.Products {
		product, err := f.toProduct()
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i+1, err)
		}
		products = append(products, product)
	}

	return products, nil
}

func (f fixture) toProduct() (storage.Product, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return nil, errors.New("name is required")
	}

	price, err := parsePrice(f.Price)
	if err != nil {
		return nil, err
	}

	if f.Rating != nil && (*f.Rating < 0 || *f.Rating > 5) {
		return nil, fmt.Errorf("rating %.2f is outside 0-5", *f.Rating)
	}

	sku := strings.TrimSpace(f.SKU)
	if sku == "" {
		sku = uuid.NewString()
	}

	return storage.NewProduct(0, sku, name, strings.TrimSpace(f.Author), f.Description, price, f.Rating, f.ImageURL), nil
}

// parsePrice converts a decimal price such as "12.99" into cents. Signs are
// rejected, prices are never negative.
func parsePrice(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("price is required")
	}

	if strings.ContainsAny(value, "+-") {
		return 0, fmt.Errorf("invalid price %q", value)
	}

	amount, err := decimal.NewFromString(value)
	if err != nil || amount.IsNegative() {
		return 0, fmt.Errorf("invalid price %q", value)
	}

	if amount.Exponent() < -2 {
		return 0, fmt.Errorf("price %q has more than two decimals", value)
	}

	return amount.Shift(2).IntPart(), nil
}
