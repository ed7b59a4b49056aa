package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/GustavoCaso/bookcatalog/internal/storage"
)

const (
	centsToDecimal = 100.0
	decimalPlaces  = 2
	ratingPlaces   = 1
	base10         = 10
)

// Header is the first row written by CSV.
var Header = []string{"ID", "SKU", "Name", "Author", "Price", "Rating", "ImageURL"}

// CSV writes products in the given order.
// format: ID,SKU,Name,Author,Price,Rating,ImageURL
func CSV(writer io.Writer, products []storage.Product) error {
	w := csv.NewWriter(writer)

	records := make([][]string, 0, len(products)+1)
	records = append(records, Header)

	for _, product := range products {
		records = append(records, productToCSVRecord(product))
	}

	// WriteAll flushes and reports any write error.
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV records: %w", err)
	}

	return nil
}

func productToCSVRecord(product storage.Product) []string {
	price := strconv.FormatFloat(float64(product.Price())/centsToDecimal, 'f', decimalPlaces, 64)

	rating := ""
	if product.Rating() != nil {
		rating = strconv.FormatFloat(*product.Rating(), 'f', ratingPlaces, 64)
	}

	return []string{
		strconv.FormatInt(product.ID(), base10),
		product.SKU(),
		product.Name(),
		product.Author(),
		price,
		rating,
		product.ImageURL(),
	}
}
