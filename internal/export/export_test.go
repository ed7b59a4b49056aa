package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/GustavoCaso/bookcatalog/internal/storage"
)

func TestCSV(t *testing.T) {
	rating := 4.5
	products := []storage.Product{
		storage.NewProduct(2, "dune", "Dune", "Frank Herbert", "Desert planet.", 1099, &rating, "https://example.com/dune.jpg"),
		storage.NewProduct(1, "emma", "Emma, Revised", "Jane \"J\" Austen", "", 700, nil, ""),
	}

	var buf bytes.Buffer
	if err := CSV(&buf, products); err != nil {
		t.Fatalf("CSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV output: %v", err)
	}

	want := [][]string{
		Header,
		{"2", "dune", "Dune", "Frank Herbert", "10.99", "4.5", "https://example.com/dune.jpg"},
		{"1", "emma", "Emma, Revised", "Jane \"J\" Austen", "7.00", "", ""},
	}

	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := CSV(&buf, nil); err != nil {
		t.Fatalf("CSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV output: %v", err)
	}

	if diff := cmp.Diff([][]string{Header}, records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestCSVWriteError(t *testing.T) {
	products := []storage.Product{storage.NewProduct(1, "dune", "Dune", "Frank Herbert", "", 1099, nil, "")}

	if err := CSV(failingWriter{}, products); err == nil {
		t.Error("Expected error from failing writer")
	}
}
