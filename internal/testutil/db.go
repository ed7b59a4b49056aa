package testutil

import (
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/GustavoCaso/bookcatalog/internal/config"
	"github.com/GustavoCaso/bookcatalog/internal/logger"
	"github.com/GustavoCaso/bookcatalog/internal/storage"
	"github.com/GustavoCaso/bookcatalog/internal/storage/sqlite"
)

const (
	TestUsername = "reader"
	TestPassword = "password123"
)

// SetupTestStorage returns a migrated storage backed by a file in a per test
// temporary directory, plus a user that can sign in with TestPassword.
func SetupTestStorage(t *testing.T, logger *logger.Logger) (storage.Storage, storage.User) {
	t.Helper()

	s, err := sqlite.New(config.DBConfig{Source: filepath.Join(t.TempDir(), "bookcatalog.db")})
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}

	if err = s.ApplyMigrations(t.Context(), logger); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	t.Cleanup(func() {
		if err = s.Close(); err != nil {
			t.Errorf("Failed to close test storage: %v", err)
		}
	})

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user, err := s.CreateUser(t.Context(), TestUsername, string(hashedPassword))
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return s, user
}

// SeedProducts inserts products and returns them as stored, in id order.
func SeedProducts(t *testing.T, s storage.Storage, products ...storage.Product) []storage.Product {
	t.Helper()

	if _, err := s.InsertProducts(t.Context(), products); err != nil {
		t.Fatalf("Failed to insert products: %v", err)
	}

	stored, err := s.GetProducts(t.Context())
	if err != nil {
		t.Fatalf("Failed to get products: %v", err)
	}

	return stored
}
