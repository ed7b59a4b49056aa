package storage

import (
	"context"
	"time"

	"github.com/GustavoCaso/bookcatalog/internal/logger"
)

type NotFoundError struct{}

func (e *NotFoundError) Error() string {
	return "record not found"
}

type Product interface {
	ID() int64
	SKU() string
	Name() string
	Author() string
	Description() string
	// Price in cents.
	Price() int64
	Rating() *float64
	ImageURL() string
}

type product struct {
	id          int64
	sku         string
	name        string
	author      string
	description string
	price       int64
	rating      *float64
	imageURL    string
}

func NewProduct(
	id int64,
	sku, name, author, description string,
	price int64,
	rating *float64,
	imageURL string,
) Product {
	return &product{
		id:          id,
		sku:         sku,
		name:        name,
		author:      author,
		description: description,
		price:       price,
		rating:      rating,
		imageURL:    imageURL,
	}
}

func (p *product) ID() int64 {
	return p.id
}

func (p *product) SKU() string {
	return p.sku
}

func (p *product) Name() string {
	return p.name
}

func (p *product) Author() string {
	return p.author
}

func (p *product) Description() string {
	return p.description
}

func (p *product) Price() int64 {
	return p.price
}

func (p *product) Rating() *float64 {
	return p.rating
}

func (p *product) ImageURL() string {
	return p.imageURL
}

type Storage interface {
	// Migrations
	ApplyMigrations(ctx context.Context, logger *logger.Logger) error

	// Products
	GetProducts(ctx context.Context) ([]Product, error)
	GetProductByID(ctx context.Context, id int64) (Product, error)
	InsertProducts(ctx context.Context, products []Product) (int64, error)
	DeleteProducts(ctx context.Context) (int64, error)

	// Users
	CreateUser(ctx context.Context, username, passwordHash string) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	UpdateUsername(ctx context.Context, userID int64, newUsername string) error
	UpdatePassword(ctx context.Context, userID int64, newPasswordHash string) error

	// Sessions
	CreateSession(ctx context.Context, userID int64, sessionID string, expiresAt time.Time) (Session, error)
	GetSession(ctx context.Context, sessionID string) (Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteExpiredSessions(ctx context.Context) error

	// Profiles
	GetProfile(ctx context.Context, userID int64) (Profile, error)
	UpdateProfile(ctx context.Context, profile Profile) error

	// Resource managment
	Close() error
}
