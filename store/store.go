package store

import (
	"context"
	"errors"

	"github.com/skumar93/folio/models"
)

type FolioStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	GetPortfolio(ctx context.Context, ownerId string) (models.PortfolioDocument, error)
	PutPortfolio(ctx context.Context, ownerId string, doc models.PortfolioDocument) error
	// PutPortfolioSections writes only the named top-level attributes of the
	// document, leaving everything else in place (per-section save).
	PutPortfolioSections(ctx context.Context, ownerId string, doc models.PortfolioDocument, fields []string) error
	// FindPortfolioBySlug resolves a published slug to its document. First
	// match wins when the index ever holds more than one.
	FindPortfolioBySlug(ctx context.Context, slug string) (models.PublishedPortfolio, error)

	GetAccountTier(ctx context.Context, ownerId string) (models.AccountTier, error)
	IncrementPortfolioViews(ctx context.Context, ownerId string, count int) error
}

// Custom error types for clarity
var (
	ErrItemNotFound    = errors.New("item does not exist")
	ErrConditionFailed = errors.New("condition not met")
)
