package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/skumar93/folio/cache"
	"github.com/skumar93/folio/models"
	"github.com/skumar93/folio/store"
)

// Resolve maps a public URL path segment to a portfolio document. Lookup
// order, first match wins: published-page cache, slug index query, then a
// direct point lookup treating the segment as a raw owner key (links minted
// before slugs existed). Read-only against the store; returns
// store.ErrItemNotFound when nothing matches.
func (s *Service) Resolve(ctx context.Context, segment string) (models.PortfolioDocument, error) {
	published, err := s.resolvePublished(ctx, segment)
	if err != nil {
		return models.PortfolioDocument{}, err
	}
	s.recordView(published.OwnerId)
	return published.Doc, nil
}

func (s *Service) resolvePublished(ctx context.Context, segment string) (models.PublishedPortfolio, error) {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		// No network round trip for an empty segment
		return models.PublishedPortfolio{}, store.ErrItemNotFound
	}

	if cached, err := s.Cache.GetPublished(ctx, segment); err == nil {
		var published models.PublishedPortfolio
		if err := json.Unmarshal(cached, &published); err == nil {
			return published, nil
		}
	} else if !errors.Is(err, cache.ErrNotCached) {
		log.Printf("Published cache read failed for %s: %v", segment, err)
	}

	published, err := s.Store.FindPortfolioBySlug(ctx, segment)
	if err == nil {
		s.cachePublished(ctx, segment, published)
		return published, nil
	}
	if !errors.Is(err, store.ErrItemNotFound) {
		return models.PublishedPortfolio{}, fmt.Errorf("slug lookup failed: %w", err)
	}

	// Legacy fallback: the segment may be the owner key itself
	doc, err := s.Store.GetPortfolio(ctx, segment)
	if err == nil {
		published = models.PublishedPortfolio{OwnerId: segment, Doc: doc}
		s.cachePublished(ctx, segment, published)
		return published, nil
	}
	if !errors.Is(err, store.ErrItemNotFound) {
		return models.PublishedPortfolio{}, fmt.Errorf("portfolio lookup failed: %w", err)
	}

	return models.PublishedPortfolio{}, store.ErrItemNotFound
}

func (s *Service) cachePublished(ctx context.Context, segment string, published models.PublishedPortfolio) {
	docBytes, err := json.Marshal(published)
	if err != nil {
		return
	}
	if err := s.Cache.SetPublished(ctx, segment, docBytes); err != nil {
		log.Printf("Published cache write failed for %s: %v", segment, err)
	}
}

func (s *Service) recordView(ownerId string) {
	if s.Views == nil || ownerId == "" {
		return
	}
	s.Views.Record(ownerId)
}
