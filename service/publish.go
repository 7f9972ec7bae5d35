package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"strings"

	"github.com/skumar93/folio/store"
	"github.com/skumar93/folio/worker"
)

type PublishResult struct {
	URL  string `json:"url"`
	Slug string `json:"slug"`
}

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	nonSlugChars   = regexp.MustCompile(`[^a-z0-9-]`)
)

// slugBase turns a display name into the readable part of a slug:
// "Jane Doe" -> "jane-doe". Empty or fully-stripped names fall back to
// "user".
func slugBase(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = whitespaceRuns.ReplaceAllString(s, "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	if s == "" {
		s = "user"
	}
	return s
}

func randomSlugSuffix() int {
	// Uniform over 1000-9999 inclusive
	return 1000 + rand.Intn(9000)
}

const maxSlugAttempts = 5

// generateSlug picks a free slug for the document. The 4-digit suffix keeps
// the readable part stable across attempts; the slug index is queried before
// every write so two owners never end up sharing one.
func (s *Service) generateSlug(ctx context.Context, name string) (string, error) {
	base := slugBase(name)

	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		candidate := fmt.Sprintf("%s-%d", base, randomSlugSuffix())

		_, err := s.Store.FindPortfolioBySlug(ctx, candidate)
		if errors.Is(err, store.ErrItemNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("slug lookup failed: %w", err)
		}
		// Taken, roll again
	}

	return "", ErrSlugTaken
}

// Publish writes the full portfolio document under the owner's key and
// returns the shareable URL. The slug is assigned at most once: a document
// that already carries one is republished under it unchanged. Incomplete
// portfolios are rejected with the missing field labels.
func (s *Service) Publish(ctx context.Context, sess *PortfolioSession) (PublishResult, error) {
	if sess == nil || sess.Identity().IsZero() {
		return PublishResult{}, ErrNotAuthenticated
	}

	// Deep copy: the slug is written into the persisted copy; the session
	// only learns about it through the explicit Update below.
	doc := sess.Document()

	if result := ValidatePortfolio(doc); !result.Ready {
		return PublishResult{}, &NotReadyError{Missing: result.Missing}
	}

	slug := doc.CustomSlug
	if slug == "" {
		var err error
		slug, err = s.generateSlug(ctx, doc.Name)
		if err != nil {
			return PublishResult{}, err
		}

		// Persist the slug into session state so the next publish reuses it.
		if err := sess.Update(SectionSlug, slug); err != nil {
			return PublishResult{}, err
		}
		doc.CustomSlug = slug
	}

	ownerId := sess.Identity().Id
	if err := s.Store.PutPortfolio(ctx, ownerId, doc); err != nil {
		return PublishResult{}, fmt.Errorf("publish write failed: %w", err)
	}

	// Async side-effect: let the cache warmer pick up the new content.
	go func() {
		msg := worker.PortfolioPublishedMessage{OwnerId: ownerId, Slug: slug}
		if msgBytes, err := json.Marshal(msg); err == nil {
			if err := s.MQ.Send(context.Background(), string(msgBytes)); err != nil {
				log.Printf("Failed to enqueue publish event for %s: %v", slug, err)
			}
		}
	}()

	return PublishResult{URL: s.AppOrigin + "/p/" + slug, Slug: slug}, nil
}
