package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/skumar93/folio/models"
	"github.com/skumar93/folio/pdf"
)

// DownloadResume renders the owner's current in-memory portfolio as a PDF
// and returns the bytes with the download filename. Works on unsaved state
// so edits can be previewed before a save. BASIC-tier accounts get the
// watermarked render.
func (s *Service) DownloadResume(ctx context.Context, sess *PortfolioSession) ([]byte, string, error) {
	if sess == nil || sess.Identity().IsZero() {
		return nil, "", ErrNotAuthenticated
	}

	doc := sess.Document()
	pdfBytes, err := s.renderResume(ctx, sess.Identity().Id, doc)
	if err != nil {
		return nil, "", err
	}

	return pdfBytes, pdf.FileName(doc.Name), nil
}

// ResolveResume is the public variant: the segment goes through the same
// lookup chain as the published page, and the tier of whoever owns the
// portfolio decides the watermark.
func (s *Service) ResolveResume(ctx context.Context, segment string) ([]byte, string, error) {
	published, err := s.resolvePublished(ctx, segment)
	if err != nil {
		return nil, "", err
	}

	pdfBytes, err := s.renderResume(ctx, published.OwnerId, published.Doc)
	if err != nil {
		return nil, "", err
	}

	return pdfBytes, pdf.FileName(published.Doc.Name), nil
}

func (s *Service) renderResume(ctx context.Context, ownerId string, doc models.PortfolioDocument) ([]byte, error) {
	if s.PDF == nil {
		return nil, errors.New("pdf rendering is not configured")
	}

	tier, err := s.Store.GetAccountTier(ctx, ownerId)
	if err != nil {
		// Fail toward the watermarked render, not toward an error page
		log.Printf("Tier lookup failed for %s, assuming %s: %v", ownerId, models.TierBasic, err)
		tier = models.AccountTier{Tier: models.TierBasic}
	}
	watermark := tier.Tier != models.TierPremium

	pdfBytes, err := s.PDF.RenderResume(ctx, doc, watermark)
	if err != nil {
		return nil, fmt.Errorf("resume render failed: %w", err)
	}
	return pdfBytes, nil
}
