package service_test

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skumar93/folio/models"
	"github.com/skumar93/folio/service"
	"github.com/skumar93/folio/store"
	"github.com/skumar93/folio/worker"
)

var slugPattern = regexp.MustCompile(`^jane-doe-\d{4}$`)

func TestPublish_GeneratesSlugAndURL(t *testing.T) {
	svc, mockStore, mockCache, mockMQ, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetPortfolio", ctx, identity.Id).Return(completeDoc(), nil)
	mockCache.On("Publish", mock.Anything, service.DocumentChangedChannel, mock.Anything).Return(nil)

	sess, err := svc.OpenSession(ctx, identity)
	assert.NoError(t, err)

	// No slug collisions
	mockStore.On("FindPortfolioBySlug", ctx, mock.AnythingOfType("string")).
		Return(models.PublishedPortfolio{}, store.ErrItemNotFound)
	mockStore.On("PutPortfolio", ctx, identity.Id,
		mock.MatchedBy(func(doc models.PortfolioDocument) bool { return slugPattern.MatchString(doc.CustomSlug) }),
	).Return(nil)

	mqSendDone := wrapMockWithSignal(mockMQ.On("Send", mock.Anything, mock.MatchedBy(func(body string) bool {
		var msg worker.PortfolioPublishedMessage
		if err := json.Unmarshal([]byte(body), &msg); err != nil {
			return false
		}
		return msg.OwnerId == identity.Id && slugPattern.MatchString(msg.Slug)
	})).Return(nil))

	result, err := svc.Publish(ctx, sess)
	assert.NoError(t, err)
	assert.Regexp(t, slugPattern, result.Slug)
	assert.Equal(t, "https://folio.example.com/p/"+result.Slug, result.URL)

	// The generated slug lands in session state for the next publish
	assert.Equal(t, result.Slug, sess.Document().CustomSlug)

	select {
	case <-mqSendDone:
	case <-time.After(1 * time.Second):
		assert.Fail(t, "timed out waiting for publish event")
	}
}

func TestPublish_ReusesExistingSlug(t *testing.T) {
	svc, mockStore, mockCache, mockMQ, _ := setupService(t)
	ctx := context.Background()

	doc := completeDoc()
	doc.CustomSlug = "jane-doe-1234"
	mockStore.On("GetPortfolio", ctx, identity.Id).Return(doc, nil)
	mockCache.On("Publish", mock.Anything, service.DocumentChangedChannel, mock.Anything).Return(nil)

	sess, err := svc.OpenSession(ctx, identity)
	assert.NoError(t, err)

	mockStore.On("PutPortfolio", ctx, identity.Id,
		mock.MatchedBy(func(doc models.PortfolioDocument) bool { return doc.CustomSlug == "jane-doe-1234" }),
	).Return(nil)
	mqSendDone := wrapMockWithSignal(mockMQ.On("Send", mock.Anything, mock.Anything).Return(nil))

	result, err := svc.Publish(ctx, sess)
	assert.NoError(t, err)
	assert.Equal(t, "jane-doe-1234", result.Slug)
	assert.Equal(t, "https://folio.example.com/p/jane-doe-1234", result.URL)

	// Republish never rolls a new slug
	mockStore.AssertNotCalled(t, "FindPortfolioBySlug", mock.Anything, mock.Anything)

	select {
	case <-mqSendDone:
	case <-time.After(1 * time.Second):
		assert.Fail(t, "timed out waiting for publish event")
	}
}

func TestPublish_BlockedWhenIncomplete(t *testing.T) {
	svc, mockStore, _, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetPortfolio", ctx, identity.Id).Return(models.PortfolioDocument{}, store.ErrItemNotFound)

	sess, err := svc.OpenSession(ctx, identity)
	assert.NoError(t, err)

	_, err = svc.Publish(ctx, sess)

	var notReady *service.NotReadyError
	assert.ErrorAs(t, err, &notReady)
	assert.Contains(t, notReady.Missing, service.LabelName)
	assert.Contains(t, notReady.Missing, service.LabelSkills)

	mockStore.AssertNotCalled(t, "PutPortfolio", mock.Anything, mock.Anything, mock.Anything)
}

func TestPublish_NotAuthenticated(t *testing.T) {
	svc, _, _, _, _ := setupService(t)

	_, err := svc.Publish(context.Background(), nil)
	assert.ErrorIs(t, err, service.ErrNotAuthenticated)
}

func TestPublish_SlugSpaceExhausted(t *testing.T) {
	svc, mockStore, mockCache, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetPortfolio", ctx, identity.Id).Return(completeDoc(), nil)
	mockCache.On("Publish", mock.Anything, service.DocumentChangedChannel, mock.Anything).Return(nil)

	sess, err := svc.OpenSession(ctx, identity)
	assert.NoError(t, err)

	// Every candidate is already taken
	mockStore.On("FindPortfolioBySlug", ctx, mock.AnythingOfType("string")).
		Return(models.PublishedPortfolio{OwnerId: "someone-else"}, nil)

	_, err = svc.Publish(ctx, sess)
	assert.ErrorIs(t, err, service.ErrSlugTaken)

	mockStore.AssertNotCalled(t, "PutPortfolio", mock.Anything, mock.Anything, mock.Anything)
}

func TestPublish_SlugRetriesOnCollision(t *testing.T) {
	svc, mockStore, mockCache, mockMQ, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetPortfolio", ctx, identity.Id).Return(completeDoc(), nil)
	mockCache.On("Publish", mock.Anything, service.DocumentChangedChannel, mock.Anything).Return(nil)

	sess, err := svc.OpenSession(ctx, identity)
	assert.NoError(t, err)

	// First candidate collides, second is free
	mockStore.On("FindPortfolioBySlug", ctx, mock.AnythingOfType("string")).
		Return(models.PublishedPortfolio{OwnerId: "someone-else"}, nil).Once()
	mockStore.On("FindPortfolioBySlug", ctx, mock.AnythingOfType("string")).
		Return(models.PublishedPortfolio{}, store.ErrItemNotFound).Once()
	mockStore.On("PutPortfolio", ctx, identity.Id, mock.Anything).Return(nil)
	mockMQ.On("Send", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Publish(ctx, sess)
	assert.NoError(t, err)
	assert.Regexp(t, slugPattern, result.Slug)
	mockStore.AssertNumberOfCalls(t, "FindPortfolioBySlug", 2)
}
