package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	cachemocks "github.com/skumar93/folio/cache/mocks"
	"github.com/skumar93/folio/models"
	mqmocks "github.com/skumar93/folio/mq/mocks"
	"github.com/skumar93/folio/service"
	"github.com/skumar93/folio/store"
	storemocks "github.com/skumar93/folio/store/mocks"
	"github.com/skumar93/folio/worker"
)

func setupService(t *testing.T) (*service.Service, *storemocks.MockStore, *cachemocks.MockCache, *mqmocks.MockMQ, *worker.ViewBatcher) {
	mockStore := new(storemocks.MockStore)
	mockCache := new(cachemocks.MockCache)
	mockMQ := new(mqmocks.MockMQ)

	// Real batcher; tests verify views land on its channel
	viewBatcher := worker.NewViewBatcher(mockStore, 1000)

	svc, err := service.NewService(
		mockStore,
		mockCache,
		mockMQ,
		viewBatcher,
		nil,
		nil,
		[]byte("secret"),
		"https://folio.example.com",
	)
	assert.NoError(t, err)

	return svc, mockStore, mockCache, mockMQ, viewBatcher
}

// Helper that creates a channel and wraps a mock call to signal when it's called
func wrapMockWithSignal(call *mock.Call) chan struct{} {
	done := make(chan struct{})
	call.Run(func(args mock.Arguments) {
		close(done)
	})
	return done
}

func completeDoc() models.PortfolioDocument {
	return models.PortfolioDocument{
		Name:       "Jane Doe",
		Title:      "Software Engineer",
		ProfilePic: "data:image/png;base64,abc",
		About:      "I build things.",
		Education:  []models.EducationEntry{{Degree: "BSc", School: "State University", Date: "2018"}},
		Work:       []models.WorkEntry{{Kind: models.WorkDescription, Company: "Acme", Role: "Engineer", Description: "Built the thing"}},
		Skills:     []models.Skill{{Name: "Go", Percent: 90}},
		Contact:    models.Contact{Phone: "555-0100", Email: "jane@example.com"},
	}
}

var identity = models.Identity{Id: "user1", Email: "jane@example.com"}

func TestOpenSession_LoadsStoredDocument(t *testing.T) {
	svc, mockStore, _, _, _ := setupService(t)
	ctx := context.Background()

	doc := completeDoc()
	mockStore.On("GetPortfolio", ctx, identity.Id).Return(doc, nil)

	sess, err := svc.OpenSession(ctx, identity)
	assert.NoError(t, err)
	assert.Equal(t, "Jane Doe", sess.Document().Name)
	assert.Equal(t, identity, sess.Identity())

	// Second open returns the same live session without another load
	sess2, err := svc.OpenSession(ctx, identity)
	assert.NoError(t, err)
	assert.Same(t, sess, sess2)
	mockStore.AssertNumberOfCalls(t, "GetPortfolio", 1)
}

func TestOpenSession_MissingDocumentStartsEmpty(t *testing.T) {
	svc, mockStore, _, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetPortfolio", ctx, identity.Id).Return(models.PortfolioDocument{}, store.ErrItemNotFound)

	sess, err := svc.OpenSession(ctx, identity)
	assert.NoError(t, err)

	doc := sess.Document()
	assert.Empty(t, doc.Name)
	assert.NotNil(t, doc.Education)
	assert.NotNil(t, doc.Work)
	assert.NotNil(t, doc.Skills)
}

func TestOpenSession_NotAuthenticated(t *testing.T) {
	svc, _, _, _, _ := setupService(t)

	_, err := svc.OpenSession(context.Background(), models.Identity{})
	assert.ErrorIs(t, err, service.ErrNotAuthenticated)
}

func TestSessionUpdate_VisibleBeforeSave(t *testing.T) {
	svc, mockStore, mockCache, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetPortfolio", ctx, identity.Id).Return(models.PortfolioDocument{}, store.ErrItemNotFound)
	mockCache.On("Publish", mock.Anything, service.DocumentChangedChannel, mock.Anything).Return(nil)

	sess, err := svc.OpenSession(ctx, identity)
	assert.NoError(t, err)

	err = sess.Update(service.SectionProfile, service.ProfileSection{Name: "Jane Doe", Title: "Engineer"})
	assert.NoError(t, err)

	assert.Equal(t, "Jane Doe", sess.Document().Name)
	assert.True(t, sess.HasUnsavedChanges(service.SectionProfile))
	assert.False(t, sess.HasUnsavedChanges(service.SectionSkills))

	// Nothing persisted yet
	mockStore.AssertNotCalled(t, "PutPortfolioSections", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionUpdate_UnknownSection(t *testing.T) {
	svc, mockStore, _, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetPortfolio", ctx, identity.Id).Return(models.PortfolioDocument{}, store.ErrItemNotFound)

	sess, err := svc.OpenSession(ctx, identity)
	assert.NoError(t, err)

	err = sess.Update("hobbies", []string{"chess"})
	assert.ErrorIs(t, err, service.ErrUnknownSection)
}

func TestSessionUpdate_SlugNotClientEditable(t *testing.T) {
	svc, mockStore, _, _, _ := setupService(t)
	ctx := context.Background()

	doc := completeDoc()
	doc.CustomSlug = "jane-doe-1234"
	mockStore.On("GetPortfolio", ctx, identity.Id).Return(doc, nil)

	sess, err := svc.OpenSession(ctx, identity)
	assert.NoError(t, err)

	// The section payload path used by the HTTP and websocket surfaces
	// refuses the slug section outright.
	_, err = service.DecodeSectionValue(service.SectionSlug, json.RawMessage(`"someone-elses-slug"`))
	assert.ErrorIs(t, err, service.ErrSectionReadOnly)

	// A claimed slug cannot be replaced even by a direct update.
	err = sess.Update(service.SectionSlug, "someone-elses-slug")
	assert.ErrorIs(t, err, service.ErrSectionReadOnly)

	assert.Equal(t, "jane-doe-1234", sess.Document().CustomSlug)
	mockStore.AssertNotCalled(t, "PutPortfolioSections", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionUpdate_ClampsSkillPercent(t *testing.T) {
	svc, mockStore, mockCache, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetPortfolio", ctx, identity.Id).Return(models.PortfolioDocument{}, store.ErrItemNotFound)
	mockCache.On("Publish", mock.Anything, service.DocumentChangedChannel, mock.Anything).Return(nil)

	sess, err := svc.OpenSession(ctx, identity)
	assert.NoError(t, err)

	err = sess.Update(service.SectionSkills, []models.Skill{
		{Name: "Go", Percent: 150},
		{Name: "Rust", Percent: -10},
	})
	assert.NoError(t, err)

	skills := sess.Document().Skills
	assert.Equal(t, 100, skills[0].Percent)
	assert.Equal(t, 0, skills[1].Percent)
}

func TestSessionSave_PersistsSectionFields(t *testing.T) {
	svc, mockStore, mockCache, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetPortfolio", ctx, identity.Id).Return(models.PortfolioDocument{}, store.ErrItemNotFound)
	mockCache.On("Publish", mock.Anything, service.DocumentChangedChannel, mock.Anything).Return(nil)

	sess, err := svc.OpenSession(ctx, identity)
	assert.NoError(t, err)

	err = sess.Update(service.SectionProfile, service.ProfileSection{Name: "Jane Doe", Title: "Engineer"})
	assert.NoError(t, err)

	mockStore.On("PutPortfolioSections", ctx, identity.Id,
		mock.MatchedBy(func(doc models.PortfolioDocument) bool { return doc.Name == "Jane Doe" }),
		[]string{"Name", "Title", "ProfilePic", "About"},
	).Return(nil)

	err = sess.Save(ctx, service.SectionProfile)
	assert.NoError(t, err)
	assert.False(t, sess.HasUnsavedChanges(service.SectionProfile))
}

func TestSessionSave_UnknownSection(t *testing.T) {
	svc, mockStore, _, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetPortfolio", ctx, identity.Id).Return(models.PortfolioDocument{}, store.ErrItemNotFound)

	sess, err := svc.OpenSession(ctx, identity)
	assert.NoError(t, err)

	err = sess.Save(ctx, "hobbies")
	assert.ErrorIs(t, err, service.ErrUnknownSection)
}

func TestSessionSubscribe_NotifiedOnUpdate(t *testing.T) {
	svc, mockStore, mockCache, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetPortfolio", ctx, identity.Id).Return(models.PortfolioDocument{}, store.ErrItemNotFound)
	mockCache.On("Publish", mock.Anything, service.DocumentChangedChannel, mock.Anything).Return(nil)

	sess, err := svc.OpenSession(ctx, identity)
	assert.NoError(t, err)

	var got []models.PortfolioDocument
	unsubscribe := sess.Subscribe(func(doc models.PortfolioDocument) {
		got = append(got, doc)
	})

	err = sess.Update(service.SectionProfile, service.ProfileSection{Name: "Jane Doe"})
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "Jane Doe", got[0].Name)

	unsubscribe()

	err = sess.Update(service.SectionProfile, service.ProfileSection{Name: "Someone Else"})
	assert.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSessionUpdate_PublishesChangeEvent(t *testing.T) {
	svc, mockStore, mockCache, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetPortfolio", ctx, identity.Id).Return(models.PortfolioDocument{}, store.ErrItemNotFound)
	publishDone := wrapMockWithSignal(
		mockCache.On("Publish", mock.Anything, service.DocumentChangedChannel, mock.Anything).Return(nil),
	)

	sess, err := svc.OpenSession(ctx, identity)
	assert.NoError(t, err)

	err = sess.Update(service.SectionContact, models.Contact{Email: "jane@example.com"})
	assert.NoError(t, err)

	select {
	case <-publishDone:
	case <-time.After(1 * time.Second):
		assert.Fail(t, "timed out waiting for document change publish")
	}
}

func TestEndSession_DiscardsState(t *testing.T) {
	svc, mockStore, mockCache, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetPortfolio", ctx, identity.Id).Return(models.PortfolioDocument{}, store.ErrItemNotFound)
	mockCache.On("Publish", mock.Anything, service.DocumentChangedChannel, mock.Anything).Return(nil)

	sess, err := svc.OpenSession(ctx, identity)
	assert.NoError(t, err)

	err = sess.Update(service.SectionProfile, service.ProfileSection{Name: "Jane Doe"})
	assert.NoError(t, err)

	svc.EndSession(identity.Id)

	// A new login starts from the stored document, not the discarded edits
	sess2, err := svc.OpenSession(ctx, identity)
	assert.NoError(t, err)
	assert.NotSame(t, sess, sess2)
	assert.Empty(t, sess2.Document().Name)
	mockStore.AssertNumberOfCalls(t, "GetPortfolio", 2)
}

func TestEndSession_UnknownOwnerIsNoop(t *testing.T) {
	svc, _, _, _, _ := setupService(t)
	svc.EndSession("nobody")
}
