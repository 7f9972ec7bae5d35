package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/skumar93/folio/models"
	"github.com/skumar93/folio/store"
)

// Top-level editable sections of the portfolio. "profile" groups the
// name/title/picture/about fields that share one tab and one save button.
const (
	SectionProfile   = "profile"
	SectionEducation = "education"
	SectionWork      = "work"
	SectionSkills    = "skills"
	SectionContact   = "contact"
	SectionSlug      = "customSlug"
)

// Store attributes written per section.
var sectionFields = map[string][]string{
	SectionProfile:   {"Name", "Title", "ProfilePic", "About"},
	SectionEducation: {"Education"},
	SectionWork:      {"Work"},
	SectionSkills:    {"Skills"},
	SectionContact:   {"Contact"},
	SectionSlug:      {"CustomSlug"},
}

// ProfileSection is the grouped value accepted by Update(SectionProfile, …).
type ProfileSection struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	ProfilePic string `json:"profilePic"`
	About      string `json:"about"`
}

// DecodeSectionValue maps a raw JSON payload to the typed value Update
// expects for the section. Shared by the REST and websocket surfaces. The
// slug section is rejected here: CustomSlug is immutable once set and only
// Publish may assign it, so no client payload can overwrite a claimed slug.
func DecodeSectionValue(section string, raw json.RawMessage) (any, error) {
	switch section {
	case SectionSlug:
		return nil, ErrSectionReadOnly
	case SectionProfile:
		var v ProfileSection
		err := json.Unmarshal(raw, &v)
		return v, err
	case SectionEducation:
		var v []models.EducationEntry
		err := json.Unmarshal(raw, &v)
		return v, err
	case SectionWork:
		var v []models.WorkEntry
		err := json.Unmarshal(raw, &v)
		return v, err
	case SectionSkills:
		var v []models.Skill
		err := json.Unmarshal(raw, &v)
		return v, err
	case SectionContact:
		var v models.Contact
		err := json.Unmarshal(raw, &v)
		return v, err
	default:
		return nil, ErrUnknownSection
	}
}

// DocumentChangedMessage is fanned out over the cache pub/sub channel to
// every builder tab of the owner.
type DocumentChangedMessage struct {
	OwnerId string                   `json:"ownerId"`
	Doc     models.PortfolioDocument `json:"doc"`
}

const DocumentChangedChannel = "portfolio-updated"

// PortfolioSession holds one owner's editable portfolio between loads and
// saves. It is constructed per authenticated session and discarded on
// logout; nothing here is process-global.
type PortfolioSession struct {
	identity models.Identity
	store    store.FolioStore

	mu        sync.Mutex
	doc       models.PortfolioDocument
	dirty     map[string]bool
	subs      map[int]func(models.PortfolioDocument)
	nextSubId int
	closed    bool
}

func newPortfolioSession(identity models.Identity, folioStore store.FolioStore, doc models.PortfolioDocument) *PortfolioSession {
	doc.Normalize()
	return &PortfolioSession{
		identity: identity,
		store:    folioStore,
		doc:      doc,
		dirty:    make(map[string]bool),
		subs:     make(map[int]func(models.PortfolioDocument)),
	}
}

func (sess *PortfolioSession) Identity() models.Identity {
	return sess.identity
}

// Document returns a deep copy of the current in-memory state.
func (sess *PortfolioSession) Document() models.PortfolioDocument {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.doc.Clone()
}

// Validate recomputes readiness from the current state; never cached.
func (sess *PortfolioSession) Validate() ValidationResult {
	return ValidatePortfolio(sess.Document())
}

// HasUnsavedChanges reports whether a section was updated since its last
// save.
func (sess *PortfolioSession) HasUnsavedChanges(section string) bool {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.dirty[section]
}

// Update replaces one top-level section in memory. The change is visible to
// Validate and to subscribers before Update returns; nothing is persisted.
func (sess *PortfolioSession) Update(section string, value any) error {
	sess.mu.Lock()

	var err error
	switch section {
	case SectionProfile:
		if p, ok := value.(ProfileSection); ok {
			sess.doc.Name = p.Name
			sess.doc.Title = p.Title
			sess.doc.ProfilePic = p.ProfilePic
			sess.doc.About = p.About
		} else {
			err = fmt.Errorf("section %s expects ProfileSection, got %T", section, value)
		}
	case SectionEducation:
		if v, ok := value.([]models.EducationEntry); ok {
			sess.doc.Education = append([]models.EducationEntry{}, v...)
		} else {
			err = fmt.Errorf("section %s expects []EducationEntry, got %T", section, value)
		}
	case SectionWork:
		if v, ok := value.([]models.WorkEntry); ok {
			sess.doc.Work = append([]models.WorkEntry{}, v...)
		} else {
			err = fmt.Errorf("section %s expects []WorkEntry, got %T", section, value)
		}
	case SectionSkills:
		if v, ok := value.([]models.Skill); ok {
			sess.doc.Skills = append([]models.Skill{}, v...)
		} else {
			err = fmt.Errorf("section %s expects []Skill, got %T", section, value)
		}
	case SectionContact:
		if v, ok := value.(models.Contact); ok {
			sess.doc.Contact = v
		} else {
			err = fmt.Errorf("section %s expects Contact, got %T", section, value)
		}
	case SectionSlug:
		// Assigned by Publish exactly once; a claimed slug never changes.
		if v, ok := value.(string); !ok {
			err = fmt.Errorf("section %s expects string, got %T", section, value)
		} else if sess.doc.CustomSlug != "" && sess.doc.CustomSlug != v {
			err = ErrSectionReadOnly
		} else {
			sess.doc.CustomSlug = v
		}
	default:
		err = ErrUnknownSection
	}
	if err != nil {
		sess.mu.Unlock()
		return err
	}

	sess.doc.Normalize()
	sess.dirty[section] = true
	snapshot := sess.doc.Clone()
	subs := make([]func(models.PortfolioDocument), 0, len(sess.subs))
	for _, fn := range sess.subs {
		subs = append(subs, fn)
	}
	sess.mu.Unlock()

	// Callbacks run outside the lock so a subscriber may call back into the
	// session.
	for _, fn := range subs {
		fn(snapshot)
	}
	return nil
}

// Save persists the current in-memory value of one section. The lock covers
// the whole read-and-write so a concurrent Update is either fully included
// or lands after, never dropped.
func (sess *PortfolioSession) Save(ctx context.Context, section string) error {
	fields, ok := sectionFields[section]
	if !ok {
		return ErrUnknownSection
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.doc.Normalize()
	if err := sess.store.PutPortfolioSections(ctx, sess.identity.Id, sess.doc, fields); err != nil {
		return fmt.Errorf("save %s failed: %w", section, err)
	}
	sess.dirty[section] = false
	return nil
}

// Subscribe registers a change listener and returns its teardown.
func (sess *PortfolioSession) Subscribe(fn func(models.PortfolioDocument)) (unsubscribe func()) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	id := sess.nextSubId
	sess.nextSubId++
	sess.subs[id] = fn

	return func() {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		delete(sess.subs, id)
	}
}

// Close drops all listeners; the session must not be used afterwards.
func (sess *PortfolioSession) Close() {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.subs = make(map[int]func(models.PortfolioDocument))
	sess.closed = true
}

// SessionManager tracks the live portfolio session per owner identity.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*PortfolioSession
	relays   map[string]func()
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*PortfolioSession),
		relays:   make(map[string]func()),
	}
}

// OpenSession returns the owner's live session, loading the stored document
// on first use. A missing document yields the empty default; a store failure
// is logged and also falls back to the default so the editor stays usable.
func (s *Service) OpenSession(ctx context.Context, identity models.Identity) (*PortfolioSession, error) {
	if identity.IsZero() {
		return nil, ErrNotAuthenticated
	}

	s.Sessions.mu.Lock()
	defer s.Sessions.mu.Unlock()

	if sess, ok := s.Sessions.sessions[identity.Id]; ok {
		return sess, nil
	}

	doc, err := s.Store.GetPortfolio(ctx, identity.Id)
	if errors.Is(err, store.ErrItemNotFound) {
		doc = models.EmptyPortfolio()
	} else if err != nil {
		log.Printf("Failed to load portfolio for %s, starting empty: %v", identity.Id, err)
		doc = models.EmptyPortfolio()
	}

	sess := newPortfolioSession(identity, s.Store, doc)

	// Relay in-process change events onto the pub/sub channel so every
	// builder tab (on any instance) sees them.
	ownerId := identity.Id
	unsubscribe := sess.Subscribe(func(doc models.PortfolioDocument) {
		msg := DocumentChangedMessage{OwnerId: ownerId, Doc: doc}
		if msgBytes, err := json.Marshal(msg); err == nil {
			if err := s.Cache.Publish(context.Background(), DocumentChangedChannel, msgBytes); err != nil {
				log.Printf("Failed to publish document change for %s: %v", ownerId, err)
			}
		}
	})

	s.Sessions.sessions[identity.Id] = sess
	s.Sessions.relays[identity.Id] = unsubscribe
	return sess, nil
}

// EndSession discards the owner's session on logout. The relay subscription
// is torn down before the session closes, so no event for the old identity
// can fire once a new session starts.
func (s *Service) EndSession(ownerId string) {
	s.Sessions.mu.Lock()
	sess, ok := s.Sessions.sessions[ownerId]
	unsubscribe := s.Sessions.relays[ownerId]
	delete(s.Sessions.sessions, ownerId)
	delete(s.Sessions.relays, ownerId)
	s.Sessions.mu.Unlock()

	if !ok {
		return
	}
	if unsubscribe != nil {
		unsubscribe()
	}
	sess.Close()
}
