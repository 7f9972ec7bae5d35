package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/skumar93/folio/models"
	"github.com/skumar93/folio/service"
	"github.com/skumar93/folio/store"
)

type Handler struct {
	Service *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{Service: svc}
}

type signupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type authResponse struct {
	Id    string `json:"id"`
	Email string `json:"email"`
	Token string `json:"token"`
}

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Password != req.ConfirmPassword {
		http.Error(w, service.ErrPasswordMismatch.Error(), http.StatusBadRequest)
		return
	}

	user, token, err := h.Service.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordTooShort), errors.Is(err, service.ErrInvalidCredentials):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, service.ErrEmailTaken):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			log.Printf("Signup failed: %v", err)
			http.Error(w, "signup failed", http.StatusInternalServerError)
		}
		return
	}

	h.sendResponse(w, authResponse{Id: user.Id, Email: user.Email, Token: token})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Provider string `json:"provider"`
	Code     string `json:"code"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var err error
	var user models.User
	var token string
	if req.Provider != "" {
		user, token, err = h.Service.LoginOAuth(r.Context(), req.Provider, req.Code)
	} else {
		user, token, err = h.Service.Login(r.Context(), req.Email, req.Password)
	}
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		log.Printf("Login failed: %v", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	h.sendResponse(w, authResponse{Id: user.Id, Email: user.Email, Token: token})
}

type logoutResponse struct {
	Success bool `json:"success"`
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, err := h.Service.AuthenticateToken(r.Context(), h.getTokenFromAuthHeader(r))
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	// Editing state does not survive the login session
	h.Service.EndSession(user.Id)
	h.sendResponse(w, logoutResponse{Success: true})
}

type meResponse struct {
	Id    string `json:"id"`
	Email string `json:"email"`
	Tier  string `json:"tier"`
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, err := h.Service.AuthenticateToken(r.Context(), h.getTokenFromAuthHeader(r))
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	tier, err := h.Service.Store.GetAccountTier(r.Context(), user.Id)
	if err != nil {
		log.Printf("Tier lookup failed for %s: %v", user.Id, err)
		tier.Tier = models.TierBasic
	}

	h.sendResponse(w, meResponse{Id: user.Id, Email: user.Email, Tier: tier.Tier})
}

type portfolioResponse struct {
	Doc     models.PortfolioDocument `json:"doc"`
	Ready   bool                     `json:"ready"`
	Missing []string                 `json:"missing"`
}

// HandlePortfolio serves the authenticated editing surface at /portfolio.
func (h *Handler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, ok := h.openSession(w, r)
	if !ok {
		return
	}

	validation := sess.Validate()
	h.sendResponse(w, portfolioResponse{Doc: sess.Document(), Ready: validation.Ready, Missing: validation.Missing})
}

type publishResponse struct {
	URL  string `json:"url"`
	Slug string `json:"slug"`
}

type notReadyResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing"`
}

type saveResponse struct {
	Success bool   `json:"success"`
	Section string `json:"section"`
}

// HandlePortfolioSubpath dispatches /portfolio/{section}, /portfolio/publish
// and /portfolio/resume.pdf.
func (h *Handler) HandlePortfolioSubpath(w http.ResponseWriter, r *http.Request) {
	subpath := strings.TrimPrefix(r.URL.Path, "/portfolio/")

	switch subpath {
	case "publish":
		h.handlePublish(w, r)
	case "resume.pdf":
		h.handleOwnResume(w, r)
	default:
		h.handleSectionSave(w, r, subpath)
	}
}

// PUT /portfolio/{section} replaces the section in the live session and
// persists it in one step. The body is the raw section value.
func (h *Handler) handleSectionSave(w http.ResponseWriter, r *http.Request, section string) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, ok := h.openSession(w, r)
	if !ok {
		return
	}

	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	value, err := service.DecodeSectionValue(section, raw)
	if err == nil {
		err = sess.Update(section, value)
	}
	if err != nil {
		if errors.Is(err, service.ErrUnknownSection) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if errors.Is(err, service.ErrSectionReadOnly) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := sess.Save(r.Context(), section); err != nil {
		log.Printf("Section save failed for %s: %v", section, err)
		http.Error(w, "save failed", http.StatusInternalServerError)
		return
	}

	h.sendResponse(w, saveResponse{Success: true, Section: section})
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, ok := h.openSession(w, r)
	if !ok {
		return
	}

	result, err := h.Service.Publish(r.Context(), sess)
	if err != nil {
		var notReady *service.NotReadyError
		if errors.As(err, &notReady) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(notReadyResponse{Error: notReady.Error(), Missing: notReady.Missing})
			return
		}
		log.Printf("Publish failed: %v", err)
		http.Error(w, "publish failed", http.StatusInternalServerError)
		return
	}

	h.sendResponse(w, publishResponse{URL: result.URL, Slug: result.Slug})
}

func (h *Handler) handleOwnResume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, ok := h.openSession(w, r)
	if !ok {
		return
	}

	pdfBytes, filename, err := h.Service.DownloadResume(r.Context(), sess)
	if err != nil {
		log.Printf("Resume download failed: %v", err)
		http.Error(w, "resume generation failed", http.StatusInternalServerError)
		return
	}

	h.sendPDF(w, pdfBytes, filename)
}

// HandlePublic serves /p/{slug} and /p/{slug}/resume.pdf without auth.
func (h *Handler) HandlePublic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	segment := strings.TrimPrefix(r.URL.Path, "/p/")

	if rest, found := strings.CutSuffix(segment, "/resume.pdf"); found {
		pdfBytes, filename, err := h.Service.ResolveResume(r.Context(), rest)
		if err != nil {
			if errors.Is(err, store.ErrItemNotFound) {
				http.Error(w, "portfolio not found", http.StatusNotFound)
				return
			}
			log.Printf("Public resume failed for %s: %v", rest, err)
			http.Error(w, "resume generation failed", http.StatusInternalServerError)
			return
		}
		h.sendPDF(w, pdfBytes, filename)
		return
	}

	doc, err := h.Service.Resolve(r.Context(), segment)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			http.Error(w, "portfolio not found", http.StatusNotFound)
			return
		}
		log.Printf("Resolve failed for %s: %v", segment, err)
		http.Error(w, "lookup failed", http.StatusInternalServerError)
		return
	}

	h.sendResponse(w, doc)
}

// openSession authenticates the request and returns the caller's live
// portfolio session, writing the error response itself on failure.
func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) (*service.PortfolioSession, bool) {
	user, err := h.Service.AuthenticateToken(r.Context(), h.getTokenFromAuthHeader(r))
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return nil, false
	}

	sess, err := h.Service.OpenSession(r.Context(), user.Identity())
	if err != nil {
		log.Printf("Failed to open portfolio session for %s: %v", user.Id, err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

func (h *Handler) sendResponse(w http.ResponseWriter, resp any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) sendPDF(w http.ResponseWriter, pdfBytes []byte, filename string) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(pdfBytes)
}

func (h *Handler) getTokenFromAuthHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		return ""
	}
	return strings.TrimPrefix(authHeader, prefix)
}
