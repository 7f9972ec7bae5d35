package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/skumar93/folio/models"
	"github.com/skumar93/folio/store"
)

const minPasswordLength = 6

// Provider-specific struct
type googleUser struct {
	Email string `json:"email"`
	Sub   string `json:"sub"`
}

var oauthAPIs = map[string]struct {
	URL     string
	Headers map[string]string
}{
	"google": {
		URL:     "https://openidconnect.googleapis.com/v1/userinfo",
		Headers: map[string]string{},
	},
}

var oauthConfigsTemplate = map[string]*oauth2.Config{
	"google": {
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
		Scopes: []string{"openid", "email"},
	},
}

func addOauthEndpointsAndScopes(oauthConfigs map[string]*oauth2.Config) (map[string]*oauth2.Config, error) {
	for provider := range oauthConfigs {
		template, ok := oauthConfigsTemplate[provider]
		if !ok {
			return nil, fmt.Errorf("unsupported provider: %s", provider)
		}
		oauthConfigs[provider].Endpoint = template.Endpoint
		oauthConfigs[provider].Scopes = template.Scopes
	}

	return oauthConfigs, nil
}

// SignUp registers an email/password account and returns the new user with a
// signed session token.
func (s *Service) SignUp(ctx context.Context, email string, password string) (models.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.User{}, "", ErrInvalidCredentials
	}
	if len(password) < minPasswordLength {
		return models.User{}, "", ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, "", fmt.Errorf("password hashing failed: %w", err)
	}

	user := models.User{Email: email, PasswordHash: string(hash)}
	createdUser, err := s.Store.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return models.User{}, "", ErrEmailTaken
		}
		return models.User{}, "", fmt.Errorf("create user failed: %w", err)
	}

	token, err := s.CreateJWT(createdUser.Id, createdUser.Email)
	if err != nil {
		return models.User{}, "", fmt.Errorf("token generation failed: %w", err)
	}

	return createdUser, token, nil
}

// Login authenticates an email/password account.
func (s *Service) Login(ctx context.Context, email string, password string) (models.User, string, error) {
	user, err := s.Store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", fmt.Errorf("get user failed: %w", err)
	}

	if user.PasswordHash == "" {
		// OAuth-only account
		return models.User{}, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := s.CreateJWT(user.Id, user.Email)
	if err != nil {
		return models.User{}, "", fmt.Errorf("token generation failed: %w", err)
	}

	return user, token, nil
}

// LoginOAuth runs the provider code exchange and creates the account on
// first login.
func (s *Service) LoginOAuth(ctx context.Context, provider string, code string) (models.User, string, error) {
	oauthUser, err := s.HandleOauth(ctx, provider, code)
	if err != nil {
		return models.User{}, "", fmt.Errorf("oauth failed: %w", err)
	}

	user, err := s.Store.GetUserByEmail(ctx, oauthUser.Email)
	if errors.Is(err, store.ErrItemNotFound) {
		user, err = s.Store.CreateUser(ctx, oauthUser)
	}
	if err != nil {
		return models.User{}, "", fmt.Errorf("create user failed: %w", err)
	}

	token, err := s.CreateJWT(user.Id, user.Email)
	if err != nil {
		return models.User{}, "", fmt.Errorf("token generation failed: %w", err)
	}

	return user, token, nil
}

func (s *Service) HandleOauth(ctx context.Context, provider string, code string) (models.User, error) {
	conf, ok := s.OAuthConfigs[provider]
	if !ok {
		return models.User{}, fmt.Errorf("unsupported provider: %s", provider)
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		log.Println("Error:", err)
		return models.User{}, err
	}

	client := conf.Client(ctx, tok)
	api, ok := oauthAPIs[provider]
	if !ok {
		return models.User{}, fmt.Errorf("unsupported provider: %s", provider)
	}

	req, err := http.NewRequest("GET", api.URL, nil)
	if err != nil {
		log.Println("Error:", err)
		return models.User{}, err
	}
	for k, v := range api.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Println("Error:", err)
		return models.User{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Println("Error:", err)
		return models.User{}, err
	}

	return parseOauthUser(body, provider)
}

func parseOauthUser(jsonData []byte, provider string) (models.User, error) {
	var u models.User
	u.Provider = provider

	switch provider {
	case "google":
		var g googleUser
		if err := json.Unmarshal(jsonData, &g); err != nil {
			return models.User{}, err
		}
		u.Email = g.Email
		u.ProviderId = g.Sub
	default:
		return models.User{}, fmt.Errorf("unsupported provider: %s", provider)
	}

	return u, nil
}

func (s *Service) CreateJWT(id string, email string) (string, error) {
	claims := jwt.MapClaims{
		"id":    id,
		"email": email,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.JWTSecret)
	if err != nil {
		return "", err
	}

	return signedToken, nil
}

func (s *Service) VerifyJWT(tokenString string) (string, string, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return s.JWTSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", "", time.Time{}, err
	}

	if !token.Valid {
		return "", "", time.Time{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", time.Time{}, errors.New("invalid token claims")
	}

	id, ok := claims["id"].(string)
	if !ok {
		return "", "", time.Time{}, errors.New("missing id claim")
	}

	email, ok := claims["email"].(string)
	if !ok {
		return "", "", time.Time{}, errors.New("missing email claim")
	}

	expFloat, ok := claims["exp"].(float64)
	if !ok {
		return "", "", time.Time{}, errors.New("missing exp claim")
	}
	expiry := time.Unix(int64(expFloat), 0)

	return id, email, expiry, nil
}

// AuthenticateToken resolves a bearer token to its account; the account must
// still exist in the store.
func (s *Service) AuthenticateToken(ctx context.Context, token string) (models.User, error) {
	if len(token) == 0 {
		return models.User{}, ErrNotAuthenticated
	}

	_, email, _, err := s.VerifyJWT(token)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.Store.GetUserByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}
