package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"ai-editor-be/internal/config"
	"ai-editor-be/internal/dto"
	"ai-editor-be/internal/entity"
	"ai-editor-be/internal/repository/specification"
	"ai-editor-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type IOAuthService interface {
	GetLoginURL(provider string) (string, error)
	HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error)
}

type oauthService struct {
	uowFactory unitofwork.RepositoryFactory
	googleConf *oauth2.Config
	cfg        *config.Config
}

func NewOAuthService(uowFactory unitofwork.RepositoryFactory, cfg *config.Config) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     cfg.OAuth.GoogleClientID,
		ClientSecret: cfg.OAuth.GoogleClientSecret,
		RedirectURL:  cfg.OAuth.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &oauthService{
		uowFactory: uowFactory,
		googleConf: conf,
		cfg:        cfg,
	}
}

func (s *oauthService) GetLoginURL(provider string) (string, error) {
	if provider != "google" {
		return "", errors.New("unsupported provider")
	}

	b := make([]byte, 16)
	rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)

	return s.googleConf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error) {
	if provider != "google" {
		return nil, errors.New("unsupported provider")
	}

	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		log.Printf("[OAuth Service] ERROR - Code exchange failed: %v", err)
		return nil, fmt.Errorf("code exchange failed: %v", err)
	}

	googleUser, err := s.fetchGoogleUser(ctx, token)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Prefer the provider identity; the email may change on Google's side,
	// the Google user ID never does.
	user, err := s.resolveUser(ctx, uow, googleUser)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &entity.User{
			Id:            uuid.New(),
			Email:         googleUser.Email,
			FullName:      googleUser.Name,
			PasswordHash:  nil,
			EmailVerified: true, // Google already verified the address
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}

		if err := uow.Begin(ctx); err != nil {
			return nil, err
		}
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			uow.Rollback()
			log.Printf("[OAuth Service] ERROR - Failed to create user: %v", err)
			return nil, err
		}
		if err := uow.Commit(); err != nil {
			return nil, err
		}
		log.Printf("[OAuth Service] New user created via Google: %s", user.Id)
	}

	if err := s.syncProvider(ctx, uow, user, googleUser); err != nil {
		return nil, err
	}

	signedToken, err := signToken(user, s.cfg)
	if err != nil {
		log.Printf("[OAuth Service] ERROR - Failed to sign JWT: %v", err)
		return nil, err
	}

	response := &dto.LoginResponse{
		AccessToken: signedToken,
		User: dto.UserDTO{
			Id:       user.Id,
			Email:    user.Email,
			FullName: user.FullName,
		},
	}
	if user.AvatarURL != nil {
		response.User.AvatarURL = *user.AvatarURL
	}

	return response, nil
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (s *oauthService) fetchGoogleUser(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := s.googleConf.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		log.Printf("[OAuth Service] ERROR - Failed getting user info: %v", err)
		return nil, fmt.Errorf("failed getting user info: %v", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading response: %v", err)
	}

	var googleUser googleUserInfo
	if err := json.Unmarshal(content, &googleUser); err != nil {
		log.Printf("[OAuth Service] ERROR - Failed to parse user info: %v", err)
		return nil, err
	}
	if googleUser.ID == "" || googleUser.Email == "" {
		return nil, errors.New("incomplete user info from provider")
	}

	return &googleUser, nil
}

// resolveUser finds the account this Google identity belongs to: first by a
// stored provider link, then by email so an existing credential account gets
// linked instead of duplicated. Returns nil when the user is brand new.
func (s *oauthService) resolveUser(ctx context.Context, uow unitofwork.UnitOfWork, googleUser *googleUserInfo) (*entity.User, error) {
	link, err := uow.UserRepository().FindUserProvider(ctx,
		specification.ByProviderIdentity{ProviderName: "google", ProviderUserId: googleUser.ID},
	)
	if err != nil {
		return nil, err
	}
	if link != nil {
		return uow.UserRepository().FindOne(ctx, specification.ByID{ID: link.UserId})
	}

	return uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: googleUser.Email})
}

// syncProvider upserts the google identity link and backfills the avatar for
// accounts that have none.
func (s *oauthService) syncProvider(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User, googleUser *googleUserInfo) error {
	link, err := uow.UserRepository().FindUserProvider(ctx,
		specification.ByProviderIdentity{ProviderName: "google", ProviderUserId: googleUser.ID},
	)
	if err != nil {
		return err
	}
	if link == nil {
		link = &entity.UserProvider{
			Id:           uuid.New(),
			UserId:       user.Id,
			ProviderName: "google",
			CreatedAt:    time.Now(),
		}
	}
	link.ProviderUserId = googleUser.ID
	link.AvatarURL = googleUser.Picture

	if err := uow.UserRepository().SaveUserProvider(ctx, link); err != nil {
		log.Printf("[OAuth Service] ERROR - Failed to save provider info: %v", err)
		return fmt.Errorf("failed to save provider info: %v", err)
	}

	if user.AvatarURL == nil && googleUser.Picture != "" {
		if err := uow.UserRepository().UpdateAvatar(ctx, user.Id, googleUser.Picture); err != nil {
			return err
		}
		user.AvatarURL = &googleUser.Picture
	}

	return nil
}
