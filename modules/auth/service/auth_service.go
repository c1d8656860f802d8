package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"today-scheduler/core/config"
	"today-scheduler/core/errors"
	"today-scheduler/core/logger"
	"today-scheduler/core/utils"
	"today-scheduler/modules/auth/dto"
	"today-scheduler/modules/auth/entity"
	"today-scheduler/modules/auth/repository"
)

// AuthService handles participant identity and OAuth token upkeep.
type AuthService struct {
	repo repository.UserRepositoryInterface
}

// AuthServiceInterface defines the service contract
type AuthServiceInterface interface {
	Signin(ctx context.Context, req *dto.SigninRequest) (*dto.SigninResponse, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByTid(ctx context.Context, tid string) (*entity.User, error)
	ValidAccessToken(ctx context.Context, user *entity.User) (string, *errors.AppError)
}

func NewAuthService(repo repository.UserRepositoryInterface) AuthServiceInterface {
	return &AuthService{repo: repo}
}

// Signin upserts the user keyed by telegram identifier, stores the latest
// OAuth tokens and returns a signed JWT.
func (s *AuthService) Signin(ctx context.Context, req *dto.SigninRequest) (*dto.SigninResponse, *errors.AppError) {
	if req.Tid == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "tid is required", nil)
	}

	user := &entity.User{
		Tid:          req.Tid,
		Email:        req.Email,
		AccessToken:  req.OAuthToken,
		RefreshToken: req.RefreshToken,
	}
	if req.OAuthToken != "" {
		expiresAt := time.Now().Add(time.Hour)
		user.TokenExpiresAt = &expiresAt
	}

	saved, err := s.repo.Upsert(ctx, user)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to save user", err)
	}

	token, err := utils.GenerateToken(saved.ID, saved.Tid)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to sign token", err)
	}

	logger.Info("AuthService:Signin:Success", "user_id", saved.ID, "tid", saved.Tid)
	return &dto.SigninResponse{Token: token}, nil
}

func (s *AuthService) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AuthService) GetByTid(ctx context.Context, tid string) (*entity.User, error) {
	return s.repo.GetByTid(ctx, tid)
}

// ValidAccessToken returns an access token usable for calendar calls,
// refreshing through Google's OAuth endpoint when the stored one is about to
// expire.
func (s *AuthService) ValidAccessToken(ctx context.Context, user *entity.User) (string, *errors.AppError) {
	if user.TokenExpiresAt == nil || time.Now().Before(user.TokenExpiresAt.Add(-5*time.Minute)) {
		return user.AccessToken, nil
	}

	if user.RefreshToken == "" {
		return "", errors.NewAppError(errors.ErrUnauthorized, "Calendar token expired and no refresh token stored", nil)
	}

	logger.Info("AuthService:ValidAccessToken:Refreshing", "user_id", user.ID)

	cfg, ok := config.GetSafe()
	if !ok {
		return "", errors.NewAppError(errors.ErrInternalServer, "Config not initialized", nil)
	}

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.GoogleAPI.ClientID,
		ClientSecret: cfg.GoogleAPI.ClientSecret,
		RedirectURL:  cfg.GoogleAPI.RedirectURI,
		Endpoint:     google.Endpoint,
	}

	tokenSource := oauthConfig.TokenSource(ctx, &oauth2.Token{
		RefreshToken: user.RefreshToken,
	})

	token, err := tokenSource.Token()
	if err != nil {
		logger.Error("AuthService:ValidAccessToken:RefreshError", "user_id", user.ID, "error", err)
		return "", errors.NewAppError(errors.ErrUnauthorized, "Failed to refresh calendar token", err)
	}

	if err := s.repo.UpdateTokens(ctx, user.ID, token.AccessToken, token.Expiry); err != nil {
		// Keep going; the refreshed token is still valid for this call
		logger.Error("AuthService:ValidAccessToken:PersistError", "user_id", user.ID, "error", err)
	}

	user.AccessToken = token.AccessToken
	user.TokenExpiresAt = &token.Expiry

	return token.AccessToken, nil
}
