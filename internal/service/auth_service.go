package service

import (
	"context"
	"log/slog"

	config "github.com/woozysocial/woozy-api/configs"
	"github.com/woozysocial/woozy-api/internal/models"
	"github.com/woozysocial/woozy-api/internal/repository"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2v2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

type AuthService interface {
	LoginURL(state string) string
	LoginCallback(ctx context.Context, code string) (int64, error)
}

type authService struct {
	cfg config.Config
	u   repository.UserRepository
}

func NewAuthService(cfg config.Config, u repository.UserRepository) AuthService {
	return &authService{
		cfg: cfg,
		u:   u,
	}
}

func (s *authService) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.GoogleClientID,
		ClientSecret: s.cfg.GoogleClientSecret,
		RedirectURL:  s.cfg.GoogleRedirectURI,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

func (s *authService) LoginURL(state string) string {
	return s.oauthConfig().AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (s *authService) LoginCallback(ctx context.Context, code string) (int64, error) {
	if code == "" {
		return 0, models.Validationf("authorization code is empty")
	}

	oauthConfig := s.oauthConfig()
	if oauthConfig.ClientID == "" || oauthConfig.ClientSecret == "" || oauthConfig.RedirectURL == "" {
		return 0, models.Configurationf("google sign-in is not configured")
	}

	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return 0, models.Validationf("authorization code exchange failed")
	}

	svc, err := oauth2v2.NewService(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, token)))
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	userInfo, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	user, isExist, err := s.u.GetByEmail(ctx, userInfo.Email)
	if err != nil {
		return 0, err
	}

	if !isExist {
		return s.u.Create(ctx, nil, &models.User{
			GoogleID:       userInfo.Id,
			Email:          userInfo.Email,
			Name:           userInfo.Name,
			ProfilePicture: userInfo.Picture,
		})
	}

	if user.GoogleID == "" {
		user.GoogleID = userInfo.Id
		user.Name = userInfo.Name
		user.ProfilePicture = userInfo.Picture
		if err := s.u.Update(ctx, user); err != nil {
			return 0, err
		}
	}

	return user.ID, nil
}
