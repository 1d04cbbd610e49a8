package firebase

import (
	"context"
	"fmt"
	"path/filepath"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"voluntr_backend/internal/config"
	"voluntr_backend/internal/shared"
)

// authClient is the slice of *auth.Client the service relies on.
type authClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseService verifies Firebase ID tokens. It implements shared.TokenVerifier.
type FirebaseService struct {
	authClient   authClient
	checkRevoked bool
	logger       *zap.Logger
}

var _ shared.TokenVerifier = (*FirebaseService)(nil)

// NewFirebaseService initializes the Firebase Admin SDK from the service account
// key named in the config.
func NewFirebaseService(cfg *config.Config, logger *zap.Logger) (*FirebaseService, error) {
	if cfg.FirebaseServiceAccountKeyPath == "" {
		logger.Error("Firebase service account key path is not configured.")
		return nil, fmt.Errorf("firebase service account key path is required")
	}

	cleanPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)
	opt := option.WithCredentialsFile(cleanPath)

	var conf *firebase.Config
	if cfg.FirebaseProjectID != "" {
		conf = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}

	app, err := firebase.NewApp(context.Background(), conf, opt)
	if err != nil {
		logger.Error("Failed to initialize Firebase Admin SDK app", zap.Error(err), zap.String("keyPath", cleanPath))
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Auth(context.Background())
	if err != nil {
		logger.Error("Failed to get Firebase Auth client", zap.Error(err))
		return nil, fmt.Errorf("error getting Firebase Auth client: %w", err)
	}

	logger.Info("Firebase Admin SDK initialized successfully.", zap.Bool("checkRevoked", cfg.FirebaseCheckRevoked))
	return newService(client, cfg.FirebaseCheckRevoked, logger), nil
}

func newService(client authClient, checkRevoked bool, logger *zap.Logger) *FirebaseService {
	return &FirebaseService{
		authClient:   client,
		checkRevoked: checkRevoked,
		logger:       logger.Named("firebase"),
	}
}

// VerifyIDToken verifies a Firebase ID token and returns the claims it vouches for.
func (s *FirebaseService) VerifyIDToken(ctx context.Context, idToken string) (*shared.Claims, error) {
	if idToken == "" {
		return nil, fmt.Errorf("ID token must not be empty")
	}

	var (
		token *auth.Token
		err   error
	)
	if s.checkRevoked {
		token, err = s.authClient.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	} else {
		token, err = s.authClient.VerifyIDToken(ctx, idToken)
	}
	if err != nil {
		s.logger.Warn("Firebase ID token verification failed", zap.Error(err))
		return nil, fmt.Errorf("failed to verify Firebase ID token: %w", err)
	}

	s.logger.Debug("Firebase ID token verified successfully", zap.String("uid", token.UID))
	return claimsFromToken(token), nil
}

// claimsFromToken copies the identity attributes out of the token's claim map.
// Missing or mistyped claims come back as zero values.
func claimsFromToken(token *auth.Token) *shared.Claims {
	claims := &shared.Claims{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		claims.Email = email
	}
	if verified, ok := token.Claims["email_verified"].(bool); ok {
		claims.EmailVerified = verified
	}
	if name, ok := token.Claims["name"].(string); ok {
		claims.Name = name
	}
	return claims
}
