package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/geniusclasses/backend/internal/platform/apierr"
	"github.com/geniusclasses/backend/internal/platform/logger"
	"github.com/geniusclasses/backend/internal/repos"
	"github.com/geniusclasses/backend/internal/requestdata"
	"github.com/geniusclasses/backend/internal/types"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

// AuthService authenticates the site admin. There is no self-serve signup:
// the single admin account is seeded from the environment at startup.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, string, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	EnsureAdminUser(ctx context.Context) error
	AccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	serviceLog := baseLog.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
	}
}

// Login verifies the credential and issues a signed access token. A wrong
// email and a wrong password produce the same caller-visible failure;
// infrastructure errors come back distinct so the surface can say
// something other than "invalid credential".
func (as *authService) Login(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", "", apierr.InvalidCredential()
	}

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", apierr.InvalidCredential()
		}
		as.log.Error("Login lookup failed", "error", err)
		return "", "", apierr.New(http.StatusInternalServerError, apierr.CodeAuthOther,
			fmt.Errorf("look up user: %w", err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", apierr.InvalidCredential()
	}

	var accessToken, refreshToken string
	txErr := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.userTokenRepo.DeleteExpired(ctx, tx, time.Now()); err != nil {
			return fmt.Errorf("prune expired tokens: %w", err)
		}

		tok, err := as.generateAccessToken(user)
		if err != nil {
			return fmt.Errorf("sign access token: %w", err)
		}
		accessToken = tok
		refreshToken = uuid.NewString()

		userToken := types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.accessTTL),
		}
		if err := as.userTokenRepo.Create(ctx, tx, &userToken); err != nil {
			return fmt.Errorf("persist user token: %w", err)
		}
		return nil
	})
	if txErr != nil {
		as.log.Error("Login token issue failed", "error", txErr)
		return "", "", apierr.New(http.StatusInternalServerError, apierr.CodeAuthOther, txErr)
	}

	as.log.Info("Admin logged in", "userID", user.ID)
	return accessToken, refreshToken, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return apierr.New(http.StatusUnauthorized, apierr.CodeAuthOther,
			errors.New("no session token in request"))
	}
	if err := as.userTokenRepo.DeleteByAccessToken(ctx, nil, rd.TokenString); err != nil {
		as.log.Error("Logout failed", "error", err)
		return apierr.New(http.StatusInternalServerError, apierr.CodeAuthOther,
			fmt.Errorf("delete user token: %w", err))
	}
	return nil
}

// SetContextFromToken validates tokenString and, when valid, stamps the
// request data onto ctx. The token must both verify and still exist in the
// token table, so logout revokes immediately.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, errors.New("empty token")
	}

	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, errors.New("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}

	stored, err := as.userTokenRepo.GetByAccessToken(ctx, nil, tokenString)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx, errors.New("token revoked")
		}
		return ctx, fmt.Errorf("look up token: %w", err)
	}
	if stored.ExpiresAt.Before(time.Now()) {
		return ctx, errors.New("token expired")
	}

	rd := &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

// EnsureAdminUser seeds the admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD. Re-running against an existing account is a no-op; the
// password is only read when the account does not exist yet.
func (as *authService) EnsureAdminUser(ctx context.Context) error {
	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	_, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
	}
	if err := as.userRepo.Create(ctx, nil, &admin); err != nil {
		if repos.IsUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("create admin user: %w", err)
	}
	as.log.Info("Admin account seeded", "email", email)
	return nil
}

func (as *authService) AccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}
