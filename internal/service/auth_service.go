package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/karibuhq/wabroadcast-backend/internal/errors"
	"github.com/karibuhq/wabroadcast-backend/internal/model"
	"github.com/karibuhq/wabroadcast-backend/internal/repository"
)

type AuthService struct {
	UserRepo  repository.UserRepositoryInterface
	OrgRepo   repository.OrganizationRepositoryInterface
	JWTSecret string
	TokenTTL  time.Duration
}

// Claims are the JWT payload; Subject carries the email.
type Claims struct {
	UserID         int `json:"user_id"`
	OrganizationID int `json:"organization_id"`
	jwt.RegisteredClaims
}

// Signup creates the organization first, then its admin user.
func (s *AuthService) Signup(email, password, fullName, organizationName string) (*model.User, error) {
	existing, err := s.UserRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, appErrors.ErrEmailTaken
	}

	org := &model.Organization{Name: organizationName}
	if err := s.OrgRepo.Create(org); err != nil {
		return nil, err
	}

	now := time.Now()
	sub := &model.Subscription{
		OrganizationID: org.ID,
		PlanType:       "standard",
		StartDate:      &now,
		IsActive:       true,
	}
	if err := s.OrgRepo.CreateSubscription(sub); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:          email,
		HashedPassword: string(hashed),
		Role:           model.RoleAdmin,
		OrganizationID: org.ID,
	}
	if fullName != "" {
		user.FullName = &fullName
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.UserRepo.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", appErrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", appErrors.ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.JWTSecret))
}

// ParseToken validates a bearer token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

// UpdateProfile applies the optional fields. Passwords under 4 characters are
// ignored rather than rejected, matching the signup form's dummy-value quirk.
func (s *AuthService) UpdateProfile(user *model.User, fullName, password *string) error {
	if fullName != nil && *fullName != "" {
		user.FullName = fullName
	}
	if password != nil && len(*password) > 3 {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user.HashedPassword = string(hashed)
	}
	return s.UserRepo.Update(user)
}
