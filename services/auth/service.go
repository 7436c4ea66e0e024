package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/keywarden/keywarden/db"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

var ErrInvalidToken = errors.New("invalid or revoked token")

// AuthService issues and verifies bearer tokens and manages user
// credentials. Tokens are HS256 JWTs carrying the user id as subject and a
// unique jti; revocation is a blocklist of jtis checked on every request.
type AuthService struct {
	store    db.Store
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(store db.Store, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		store:    store,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

func (s *AuthService) Register(username string, password string) (db.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return db.User{}, err
	}

	return s.store.CreateUser(db.User{
		Username: username,
		Password: string(hash),
		Created:  db.GetUTC(),
	})
}

// Login verifies the password and issues a signed, time-bound token.
func (s *AuthService) Login(username string, password string) (string, error) {
	user, err := s.store.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(user.ID),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyToken checks signature and expiry, then rejects tokens whose jti
// has been revoked.
func (s *AuthService) VerifyToken(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	blocked, err := s.store.IsTokenBlocklisted(claims.ID)
	if err != nil {
		return nil, err
	}

	if blocked {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Logout records the token's jti in the blocklist. Revocation is terminal.
func (s *AuthService) Logout(claims *jwt.RegisteredClaims) (db.TokenBlocklist, error) {
	userID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return db.TokenBlocklist{}, ErrInvalidToken
	}

	return s.store.AddTokenToBlocklist(db.TokenBlocklist{
		JTI:       claims.ID,
		UserID:    userID,
		CreatedAt: db.GetUTC(),
	})
}

// ChangePassword verifies the old password before storing the new hash.
func (s *AuthService) ChangePassword(userID int, oldPassword string, newPassword string) error {
	user, err := s.store.GetUser(userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.store.SetUserPassword(userID, string(hash))
}

// ResetPassword overwrites the stored hash without verifying the old
// password. Administrative use only; the API path goes through
// ChangePassword.
func (s *AuthService) ResetPassword(userID int, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.store.SetUserPassword(userID, string(hash))
}

// UserFromClaims resolves the token subject to a stored user.
func (s *AuthService) UserFromClaims(claims *jwt.RegisteredClaims) (db.User, error) {
	userID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return db.User{}, ErrInvalidToken
	}

	return s.store.GetUser(userID)
}
