package session

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/mdouchement/impulsestop/internal/database"
	"github.com/mdouchement/impulsestop/internal/ibserror"
	"github.com/mdouchement/impulsestop/internal/model"
	"github.com/pkg/errors"
)

type (
	// A Manager manages access tokens and session records.
	Manager interface {
		// JWTSigningKey returns the key used to sign the access tokens.
		JWTSigningKey() []byte
		// Token generates a signed access token for the given user.
		Token(user *model.User) (string, error)
		// Generate creates a new session record without user information.
		Generate() *model.Session
		// Regenerate regenerates the session's tokens.
		Regenerate(session *model.Session) error
		// UserFromClaims returns the user authenticated by the given verified claims.
		UserFromClaims(claims jwt.MapClaims) (*model.User, error)
	}

	manager struct {
		db         database.Client
		signingKey []byte
		// Session params
		refreshTokenExpirationTime time.Duration
	}
)

// NewManager returns a new manager.
func NewManager(db database.Client, signingKey []byte, refreshTokenExpirationTime time.Duration) Manager {
	return &manager{
		db:                         db,
		signingKey:                 signingKey,
		refreshTokenExpirationTime: refreshTokenExpirationTime,
	}
}

func (m *manager) JWTSigningKey() []byte {
	return m.signingKey
}

func (m *manager) Token(user *model.User) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["user_uuid"] = user.ID
	claims["iss"] = "github.com/mdouchement/impulsestop"
	claims["iat"] = time.Now().Unix()

	t, err := token.SignedString(m.signingKey)
	return t, errors.Wrap(err, "could not generate token")
}

func (m *manager) Generate() *model.Session {
	return &model.Session{
		ExpireAt:     time.Now().Add(m.refreshTokenExpirationTime).UTC(),
		AccessToken:  SecureToken(24),
		RefreshToken: SecureToken(24),
	}
}

func (m *manager) Regenerate(session *model.Session) error {
	if session.ExpireAt.Before(time.Now()) {
		return ibserror.NewWithTagCode(
			http.StatusBadRequest,
			"expired-refresh-token",
			"The refresh token has expired.",
		)
	}

	session.AccessToken = SecureToken(24)
	session.RefreshToken = SecureToken(24)
	session.ExpireAt = time.Now().Add(m.refreshTokenExpirationTime)

	return errors.Wrap(m.db.Save(session), "could not save session after refreshing session")
}

func (m *manager) UserFromClaims(claims jwt.MapClaims) (*model.User, error) {
	id, ok := claims["user_uuid"].(string)
	if !ok {
		return nil, ibserror.NewWithTagCode(http.StatusUnauthorized, ibserror.TagInvalidAuth, "Invalid login credentials.")
	}

	user, err := m.db.FindUser(id)
	if err != nil {
		if m.db.IsNotFound(err) {
			return nil, ibserror.NewWithTagCode(http.StatusUnauthorized, ibserror.TagInvalidAuth, "Invalid login credentials.")
		}
		return nil, errors.Wrap(err, "could not get access to database")
	}

	// Check if password has changed since token was generated.
	var iat int64
	switch v := claims["iat"].(type) {
	case float64:
		iat = int64(v)
	case json.Number:
		iat, _ = v.Int64()
	default:
		return nil, ibserror.NewWithTagCode(http.StatusUnauthorized, ibserror.TagInvalidAuth, "Invalid login credentials.")
	}

	if iat < user.PasswordUpdatedAt {
		return nil, ibserror.NewWithTagCode(http.StatusUnauthorized, ibserror.TagInvalidAuth, "Revoked token.")
	}

	return user, nil
}
