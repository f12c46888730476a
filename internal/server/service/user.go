package service

import (
	"net/http"
	"time"

	argon2 "github.com/mdouchement/simple-argon2"
	"github.com/mdouchement/impulsestop/internal/database"
	"github.com/mdouchement/impulsestop/internal/ibserror"
	"github.com/mdouchement/impulsestop/internal/mailer"
	"github.com/mdouchement/impulsestop/internal/model"
	"github.com/mdouchement/impulsestop/internal/server/serializer"
	"github.com/mdouchement/impulsestop/internal/server/session"
	"github.com/pkg/errors"
)

type (
	// A UserService handles the whole lifecycle of a user account.
	UserService interface {
		Register(params RegisterParams) (Render, error)
		Login(params LoginParams) (Render, error)
		LoginAnonymous(params Params) (Render, error)
		UpdateEmail(user *model.User, params UpdateEmailParams) (Render, error)
		Password(user *model.User, params UpdatePasswordParams) (Render, error)
		ResetPassword(params ResetPasswordParams) (Render, error)
		Delete(user *model.User) error
	}

	// A Render is an arbitrary payload serializable in JSON by the API.
	Render interface{}

	// RegisterParams are used to register a user.
	RegisterParams struct {
		Params
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	// LoginParams are used to login a user.
	LoginParams struct {
		Params
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	// UpdateEmailParams are used to change the user's email.
	UpdateEmailParams struct {
		Params
		NewEmail string `json:"new_email"`
	}

	// UpdatePasswordParams are used to update user's password.
	UpdatePasswordParams struct {
		Params
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	// ResetPasswordParams are used to send a password-reset mail.
	ResetPasswordParams struct {
		Params
		Email string `json:"email"`
	}

	userService struct {
		db       database.Client
		sessions session.Manager
		mailer   mailer.Mailer
	}
)

// NewUser returns a new UserService.
func NewUser(db database.Client, sessions session.Manager, mailer mailer.Mailer) UserService {
	return &userService{
		db:       db,
		sessions: sessions,
		mailer:   mailer,
	}
}

// Register creates a new account and opens its first session.
func (s *userService) Register(params RegisterParams) (Render, error) {
	// Check if the email is free to use.
	u, err := s.db.FindUserByMail(params.Email)
	if err != nil && !s.db.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not get access to database")
	}
	if u != nil {
		return nil, ibserror.NewWithTagCode(http.StatusUnauthorized, "", "This email is already registered.")
	}

	user := model.NewUser()
	user.Email = params.Email

	// Crypt password
	user.Password, err = argon2.GenerateFromPasswordString(params.Password, argon2.Default)
	if err != nil {
		return nil, errors.Wrap(err, "could not store user password safe")
	}
	user.PasswordUpdatedAt = time.Now().Unix()

	if err := s.db.Save(user); err != nil {
		return nil, errors.Wrap(err, "could not persist user")
	}

	return s.successfulAuthentication(user, params.Params)
}

// Login authenticates a user and opens a session.
func (s *userService) Login(params LoginParams) (Render, error) {
	user, err := s.db.FindUserByMail(params.Email)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, ibserror.NewWithTagCode(http.StatusUnauthorized, "", "Invalid email or password.")
		}
		return nil, errors.Wrap(err, "could not get user")
	}

	// Verify password
	if err = argon2.CompareHashAndPasswordString(user.Password, params.Password); err != nil {
		if err == argon2.ErrMismatchedHashAndPassword {
			return nil, ibserror.NewWithTagCode(http.StatusUnauthorized, "", "Invalid email or password.")
		}
		return nil, errors.Wrap(err, "could not validate password")
	}

	return s.successfulAuthentication(user, params.Params)
}

// LoginAnonymous opens a trial session bound to the read-only sample scope.
func (s *userService) LoginAnonymous(params Params) (Render, error) {
	user := model.NewUser()
	user.Anonymous = true
	user.Email = "anonymous-" + session.SecureToken(12) + "@impulsestop.lan"

	if err := s.db.Save(user); err != nil {
		return nil, errors.Wrap(err, "could not persist anonymous user")
	}

	return s.successfulAuthentication(user, params)
}

// UpdateEmail sends the verification mail and applies the email change.
func (s *userService) UpdateEmail(user *model.User, params UpdateEmailParams) (Render, error) {
	if user.Anonymous {
		return nil, ibserror.NoPermission()
	}

	// Check if the email is free to use.
	u, err := s.db.FindUserByMail(params.NewEmail)
	if err != nil && !s.db.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not get access to database")
	}
	if u != nil {
		return nil, ibserror.NewWithTagCode(http.StatusUnauthorized, "", "This email is already registered.")
	}

	if err := s.mailer.SendVerification(params.NewEmail, session.SecureToken(24)); err != nil {
		return nil, errors.Wrap(err, "could not send verification mail")
	}

	user.Email = params.NewEmail
	if err := s.db.Save(user); err != nil {
		return nil, errors.Wrap(err, "could not persist user")
	}

	return M{"user": serializer.User(user)}, nil
}

// Password replaces the user's password. Tokens generated before the
// change are revoked.
func (s *userService) Password(user *model.User, params UpdatePasswordParams) (Render, error) {
	if user.Anonymous {
		return nil, ibserror.NoPermission()
	}

	if err := argon2.CompareHashAndPasswordString(user.Password, params.CurrentPassword); err != nil {
		if err == argon2.ErrMismatchedHashAndPassword {
			return nil, ibserror.NewWithTagCode(http.StatusUnauthorized, "", "The current password you entered is incorrect.")
		}
		return nil, errors.Wrap(err, "could not validate password")
	}

	password, err := argon2.GenerateFromPasswordString(params.NewPassword, argon2.Default)
	if err != nil {
		return nil, errors.Wrap(err, "could not store user password safe")
	}
	user.Password = password
	user.PasswordUpdatedAt = time.Now().Unix()

	if err := s.db.Save(user); err != nil {
		return nil, errors.Wrap(err, "could not persist user")
	}

	return s.successfulAuthentication(user, params.Params)
}

// ResetPassword sends the password-reset mail.
// It does not leak whether the email is registered.
func (s *userService) ResetPassword(params ResetPasswordParams) (Render, error) {
	user, err := s.db.FindUserByMail(params.Email)
	if err != nil {
		if s.db.IsNotFound(err) {
			return M{"sent": true}, nil
		}
		return nil, errors.Wrap(err, "could not get user")
	}

	if err := s.mailer.SendPasswordReset(user.Email, session.SecureToken(24)); err != nil {
		return nil, errors.Wrap(err, "could not send password reset mail")
	}

	return M{"sent": true}, nil
}

// Delete removes the account with its sessions and items.
// The cancellation audit record is written beforehand by the client and
// deliberately survives the account.
func (s *userService) Delete(user *model.User) error {
	if user.Anonymous {
		return ibserror.NoPermission()
	}

	if err := s.db.DeleteItemsByUserID(user.ID); err != nil {
		return errors.Wrap(err, "could not delete user items")
	}

	if err := s.db.DeleteSessionsByUserID(user.ID); err != nil {
		return errors.Wrap(err, "could not delete user sessions")
	}

	return errors.Wrap(s.db.Delete(user), "could not delete user")
}

func (s *userService) successfulAuthentication(user *model.User, params Params) (Render, error) {
	token, err := s.sessions.Token(user)
	if err != nil {
		return nil, err
	}

	session := s.sessions.Generate()
	session.UserID = user.ID
	session.UserAgent = params.UserAgent
	if err := s.db.Save(session); err != nil {
		return nil, errors.Wrap(err, "could not persist session")
	}

	return M{
		"user":    serializer.User(user),
		"token":   token,
		"session": serializer.Session(session),
	}, nil
}
