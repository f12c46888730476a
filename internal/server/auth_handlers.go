package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/impulsestop/internal/database"
	"github.com/mdouchement/impulsestop/internal/ibserror"
	"github.com/mdouchement/impulsestop/internal/mailer"
	"github.com/mdouchement/impulsestop/internal/server/service"
	"github.com/mdouchement/impulsestop/internal/server/session"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// auth contains all authentication handlers.
type auth struct {
	db       database.Client
	sessions session.Manager
	mailer   mailer.Mailer
}

///// Register
////
//

// Register handler is used to register the user.
func (h *auth) Register(c echo.Context) error {
	// Filter params
	var params service.RegisterParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusUnauthorized, ibserror.New("Could not get user's params."))
	}
	params.UserAgent = c.Request().UserAgent()

	if params.Email == "" {
		return c.JSON(http.StatusUnauthorized, ibserror.New("No email provided."))
	}
	if params.Password == "" {
		return c.JSON(http.StatusUnauthorized, ibserror.New("No password provided."))
	}

	service := service.NewUser(h.db, h.sessions, h.mailer)
	register, err := service.Register(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, register)
}

///// Login
////
//

// Login authenticates a user and returns a JWT with a session pair.
func (h *auth) Login(c echo.Context) error {
	// Filter params
	var params service.LoginParams
	if err := c.Bind(&params); err != nil {
		logrus.WithError(err).Warn("could not get parameters")
		return c.JSON(http.StatusBadRequest, ibserror.New("Could not get credentials."))
	}
	params.UserAgent = c.Request().UserAgent()

	if params.Email == "" || params.Password == "" {
		return c.JSON(http.StatusBadRequest, ibserror.New("No email or password provided."))
	}

	service := service.NewUser(h.db, h.sessions, h.mailer)
	login, err := service.Login(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, login)
}

///// LoginAnonymous
////
//

// LoginAnonymous opens a trial session against the read-only sample scope.
func (h *auth) LoginAnonymous(c echo.Context) error {
	params := service.Params{UserAgent: c.Request().UserAgent()}

	service := service.NewUser(h.db, h.sessions, h.mailer)
	login, err := service.LoginAnonymous(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, login)
}

///// Logout
////
//

// Logout terminates the session matching the given access token.
func (h *auth) Logout(c echo.Context) error {
	var params struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, ibserror.New("Could not get parameters."))
	}

	session, err := h.db.FindSessionByAccessToken(params.AccessToken)
	if err != nil {
		if h.db.IsNotFound(err) {
			return c.NoContent(http.StatusNoContent)
		}
		return errors.Wrap(err, "could not get session")
	}

	if session.UserID != currentUser(c).ID {
		return c.JSON(http.StatusUnauthorized, ibserror.New("Invalid login credentials."))
	}

	if err := h.db.Delete(session); err != nil && !h.db.IsNotFound(err) {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

///// UpdateEmail
////
//

// UpdateEmail changes the registered email after sending the verification mail.
func (h *auth) UpdateEmail(c echo.Context) error {
	// Filter params
	var params service.UpdateEmailParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusUnauthorized, ibserror.New("Could not get parameters."))
	}
	params.UserAgent = c.Request().UserAgent()

	if params.NewEmail == "" {
		return c.JSON(http.StatusUnauthorized, ibserror.New("No email provided."))
	}

	service := service.NewUser(h.db, h.sessions, h.mailer)
	update, err := service.UpdateEmail(currentUser(c), params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, update)
}

///// Update Password
////
//

// UpdatePassword used to updates a user's password.
func (h *auth) UpdatePassword(c echo.Context) error {
	// Filter params
	var params service.UpdatePasswordParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusUnauthorized, ibserror.New("Could not get parameters."))
	}
	params.UserAgent = c.Request().UserAgent()

	// Check CurrentPassword presence.
	if params.CurrentPassword == "" {
		return c.JSON(http.StatusUnauthorized,
			ibserror.New("Your current password is required to change your password."))
	}

	// Check NewPassword presence.
	if params.NewPassword == "" {
		return c.JSON(http.StatusUnauthorized,
			ibserror.New("Your new password is required to change your password."))
	}

	service := service.NewUser(h.db, h.sessions, h.mailer)
	password, err := service.Password(currentUser(c), params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, password)
}

///// ResetPassword
////
//

// ResetPassword sends the password-reset mail.
func (h *auth) ResetPassword(c echo.Context) error {
	var params service.ResetPasswordParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, ibserror.New("Could not get parameters."))
	}

	if params.Email == "" {
		return c.JSON(http.StatusBadRequest, ibserror.New("No email provided."))
	}

	service := service.NewUser(h.db, h.sessions, h.mailer)
	reset, err := service.ResetPassword(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, reset)
}

///// Delete
////
//

// Delete removes the current account with its sessions and items.
func (h *auth) Delete(c echo.Context) error {
	service := service.NewUser(h.db, h.sessions, h.mailer)
	if err := service.Delete(currentUser(c)); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

///// Refresh
////
//

// Refresh regenerates the session pair and issues a new JWT.
func (h *auth) Refresh(c echo.Context) error {
	var params struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, ibserror.New("Could not get parameters."))
	}

	sess, err := h.db.FindSessionByAccessToken(params.AccessToken)
	if err != nil {
		if h.db.IsNotFound(err) {
			return c.JSON(http.StatusUnauthorized, ibserror.New("Invalid login credentials."))
		}
		return errors.Wrap(err, "could not get session")
	}

	// The refresh token is a secret, compare it in constant time.
	user := currentUser(c)
	if sess.UserID != user.ID || !session.SecureCompare(sess.RefreshToken, params.RefreshToken) {
		return c.JSON(http.StatusUnauthorized, ibserror.New("Invalid login credentials."))
	}

	if err := h.sessions.Regenerate(sess); err != nil {
		return err
	}

	token, err := h.sessions.Token(user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"session": echo.Map{
			"access_token":  sess.AccessToken,
			"refresh_token": sess.RefreshToken,
			"expire_at":     sess.ExpireAt,
		},
	})
}
