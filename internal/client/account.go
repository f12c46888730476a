package client

import (
	"strings"

	"github.com/mdouchement/impulsestop/pkg/libis"
	"github.com/pkg/errors"
)

// A Mode selects which account operation the settings form performs.
type Mode string

const (
	ModeEmail            Mode = "eMail"
	ModePassword         Mode = "passWord"
	ModePasswordReset    Mode = "passWordReset"
	ModeCancelMembership Mode = "cancelMembership"
)

// An Account drives the account-settings form. One form, four modes:
// the mode decides which fields are read, how they are validated and
// which operation submitting performs.
type Account struct {
	client   libis.Client
	session  *Session
	registry *Registry
	alert    Alerter

	Mode Mode

	// Form fields. Which ones a mode reads is listed per mode below.
	Email           string
	CurrentPassword string
	NewPassword     string
}

// NewAccount returns a settings form in email mode.
func NewAccount(client libis.Client, session *Session, registry *Registry, alert Alerter) *Account {
	return &Account{
		client:   client,
		session:  session,
		registry: registry,
		alert:    alert,
		Mode:     ModeEmail,
	}
}

// Validate checks the fields the current mode reads. A failure is
// alerted and no request is issued.
func (a *Account) Validate() bool {
	switch a.Mode {
	case ModeEmail:
		if !strings.Contains(a.Email, "@") {
			a.alert.Alert("Invalid email", "Enter the new email address.")
			return false
		}
	case ModePassword:
		if a.CurrentPassword == "" || a.NewPassword == "" {
			a.alert.Alert("Invalid password", "Enter the current and the new password.")
			return false
		}
	case ModePasswordReset:
		if !strings.Contains(a.Email, "@") {
			a.alert.Alert("Invalid email", "Enter the email address of your account.")
			return false
		}
	case ModeCancelMembership:
		// Nothing to validate, the UI asks for confirmation instead.
	default:
		a.alert.Alert("Unknown operation", string(a.Mode))
		return false
	}

	return true
}

// Submit performs the current mode's operation. It returns true when it
// succeeded and the modal can close.
func (a *Account) Submit() bool {
	if !a.Validate() {
		return false
	}

	if a.session.Anonymous() && a.Mode != ModePasswordReset {
		a.alert.Alert("Trial mode does not permit modifying data", "Sign up to manage an account.")
		return false
	}

	var err error
	success := "Done"

	switch a.Mode {
	case ModeEmail:
		err = a.client.UpdateEmail(a.Email)
		success = "A verification mail has been sent"
	case ModePassword:
		err = a.updatePassword()
		success = "The password has been changed"
	case ModePasswordReset:
		err = a.client.ResetPassword(a.Email)
		success = "A password-reset mail has been sent"
	case ModeCancelMembership:
		err = a.cancelMembership()
		success = "Your membership has been cancelled"
	}

	if err != nil {
		if libis.IsNoPermission(err) {
			a.alert.Alert("Trial mode does not permit modifying data", "Sign up to manage an account.")
		} else {
			a.alert.Alert("The operation failed", err.Error())
		}
		return false
	}

	a.alert.Alert(success, "")
	return true
}

func (a *Account) updatePassword() error {
	credentials, err := a.client.UpdatePassword(a.CurrentPassword, a.NewPassword)
	if err != nil {
		return err
	}

	// The server revoked all older tokens, keep working with the fresh pair.
	a.session.User = credentials.User
	a.session.Session = credentials.Session
	a.client.SetBearerToken(credentials.Token)
	a.client.SetSession(credentials.Session)
	return nil
}

// cancelMembership runs the three-step cancellation: write the audit
// record, read it back as confirmation, then delete the account. The
// flow aborts on the first failure so a half-cancelled account keeps its
// data. Only after all three steps succeeded is the live query torn down.
func (a *Account) cancelMembership() error {
	if err := a.client.WriteTombstone(); err != nil {
		return errors.Wrap(err, "cancellation record")
	}

	tombstone, err := a.client.Tombstone()
	if err != nil {
		return errors.Wrap(err, "cancellation confirmation")
	}
	if tombstone.UserID != a.session.User.ID {
		return errors.New("cancellation confirmation: record mismatch")
	}

	if err := a.client.DeleteAccount(); err != nil {
		return errors.Wrap(err, "account removal")
	}

	if a.registry != nil {
		if unsubscribe := a.registry.Get(); unsubscribe != nil {
			unsubscribe()
		}
	}

	*a.session = Session{}
	a.client.SetBearerToken("")
	a.client.SetSession(libis.Session{})
	return nil
}
