package client

import (
	"github.com/chzyer/readline"
	"github.com/mdouchement/impulsestop/pkg/libis"
	"github.com/pkg/errors"
)

// Settings runs one account-settings operation from the terminal.
// The mode selects the operation, exactly like the tabs of the modal.
func Settings(mode Mode) error {
	cfg, err := Load()
	if err != nil {
		return errors.Wrap(err, "could not load config")
	}

	apiclient, err := libis.NewDefaultClient(cfg.Endpoint)
	if err != nil {
		return errors.Wrap(err, "could not reach impulsestop endpoint")
	}
	apiclient.SetBearerToken(cfg.BearerToken)
	apiclient.SetSession(cfg.Session)

	if err = Refresh(apiclient, &cfg); err != nil {
		return err
	}

	//
	//

	session := &Session{
		User: libis.User{
			ID:        cfg.UserID,
			Email:     cfg.Email,
			Anonymous: cfg.Anonymous,
		},
		Session: cfg.Session,
	}

	account := NewAccount(apiclient, session, nil, StdoutAlerter())
	account.Mode = mode

	switch mode {
	case ModeEmail:
		account.Email, err = readline.Line("New email: ")
		if err != nil {
			return errors.Wrap(err, "could not read email from stdin")
		}
	case ModePassword:
		current, err := readline.Password("Current password: ")
		if err != nil {
			return errors.Wrap(err, "could not read password from stdin")
		}
		replacement, err := readline.Password("New password: ")
		if err != nil {
			return errors.Wrap(err, "could not read password from stdin")
		}
		account.CurrentPassword = string(current)
		account.NewPassword = string(replacement)
	case ModePasswordReset:
		account.Email, err = readline.Line("Account email: ")
		if err != nil {
			return errors.Wrap(err, "could not read email from stdin")
		}
	case ModeCancelMembership:
		answer, err := readline.Line("Cancel your membership and erase all items? (yes/no): ")
		if err != nil {
			return errors.Wrap(err, "could not read answer from stdin")
		}
		if answer != "yes" {
			return nil
		}
	default:
		return errors.Errorf("unknown settings mode: %s", mode)
	}

	if !account.Submit() {
		return errors.New("the operation did not complete")
	}

	//
	// Keep the stored credentials in line with what the server now expects.

	switch mode {
	case ModeEmail:
		cfg.Email = account.Email
		return Save(cfg)
	case ModePassword:
		cfg.BearerToken = apiclient.BearerToken()
		cfg.Session = apiclient.Session()
		return Save(cfg)
	case ModeCancelMembership:
		return errors.Wrap(Remove(), "could not remove credential file")
	}

	return nil
}
