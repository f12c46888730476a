package client

import (
	"github.com/chzyer/readline"
	"github.com/mdouchement/impulsestop/pkg/libis"
	"github.com/pkg/errors"
)

// Login connects to an impulsestop server.
func Login() error {
	cfg := Config{}

	endpoint, err := readline.Line("Endpoint: ")
	if err != nil {
		return errors.Wrap(err, "could not read endpoint from stdin")
	}
	cfg.Endpoint = endpoint

	client, err := libis.NewDefaultClient(cfg.Endpoint)
	if err != nil {
		return errors.Wrap(err, "could not reach given endpoint")
	}

	cfg.Email, err = readline.Line("Email: ")
	if err != nil {
		return errors.Wrap(err, "could not read email from stdin")
	}

	password, err := readline.Password("Password: ")
	if err != nil {
		return errors.Wrap(err, "could not read password from stdin")
	}

	credentials, err := client.Login(cfg.Email, string(password))
	if err != nil {
		return errors.Wrap(err, "could not login")
	}
	cfg.UserID = credentials.User.ID
	cfg.BearerToken = credentials.Token
	cfg.Session = credentials.Session

	return Save(cfg)
}

// Register creates an account on an impulsestop server and connects to it.
func Register() error {
	cfg := Config{}

	endpoint, err := readline.Line("Endpoint: ")
	if err != nil {
		return errors.Wrap(err, "could not read endpoint from stdin")
	}
	cfg.Endpoint = endpoint

	client, err := libis.NewDefaultClient(cfg.Endpoint)
	if err != nil {
		return errors.Wrap(err, "could not reach given endpoint")
	}

	cfg.Email, err = readline.Line("Email: ")
	if err != nil {
		return errors.Wrap(err, "could not read email from stdin")
	}

	password, err := readline.Password("Password: ")
	if err != nil {
		return errors.Wrap(err, "could not read password from stdin")
	}

	credentials, err := client.Register(cfg.Email, string(password))
	if err != nil {
		return errors.Wrap(err, "could not register")
	}
	cfg.UserID = credentials.User.ID
	cfg.BearerToken = credentials.Token
	cfg.Session = credentials.Session

	return Save(cfg)
}

// Trial opens an anonymous session against the read-only sample scope.
func Trial() error {
	cfg := Config{Anonymous: true}

	endpoint, err := readline.Line("Endpoint: ")
	if err != nil {
		return errors.Wrap(err, "could not read endpoint from stdin")
	}
	cfg.Endpoint = endpoint

	client, err := libis.NewDefaultClient(cfg.Endpoint)
	if err != nil {
		return errors.Wrap(err, "could not reach given endpoint")
	}

	credentials, err := client.LoginAnonymous()
	if err != nil {
		return errors.Wrap(err, "could not open trial session")
	}
	cfg.Email = credentials.User.Email
	cfg.UserID = credentials.User.ID
	cfg.BearerToken = credentials.Token
	cfg.Session = credentials.Session

	return Save(cfg)
}
