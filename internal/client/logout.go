package client

import (
	"github.com/mdouchement/impulsestop/pkg/libis"
	"github.com/pkg/errors"
)

// Logout disconnects from an impulsestop server.
func Logout() error {
	cfg, err := Load()
	if err != nil {
		return errors.Wrap(err, "could not load config")
	}

	//
	//

	client, err := libis.NewDefaultClient(cfg.Endpoint)
	if err != nil {
		return errors.Wrap(err, "could not reach impulsestop endpoint")
	}

	if !cfg.Session.Defined() {
		return errors.New("could not logout because session is not defined")
	}
	client.SetBearerToken(cfg.BearerToken)
	client.SetSession(cfg.Session)

	//
	//

	if err = client.Logout(); err != nil {
		return errors.Wrap(err, "could not logout")
	}

	return errors.Wrap(Remove(), "could not remove credential file")
}
