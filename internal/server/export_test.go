package server

import (
	"github.com/mdouchement/impulsestop/internal/model"
	"github.com/mdouchement/impulsestop/internal/server/session"
)

// This file is only for test purpose and is only loaded by test framework.

// CreateJWT returns a signed access token for the given user.
func CreateJWT(ioc IOC, u *model.User) string {
	m := session.NewManager(ioc.Database, ioc.SigningKey, ioc.RefreshTokenExpirationTime)

	token, err := m.Token(u)
	if err != nil {
		panic(err)
	}
	return token
}
