package server_test

import (
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/appleboy/gofight/v2"
	"github.com/labstack/echo/v4"
	argon2 "github.com/mdouchement/simple-argon2"
	"github.com/mdouchement/impulsestop/internal/database"
	"github.com/mdouchement/impulsestop/internal/mailer"
	"github.com/mdouchement/impulsestop/internal/model"
	"github.com/mdouchement/impulsestop/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestRequestHome(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	r.GET("/").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.JSONEq(t, `{"version":"test"}`, r.Body.String())
	})
}

func TestRequestVersion(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	r.GET("/version").Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.JSONEq(t, `{"version":"test"}`, r.Body.String())
	})
}

func setup() (engine *echo.Echo, ioc server.IOC, r *gofight.RequestConfig, cleanup func()) {
	tmpfile, err := os.CreateTemp("", "impulsestop.*.db")
	if err != nil {
		panic(err)
	}
	filename := tmpfile.Name()
	tmpfile.Close()

	db, err := database.StormOpen(filename)
	if err != nil {
		panic(err)
	}

	ioc = server.IOC{
		Version:                    "test",
		Database:                   db,
		Broker:                     database.NewBroker(),
		Mailer:                     mailer.NewLogger(logrus.New()),
		NoRegistration:             false,
		SigningKey:                 []byte("secret"),
		RefreshTokenExpirationTime: 365 * 24 * time.Hour,
	}
	engine = server.EchoEngine(ioc)

	return engine, ioc, gofight.New(), func() {
		db.Close()
		os.RemoveAll(filename)
	}
}

func createUser(ioc server.IOC) *model.User {
	var err error

	user := model.NewUser()
	user.Email = "george.abitbol@nowhere.lan"
	user.Password, err = argon2.GenerateFromPasswordString("password42", argon2.Default)
	if err != nil {
		panic(err)
	}
	user.PasswordUpdatedAt = time.Now().Add(-12 * time.Hour).Unix()

	if err = ioc.Database.Save(user); err != nil {
		panic(err)
	}

	return user
}

func createAnonymous(ioc server.IOC) *model.User {
	user := model.NewUser()
	user.Email = "anonymous-000000000000@impulsestop.lan"
	user.Anonymous = true

	if err := ioc.Database.Save(user); err != nil {
		panic(err)
	}

	return user
}

// createItem persists an item. Successive calls get strictly increasing
// UpdatedAt values which ordering assertions rely on.
func createItem(ioc server.IOC, userID, body string, priority int) *model.Item {
	item := &model.Item{
		UserID:   userID,
		BodyText: body,
		Priority: priority,
	}

	if err := ioc.Database.Save(item); err != nil {
		panic(err)
	}
	return item
}
