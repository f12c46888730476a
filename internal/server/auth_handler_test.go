package server_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/appleboy/gofight/v2"
	"github.com/mdouchement/impulsestop/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authentication struct {
	User struct {
		UUID      string `json:"uuid"`
		Email     string `json:"email"`
		Anonymous bool   `json:"anonymous"`
	} `json:"user"`
	Token   string `json:"token"`
	Session struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	} `json:"session"`
}

func TestRequestRegister(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	params := gofight.D{
		"email":    "george.abitbol@nowhere.lan",
		"password": "password42",
	}

	r.POST("/auth").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		var v authentication
		require.NoError(t, json.Unmarshal(r.Body.Bytes(), &v))
		assert.NotEmpty(t, v.User.UUID)
		assert.Equal(t, "george.abitbol@nowhere.lan", v.User.Email)
		assert.False(t, v.User.Anonymous)
		assert.NotEmpty(t, v.Token)
		assert.NotEmpty(t, v.Session.AccessToken)
		assert.NotEmpty(t, v.Session.RefreshToken)
	})

	// The email is now taken.
	r.POST("/auth").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"message":"This email is already registered."}}`, r.Body.String())
	})
}

func TestRequestRegisterMissingParams(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	r.POST("/auth").SetJSON(gofight.D{"password": "password42"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"message":"No email provided."}}`, r.Body.String())
	})

	r.POST("/auth").SetJSON(gofight.D{"email": "george.abitbol@nowhere.lan"}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"message":"No password provided."}}`, r.Body.String())
	})
}

func TestRequestLogin(t *testing.T) {
	engine, ioc, r, cleanup := setup()
	defer cleanup()

	user := createUser(ioc)

	params := gofight.D{
		"email":    user.Email,
		"password": "wrong",
	}
	r.POST("/auth/sign_in").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"message":"Invalid email or password."}}`, r.Body.String())
	})

	params["password"] = "password42"
	r.POST("/auth/sign_in").SetJSON(params).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		var v authentication
		require.NoError(t, json.Unmarshal(r.Body.Bytes(), &v))
		assert.Equal(t, user.ID, v.User.UUID)
		assert.NotEmpty(t, v.Token)
	})
}

func TestRequestLoginAnonymous(t *testing.T) {
	engine, _, r, cleanup := setup()
	defer cleanup()

	r.POST("/auth/sign_in/anonymous").SetJSON(gofight.D{}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		var v authentication
		require.NoError(t, json.Unmarshal(r.Body.Bytes(), &v))
		assert.True(t, v.User.Anonymous)
		assert.NotEmpty(t, v.Token)
	})
}

func TestRequestLogout(t *testing.T) {
	engine, ioc, r, cleanup := setup()
	defer cleanup()

	user := createUser(ioc)
	header := gofight.H{
		"Authorization": "Bearer " + server.CreateJWT(ioc, user),
	}

	var v authentication
	r.POST("/auth/sign_in").SetJSON(gofight.D{
		"email":    user.Email,
		"password": "password42",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.NoError(t, json.Unmarshal(r.Body.Bytes(), &v))
	})

	r.POST("/auth/sign_out").SetHeader(header).SetJSON(gofight.D{
		"access_token": v.Session.AccessToken,
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusNoContent, r.Code)
	})

	// The session pair is gone.
	r.POST("/session/refresh").SetHeader(header).SetJSON(gofight.D{
		"access_token":  v.Session.AccessToken,
		"refresh_token": v.Session.RefreshToken,
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"message":"Invalid login credentials."}}`, r.Body.String())
	})
}

func TestRequestUpdateEmail(t *testing.T) {
	engine, ioc, r, cleanup := setup()
	defer cleanup()

	user := createUser(ioc)
	header := gofight.H{
		"Authorization": "Bearer " + server.CreateJWT(ioc, user),
	}

	r.POST("/auth/update").SetHeader(header).SetJSON(gofight.D{
		"new_email": "hugo.abitbol@nowhere.lan",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
	})

	u, err := ioc.Database.FindUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hugo.abitbol@nowhere.lan", u.Email)
}

func TestRequestUpdatePassword(t *testing.T) {
	engine, ioc, r, cleanup := setup()
	defer cleanup()

	user := createUser(ioc)
	token := server.CreateJWT(ioc, user)
	header := gofight.H{"Authorization": "Bearer " + token}

	r.POST("/auth/change_pw").SetHeader(header).SetJSON(gofight.D{
		"current_password": "wrong",
		"new_password":     "password1337",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"message":"The current password you entered is incorrect."}}`, r.Body.String())
	})

	r.POST("/auth/change_pw").SetHeader(header).SetJSON(gofight.D{
		"current_password": "password42",
		"new_password":     "password1337",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		var v authentication
		require.NoError(t, json.Unmarshal(r.Body.Bytes(), &v))
		assert.NotEmpty(t, v.Token)
	})

	// Tokens issued before the change are revoked. PasswordUpdatedAt has
	// second resolution, push it past the token's iat.
	u, err := ioc.Database.FindUser(user.ID)
	require.NoError(t, err)
	u.PasswordUpdatedAt = time.Now().Add(time.Minute).Unix()
	require.NoError(t, ioc.Database.Save(u))

	r.GET("/items").SetHeader(header).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"tag":"invalid-auth","message":"Revoked token."}}`, r.Body.String())
	})
}

func TestRequestResetPassword(t *testing.T) {
	engine, ioc, r, cleanup := setup()
	defer cleanup()

	createUser(ioc)

	// Registered or not, the answer is the same.
	for _, email := range []string{"george.abitbol@nowhere.lan", "nobody@nowhere.lan"} {
		r.POST("/auth/reset_pw").SetJSON(gofight.D{"email": email}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
			assert.Equal(t, http.StatusOK, r.Code)
			assert.JSONEq(t, `{"sent":true}`, r.Body.String())
		})
	}
}

func TestRequestDeleteAccount(t *testing.T) {
	engine, ioc, r, cleanup := setup()
	defer cleanup()

	user := createUser(ioc)
	createItem(ioc, user.ID, "a new phone", 1)
	header := gofight.H{
		"Authorization": "Bearer " + server.CreateJWT(ioc, user),
	}

	// Write the audit record first, like the cancellation flow does.
	r.PUT("/tombstone").SetHeader(header).SetJSON(gofight.D{}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
	})

	r.DELETE("/auth").SetHeader(header).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusNoContent, r.Code)
	})

	_, err := ioc.Database.FindUser(user.ID)
	assert.True(t, ioc.Database.IsNotFound(err))

	items, err := ioc.Database.FindItemsByUserID(user.ID, "UpdatedAt", false)
	assert.NoError(t, err)
	assert.Empty(t, items)

	// The audit record survives the account.
	tombstone, err := ioc.Database.FindTombstoneByUserID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, user.Email, tombstone.Email)
}

func TestRequestRefreshSession(t *testing.T) {
	engine, ioc, r, cleanup := setup()
	defer cleanup()

	user := createUser(ioc)
	header := gofight.H{
		"Authorization": "Bearer " + server.CreateJWT(ioc, user),
	}

	var v authentication
	r.POST("/auth/sign_in").SetJSON(gofight.D{
		"email":    user.Email,
		"password": "password42",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.NoError(t, json.Unmarshal(r.Body.Bytes(), &v))
	})

	r.POST("/session/refresh").SetHeader(header).SetJSON(gofight.D{
		"access_token":  v.Session.AccessToken,
		"refresh_token": v.Session.RefreshToken,
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)

		var refreshed authentication
		require.NoError(t, json.Unmarshal(r.Body.Bytes(), &refreshed))
		assert.NotEmpty(t, refreshed.Token)
		assert.NotEqual(t, v.Session.AccessToken, refreshed.Session.AccessToken)
		assert.NotEqual(t, v.Session.RefreshToken, refreshed.Session.RefreshToken)
	})
}

func TestRequestRefreshSessionForgedToken(t *testing.T) {
	engine, ioc, r, cleanup := setup()
	defer cleanup()

	user := createUser(ioc)
	header := gofight.H{
		"Authorization": "Bearer " + server.CreateJWT(ioc, user),
	}

	var v authentication
	r.POST("/auth/sign_in").SetJSON(gofight.D{
		"email":    user.Email,
		"password": "password42",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusOK, r.Code)
		assert.NoError(t, json.Unmarshal(r.Body.Bytes(), &v))
	})

	// A valid access token with a forged refresh token is rejected.
	r.POST("/session/refresh").SetHeader(header).SetJSON(gofight.D{
		"access_token":  v.Session.AccessToken,
		"refresh_token": "forged-refresh-token",
	}).Run(engine, func(r gofight.HTTPResponse, rq gofight.HTTPRequest) {
		assert.Equal(t, http.StatusUnauthorized, r.Code)
		assert.JSONEq(t, `{"error":{"message":"Invalid login credentials."}}`, r.Body.String())
	})
}
