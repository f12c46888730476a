package server

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mdouchement/impulsestop/internal/database"
	"github.com/mdouchement/impulsestop/internal/mailer"
	"github.com/mdouchement/impulsestop/internal/model"
	"github.com/mdouchement/impulsestop/internal/server/middlewares"
	"github.com/mdouchement/impulsestop/internal/server/session"
)

// An IOC is an Inversion Of Control pattern used to init the server package.
type IOC struct {
	Version        string
	Database       database.Client
	Broker         *database.Broker
	Mailer         mailer.Mailer
	NoRegistration bool
	// JWT params
	SigningKey []byte
	// Session params
	RefreshTokenExpirationTime time.Duration
}

// EchoEngine instantiates the wep server.
func EchoEngine(ioc IOC) *echo.Echo {
	engine := echo.New()
	engine.Use(middleware.Recover())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))

	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${status}] ${method} ${uri} (${bytes_in}) ${latency_human}\n",
	}))
	engine.Binder = middlewares.NewBinder()
	// Error handler
	engine.HTTPErrorHandler = middlewares.HTTPErrorHandler

	engine.Pre(middleware.Rewrite(map[string]string{
		"/": "/version",
	}))

	////////////
	// Router //
	////////////

	sessions := session.NewManager(
		ioc.Database,
		ioc.SigningKey,
		ioc.RefreshTokenExpirationTime,
	)

	router := engine.Group("")
	restricted := router.Group("")
	restricted.Use(middlewares.CurrentUser(sessions))

	// generic handlers
	//
	router.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ioc.Version,
		})
	})

	//
	// auth handlers
	//
	auth := &auth{
		db:       ioc.Database,
		sessions: sessions,
		mailer:   ioc.Mailer,
	}
	if !ioc.NoRegistration {
		router.POST("/auth", auth.Register)
	}
	router.POST("/auth/sign_in", auth.Login)
	router.POST("/auth/sign_in/anonymous", auth.LoginAnonymous)
	router.POST("/auth/reset_pw", auth.ResetPassword)
	restricted.POST("/auth/sign_out", auth.Logout)
	restricted.POST("/auth/update", auth.UpdateEmail)
	restricted.POST("/auth/change_pw", auth.UpdatePassword)
	restricted.DELETE("/auth", auth.Delete)
	restricted.POST("/session/refresh", auth.Refresh)

	//
	// priority catalog handler
	//
	priority := &priority{
		db: ioc.Database,
	}
	restricted.GET("/priorities", priority.Index)

	//
	// item handlers
	//
	item := &item{
		db:     ioc.Database,
		broker: ioc.Broker,
	}
	restricted.GET("/items", item.Index)
	restricted.POST("/items", item.Create)
	restricted.GET("/items/stream", item.Stream)
	restricted.GET("/items/:id", item.Show)
	restricted.PUT("/items/:id", item.Update)
	restricted.DELETE("/items/:id", item.Delete)

	//
	// cancellation audit handlers
	//
	tombstone := &tombstone{
		db: ioc.Database,
	}
	restricted.PUT("/tombstone", tombstone.Create)
	restricted.GET("/tombstone", tombstone.Show)

	return engine
}

// PrintRoutes prints the Echo engine exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}

func currentUser(c echo.Context) *model.User {
	user, ok := c.Get(middlewares.CurrentUserContextKey).(*model.User)
	if ok {
		return user
	}
	return nil
}

// scope returns the partition the given user reads from.
// Trial sessions are served from the fixed sample partition.
func scope(user *model.User) string {
	if user.Anonymous {
		return model.SampleUserID
	}
	return user.ID
}
