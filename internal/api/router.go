package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/myflix/movie-api/docs"
	"github.com/myflix/movie-api/internal/api/handler"
	"github.com/myflix/movie-api/internal/api/middleware"
	"github.com/myflix/movie-api/internal/core/ports"
)

const welcomeMessage = "Welcome to the Movie API!!!"

// Deps holds everything the router wires into handlers.
type Deps struct {
	Auth   ports.AuthService
	Guard  ports.AccessGuard
	Users  ports.UserService
	Movies ports.MovieService
	Images ports.ImageStore
	// Checks are run by /health/ready, keyed by dependency name.
	Checks map[string]handler.CheckFunc
	Log    zerolog.Logger

	CORSOrigins []string
	PublicDir   string
	// Gatherer backs /metrics. Nil disables the endpoint and request metrics.
	Gatherer prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestScope(d.Log))
	if d.Gatherer != nil {
		e.Use(middleware.Metrics())
	}
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	if d.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// --- Public routes ---
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, welcomeMessage)
	})
	if d.PublicDir != "" {
		e.Static("/documentation", d.PublicDir)
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/login", authHandler.Login)

	userHandler := handler.NewUserHandler(d.Users)
	e.POST("/users", userHandler.Register)

	imageHandler := handler.NewImageHandler(d.Images)
	e.GET("/images/:id", imageHandler.Get)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler(d.Checks)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Token-gated routes ---
	authMiddleware := middleware.Auth(d.Guard, d.Log)
	self := middleware.SelfOnly("username")

	users := e.Group("/users", authMiddleware)
	users.GET("/:username", userHandler.Get)
	users.PUT("/:username", userHandler.Update, self)
	users.DELETE("/:username", userHandler.Delete, self)
	users.POST("/:username/movies/:movie_id", userHandler.AddFavorite, self)
	users.DELETE("/:username/movies/:movie_id", userHandler.RemoveFavorite, self)

	movieHandler := handler.NewMovieHandler(d.Movies)
	movies := e.Group("/movies", authMiddleware)
	movies.GET("", movieHandler.List)
	movies.GET("/genres/:name", movieHandler.GetGenre)
	movies.GET("/directors/:name", movieHandler.GetDirector)
	movies.GET("/:title", movieHandler.GetByTitle)

	return e
}
