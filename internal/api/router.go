package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/csemotors/dealership/docs"
	"github.com/csemotors/dealership/internal/api/auth"
	"github.com/csemotors/dealership/internal/api/flash"
	"github.com/csemotors/dealership/internal/api/handler"
	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/api/validation"
	"github.com/csemotors/dealership/internal/api/view"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
	"github.com/csemotors/dealership/internal/core/security"
	"github.com/csemotors/dealership/internal/infrastructure/http/handlers"
)

// LoginPath is where the access gate sends anonymous visitors.
const LoginPath = "/account/login"

// Dependencies is everything the router needs from the outside world.
// Secure marks the jwt and notice cookies Secure and is true in production.
// A nil Registry means the default Prometheus registry.
type Dependencies struct {
	Accounts  ports.AccountService
	Comments  ports.CommentService
	Inventory ports.InventoryService
	Codec     *security.TokenCodec
	Secure    bool
	FlashKey  string
	Readiness *handlers.HealthDependenciesHandler
	Registry  *prometheus.Registry
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	v := validation.New()
	e.Validator = v
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	carrier := auth.NewCarrier(deps.Codec, deps.Secure, deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Secure())
	e.Use(httpMetrics(deps.Registry))
	e.Use(session.Middleware(flash.NewStore(deps.FlashKey, deps.Secure)))
	e.Use(carrier.Middleware())
	e.Use(middleware.ContextLogger(deps.Log))
	e.Use(middleware.RequestLogger(deps.Log))

	// --- Dependencies ---
	pipeline := validation.NewPipeline(v)
	accountHandler := handler.NewAccountHandler(deps.Accounts, deps.Comments, deps.Inventory, carrier, pipeline, deps.Log)
	commentHandler := handler.NewCommentHandler(deps.Comments, deps.Inventory, pipeline, deps.Log)
	inventoryHandler := handler.NewInventoryHandler(deps.Inventory, deps.Comments, pipeline, deps.Log)

	gate := middleware.NewGate(LoginPath, flash.Add)
	signedIn := gate.RequireAuthenticated()
	staff := gate.RequireRole(domain.RoleEmployee, domain.RoleAdmin)

	// --- Public pages ---
	e.GET("/", inventoryHandler.Home)
	e.GET("/inv/type/:classificationId", inventoryHandler.ByClassification)
	e.GET("/inv/detail/:invId", inventoryHandler.Detail)

	// --- Account routes ---
	account := e.Group("/account")
	account.GET("/login", accountHandler.LoginPage)
	account.POST("/login", accountHandler.Login)
	account.GET("/register", accountHandler.RegisterPage)
	account.POST("/register", accountHandler.Register)
	account.GET("/", accountHandler.Home, signedIn)
	account.GET("/update", accountHandler.UpdatePage, signedIn)
	account.POST("/update", accountHandler.UpdateProfile, signedIn)
	account.POST("/password", accountHandler.UpdatePassword, signedIn)
	account.GET("/logout", accountHandler.Logout, signedIn)
	account.GET("/comments", accountHandler.MyComments, signedIn)

	// --- Comment routes (owner checked in the service) ---
	inv := e.Group("/inv")
	inv.POST("/comment", commentHandler.Post, signedIn)
	inv.GET("/comment/edit/:commentId", commentHandler.EditPage, signedIn)
	inv.POST("/comment/update", commentHandler.Update, signedIn)
	inv.POST("/comment/delete", commentHandler.Delete, signedIn)

	// --- Inventory management (Employee | Admin) ---
	manage := inv.Group("", staff)
	manage.GET("/", inventoryHandler.Management)
	manage.GET("/add-classification", inventoryHandler.AddClassificationPage)
	manage.POST("/add-classification", inventoryHandler.AddClassification)
	manage.GET("/add-inventory", inventoryHandler.AddVehiclePage)
	manage.POST("/add-inventory", inventoryHandler.AddVehicle)
	manage.GET("/edit/:invId", inventoryHandler.EditPage)
	manage.POST("/update", inventoryHandler.Update)
	manage.GET("/delete/:invId", inventoryHandler.DeletePage)
	manage.POST("/delete", inventoryHandler.Delete)
	manage.GET("/comments/moderation", commentHandler.Moderation)

	// --- JSON API ---
	apiGate := gate.API()
	e.GET("/inv/getInventory/:classification_id", inventoryHandler.InventoryJSON,
		middleware.JSONErrors(),
		apiGate.RequireRole(domain.RoleEmployee, domain.RoleAdmin),
	)

	// --- Operations (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	ops := e.Group("", middleware.JSONErrors())
	ops.GET("/health", healthHandler.Liveness)
	if deps.Readiness != nil {
		ops.GET("/health/ready", deps.Readiness.Readiness)
	}
	ops.GET("/metrics", metricsHandler(deps.Registry))
	ops.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}

func httpMetrics(reg *prometheus.Registry) echo.MiddlewareFunc {
	if reg == nil {
		return echoprometheus.NewMiddleware("dealership")
	}
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "dealership",
		Registerer: reg,
	})
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}
