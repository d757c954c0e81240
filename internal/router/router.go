package router

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"tourneyhub/internal/auth"
	"tourneyhub/internal/config"
	apperrors "tourneyhub/internal/errors"
	"tourneyhub/internal/handler"
	"tourneyhub/internal/middleware"
	"tourneyhub/internal/model"
)

// multipartOverhead is allowed on top of the evidence size for form fields and boundaries.
const multipartOverhead = 64 << 10

// Handlers groups the HTTP handlers and the collaborators the route gates need.
type Handlers struct {
	Auth       *handler.AuthHandler
	Employees  *handler.EmployeeHandler
	Events     *handler.EventHandler
	Payments   *handler.PaymentHandler
	Moderation *handler.ModerationHandler

	Sessions    *auth.SessionStore
	Permissions middleware.PermissionSource
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, h Handlers) {
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Validator = NewValidator()

	e.Use(echomw.RequestID())
	e.Use(echo.WrapMiddleware(otelhttp.NewMiddleware("tourneyhub")))
	e.Use(middleware.RequestLogger())
	e.Use(echomw.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/uploads", cfg.UploadDir)

	api := e.Group("/api", middleware.LoadSession(h.Sessions, cfg.SessionCookieName))

	// Public routes
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/auth/session", h.Auth.Session)
	api.GET("/events/published", h.Events.ListPublished)
	api.POST("/moderation/check", h.Moderation.Check, moderationLimiter(cfg.ModerationRPS))

	// Gates are per route so unknown /api paths still answer 404.
	authenticated := middleware.RequireSession(h.Sessions, cfg.SessionCookieName)
	evidenceLimit := echomw.BodyLimit(fmt.Sprintf("%dK", (cfg.MaxEvidenceBytes+multipartOverhead)/1024))
	api.POST("/payments/submit", h.Payments.Submit, authenticated, evidenceLimit)

	adminOnly := middleware.RequireRoles(model.RoleAdmin)
	api.GET("/employees", h.Employees.List, adminOnly)
	api.POST("/employees", h.Employees.Create, adminOnly)
	api.PUT("/employees/:id", h.Employees.UpdatePermissions, adminOnly)
	api.GET("/payments/summary", h.Payments.Summary, adminOnly)

	staff := middleware.RequireRoles(auth.StaffRoles...)
	manageEvents := middleware.RequireCapability(auth.CapManageEvents, h.Permissions)
	api.GET("/events", h.Events.ListAll, staff, manageEvents)
	api.POST("/events", h.Events.Create, staff, manageEvents)
	api.PUT("/events/:id/status", h.Events.SetStatus, staff, manageEvents)

	validatePayments := middleware.RequireCapability(auth.CapValidatePayments, h.Permissions)
	api.GET("/payments/pending", h.Payments.ListPending, staff, validatePayments)
	api.PUT("/payments/:id/validate", h.Payments.Decide, staff, validatePayments)
}

func moderationLimiter(rps float64) echo.MiddlewareFunc {
	if rps <= 0 {
		rps = 1
	}
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rps),
		Burst:     int(rps*5) + 1,
		ExpiresIn: 3 * time.Minute,
	})
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, please slow down")
		},
	})
}

// CustomValidator wraps validator for Echo and reports failures per JSON field.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator builds a validator that names fields by their json tag.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		fields[fieldPath(fe)] = describe(fe)
	}
	return apperrors.Validation("invalid input", fields)
}

// fieldPath drops the struct name from the namespace: "Req.permissions.manageEvents" -> "permissions.manageEvents".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}
