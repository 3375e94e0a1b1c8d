package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/visioncare/clinic-system/internal/api/handler"
	"github.com/visioncare/clinic-system/internal/api/middleware"
	"github.com/visioncare/clinic-system/internal/core/domain"
	"github.com/visioncare/clinic-system/internal/core/ports"
	"github.com/visioncare/clinic-system/internal/core/service"
	mongodb "github.com/visioncare/clinic-system/internal/infrastructure/db/mongo"
	redisdb "github.com/visioncare/clinic-system/internal/infrastructure/db/redis"
	"github.com/visioncare/clinic-system/internal/infrastructure/notify"
)

// Dependencies carries everything the router needs that is owned by the
// caller: connections, the audit recorder (its worker lifecycle belongs to
// main), and the token configuration.
type Dependencies struct {
	DB        *mongo.Database
	Redis     *goredis.Client // optional; nil disables reset throttling
	Audit     ports.AuditRecorder
	JWTSecret string
	TokenTTL  time.Duration
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("clinic"))

	// --- Dependencies ---
	accountRepo := mongodb.NewAccountRepository(deps.DB)
	creds := service.NewCredentialStore(accountRepo)
	tokens := service.NewTokenService(deps.JWTSecret, deps.TokenTTL)
	notifier := notify.NewLogNotifier(deps.Log)

	var throttle ports.ResetThrottle
	if deps.Redis != nil {
		throttle = redisdb.NewResetThrottle(deps.Redis, 15*time.Minute)
	}

	authService := service.NewAuthService(creds, tokens, deps.Audit, notifier, throttle, deps.Log)
	authHandler := handler.NewAuthHandler(authService)

	patientRepo := mongodb.NewPatientRepository(deps.DB)
	appointmentRepo := mongodb.NewAppointmentRepository(deps.DB)
	patientService := service.NewPatientService(patientRepo, appointmentRepo, deps.Log)
	patientHandler := handler.NewPatientHandler(patientService)
	appointmentHandler := handler.NewAppointmentHandler(patientService)

	authMiddleware := middleware.Auth(tokens)
	anyStaff := middleware.RequireRole(domain.RoleAdmin, domain.RoleOptometrist)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/password/change", authHandler.ChangePassword)
	e.POST("/auth/password/reset", authHandler.ResetPassword)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)

	// --- Patient routes (authenticated staff) ---
	patients := e.Group("/patients", authMiddleware, anyStaff)
	patients.POST("", patientHandler.Create)
	patients.GET("", patientHandler.List)
	patients.GET("/:email", patientHandler.Get)

	// --- Appointment routes ---
	appointments := e.Group("/appointments", authMiddleware, anyStaff)
	appointments.POST("", appointmentHandler.Schedule)
	appointments.GET("", appointmentHandler.List)
	appointments.PATCH("/:id/status", appointmentHandler.UpdateStatus, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
