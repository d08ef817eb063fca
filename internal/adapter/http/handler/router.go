package handler

import (
	"temple-receipt-service/internal/adapter/http/middleware"
	"temple-receipt-service/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Processor        ports.PaymentProcessor
	PaymentVerifier  ports.PaymentVerifier
	IngestSvc        ports.IngestService
	CallbackVerifier ports.CallbackVerifier // nil = callback signature check disabled
	CallbackURL      string
	RecordSvc        ports.RecordService
	TokenSvc         ports.TokenService
	Metrics          ports.MetricsRecorder
	AlertSvc         ports.AlertService // nil = admin alerts disabled
	HealthCheckers   []ports.HealthChecker
	Logger           zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep, verifies PostgreSQL, Redis, and the gateways)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes ---
	paymentHandler := NewPaymentHandler(deps.Processor, deps.PaymentVerifier, deps.AlertSvc, deps.Logger)
	v1.POST("/payments/verify", paymentHandler.VerifyPayment)

	callbackHandler := NewCallbackHandler(deps.IngestSvc, deps.CallbackVerifier, deps.CallbackURL, deps.AlertSvc, deps.Logger)
	v1.POST("/callbacks/whatsapp", callbackHandler.HandleDeliveryReport)

	recordHandler := NewRecordHandler(deps.RecordSvc)
	v1.GET("/records/:receiptNumber", recordHandler.GetRecord)

	statusHandler := NewStatusHandler(deps.Metrics, deps.HealthCheckers)
	v1.GET("/status", statusHandler.GetStatus)

	// --- JWT-authenticated routes (temple office) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	admin := v1.Group("/admin", jwtAuth)
	{
		admin.GET("/records", recordHandler.ListRecords)
		admin.PATCH("/records/:receiptNumber/status", recordHandler.OverrideStatus)
	}

	return r
}
