package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
	"bitbucket.org/mmdatafocus/catalog_backend/middlewares"
	"bitbucket.org/mmdatafocus/catalog_backend/models"
	"bitbucket.org/mmdatafocus/catalog_backend/pricing"
	"bitbucket.org/mmdatafocus/catalog_backend/utils"
	"github.com/bsm/redislock"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

const defaultPort = "8080"

var tracer = otel.Tracer("catalog-pricing")

// RateLimiter is a fixed-window limiter backed by Redis INCR/EXPIRE.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	key := "ratelimit:" + c.ClientIP()
	count, err := rl.client.Incr(c.Request.Context(), key).Result()
	if err != nil {
		// Redis trouble must not take the API down.
		c.Next()
		return
	}
	if count == 1 {
		rl.client.Expire(c.Request.Context(), key, rl.window)
	}
	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}
	c.Next()
}

// PubSubMessage is the Pub/Sub push envelope.
type PubSubMessage struct {
	Message struct {
		Data []byte `json:"data,omitempty"`
		ID   string `json:"id"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

func getRedisClient(redisAddress string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})
}

func retailPriceCacheKey(businessId string, productId int) string {
	return fmt.Sprintf("RetailPrice:%s:%d", businessId, productId)
}

// computeDefaultRetailPrice runs the engine for a product under the tenant's
// default configuration and lowest-cost primary vendor, and caches the
// result. This is the path the order-creation UI, the pubsub refresh flow
// and the export share.
func computeDefaultRetailPrice(ctx context.Context, businessId string, productId int) (pricing.Result, error) {
	cfg, err := models.GetDefaultPricingConfiguration(ctx, businessId)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return pricing.Result{Explanation: pricing.ExplanationNoPrice}, nil
		}
		return pricing.Result{}, err
	}
	engineCfg := cfg.EngineConfig()
	if err := engineCfg.Validate(); err != nil {
		return pricing.Result{}, err
	}

	quotes, err := models.GetVendorQuotes(ctx, businessId, productId)
	if err != nil {
		return pricing.Result{}, err
	}
	vendors, err := models.GetVendorMap(ctx, businessId)
	if err != nil {
		return pricing.Result{}, err
	}
	engineQuotes := models.EngineQuotes(quotes, vendors)

	primary, ok := models.ChooseLowestCostQuote(engineQuotes)
	if !ok {
		return pricing.Result{Explanation: pricing.ExplanationNoPrice}, nil
	}

	result := pricing.ComputeRetailPrice(engineCfg, primary, engineQuotes)
	if !config.PricingCacheDisabled() {
		_ = config.SetRedisObject(retailPriceCacheKey(businessId, productId), &result, utils.GetCacheLifespan())
	}
	return result, nil
}

type computePriceRequest struct {
	BusinessId      string `json:"business_id" binding:"required"`
	ProductId       int    `json:"product_id" binding:"required"`
	ConfigurationId int    `json:"configuration_id"`
	VendorId        int    `json:"vendor_id"`
}

// computePriceHandler prices one product from cached vendor quotes. With no
// configuration_id/vendor_id it uses the tenant default + lowest-cost vendor
// (cacheable); otherwise it computes for the explicit selection.
func computePriceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		var req computePriceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		ctx := utils.SetBusinessIdInContext(c.Request.Context(), req.BusinessId)
		ctx, span := tracer.Start(ctx, "computePriceHandler")
		defer span.End()

		defaultSelection := req.ConfigurationId == 0 && req.VendorId == 0

		if defaultSelection && !config.PricingCacheDisabled() {
			var cached pricing.Result
			exists, err := config.GetRedisObject(retailPriceCacheKey(req.BusinessId, req.ProductId), &cached)
			if err == nil && exists {
				respondPrice(c, req.ProductId, cached, true)
				return
			}
		}

		if defaultSelection {
			result, err := computeDefaultRetailPrice(ctx, req.BusinessId, req.ProductId)
			if err != nil {
				config.LogError(logger, "server.go", "computePriceHandler", "computeDefaultRetailPrice", req, err)
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			respondPrice(c, req.ProductId, result, false)
			return
		}

		var (
			cfg *models.PricingConfiguration
			err error
		)
		if req.ConfigurationId != 0 {
			cfg, err = models.GetPricingConfiguration(ctx, req.BusinessId, req.ConfigurationId)
		} else {
			cfg, err = models.GetDefaultPricingConfiguration(ctx, req.BusinessId)
		}
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "pricing configuration not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		engineCfg := cfg.EngineConfig()
		if err := engineCfg.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		quotes, err := models.GetVendorQuotes(ctx, req.BusinessId, req.ProductId)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		vendors, err := models.GetVendorMap(ctx, req.BusinessId)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		engineQuotes := models.EngineQuotes(quotes, vendors)

		var (
			primary pricing.Quote
			found   bool
		)
		if req.VendorId != 0 {
			want := strconv.Itoa(req.VendorId)
			for _, q := range engineQuotes {
				if q.VendorId == want {
					primary, found = q, true
					break
				}
			}
		} else {
			primary, found = models.ChooseLowestCostQuote(engineQuotes)
		}
		if !found {
			respondPrice(c, req.ProductId, pricing.Result{Explanation: pricing.ExplanationNoPrice}, false)
			return
		}

		respondPrice(c, req.ProductId, pricing.ComputeRetailPrice(engineCfg, primary, engineQuotes), false)
	}
}

func respondPrice(c *gin.Context, productId int, result pricing.Result, fromCache bool) {
	cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"product_id":     productId,
		"price":          result.Price,
		"margin_percent": result.MarginPercent,
		"explanation":    result.Explanation,
		"from_cache":     fromCache,
		"correlation_id": cid,
	})
}

type previewPriceRequest struct {
	Config       pricing.Config  `json:"config" binding:"required"`
	PrimaryQuote pricing.Quote   `json:"primary_quote" binding:"required"`
	Quotes       []pricing.Quote `json:"quotes"`
}

// previewPriceHandler computes from an inline configuration and quote set,
// with no storage reads. The configuration editor uses this for live
// what-if previews before saving.
func previewPriceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req previewPriceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			var ve validator.ValidationErrors
			if errors.As(err, &ve) {
				c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if err := req.Config.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		all := req.Quotes
		if len(all) == 0 {
			all = []pricing.Quote{req.PrimaryQuote}
		}
		result := pricing.ComputeRetailPrice(req.Config, req.PrimaryQuote, all)
		c.JSON(http.StatusOK, result)
	}
}

// quoteRefreshPubSubHandler consumes vendor-adapter push events: persist the
// fresh quote snapshot, recompute the product's default retail price, and
// publish a pricing event for webhook/export consumers.
func quoteRefreshPubSubHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var msg PubSubMessage
		logger := config.GetLogger()

		// Redis lock is a best-effort optimization to serialize recompute
		// bursts per business; correctness never depends on it.
		redisLock := config.GetRedisLock()

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			config.LogError(logger, "server.go", "quoteRefreshPubSubHandler", "io.ReadAll", nil, err)
			// Malformed request body: ack/drop to avoid infinite retries.
			c.Status(http.StatusNoContent)
			return
		}

		// byte slice unmarshalling handles base64 decoding.
		if err := json.Unmarshal(body, &msg); err != nil {
			config.LogError(logger, "server.go", "quoteRefreshPubSubHandler", "Unmarshal body", body, err)
			c.Status(http.StatusNoContent)
			return
		}

		var m config.QuoteRefreshMessage
		if err := json.Unmarshal(msg.Message.Data, &m); err != nil {
			config.LogError(logger, "server.go", "quoteRefreshPubSubHandler", "Unmarshal pubsub message", msg.Message.Data, err)
			c.Status(http.StatusNoContent)
			return
		}

		// Basic validation to avoid retry loops on poisoned messages.
		if m.BusinessId == "" || m.ProductId <= 0 || m.VendorId <= 0 {
			config.LogError(logger, "server.go", "quoteRefreshPubSubHandler", "Invalid pubsub message (missing required fields)", m, fmt.Errorf("business_id/product_id/vendor_id required"))
			c.Status(http.StatusNoContent)
			return
		}

		correlationID := m.CorrelationId
		if correlationID == "" {
			correlationID = msg.Message.ID
		}

		var lock *redislock.Lock
		if redisLock != nil {
			lock, err = redisLock.Obtain(c.Request.Context(), fmt.Sprintf("lock:pricing:%s", m.BusinessId), 30*time.Second, nil)
			if err != nil {
				if err != redislock.ErrNotObtained {
					logger.WithFields(logrus.Fields{
						"field":       "quoteRefreshPubSubHandler",
						"business_id": m.BusinessId,
						"product_id":  m.ProductId,
						"message_id":  msg.Message.ID,
					}).Warn("error obtaining redis lock; proceeding without redis lock: " + err.Error())
				}
				lock = nil
			}
		}
		defer func() {
			if lock == nil {
				return
			}
			if releaseErr := lock.Release(c.Request.Context()); releaseErr != nil {
				logger.WithFields(logrus.Fields{
					"field":       "quoteRefreshPubSubHandler",
					"business_id": m.BusinessId,
					"message_id":  msg.Message.ID,
				}).Warn("failed to release redis lock: " + releaseErr.Error())
			}
		}()

		ctx := utils.SetBusinessIdInContext(c.Request.Context(), m.BusinessId)
		ctx = utils.SetCorrelationIdInContext(ctx, correlationID)

		if err := models.UpsertVendorQuote(ctx, m); err != nil {
			logger.WithFields(logrus.Fields{
				"field":          "quoteRefreshPubSubHandler",
				"business_id":    m.BusinessId,
				"product_id":     m.ProductId,
				"vendor_id":      m.VendorId,
				"message_id":     msg.Message.ID,
				"correlation_id": correlationID,
			}).Error("quote upsert failed: " + err.Error())
			// Non-2xx tells Pub/Sub to retry (and potentially route to DLQ).
			c.Status(http.StatusInternalServerError)
			return
		}

		result, err := computeDefaultRetailPrice(ctx, m.BusinessId, m.ProductId)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"field":          "quoteRefreshPubSubHandler",
				"business_id":    m.BusinessId,
				"product_id":     m.ProductId,
				"correlation_id": correlationID,
			}).Error("recompute failed: " + err.Error())
			c.Status(http.StatusInternalServerError)
			return
		}

		if publishErr := config.PublishPricingEvent(ctx, config.PricingEventMessage{
			BusinessId:    m.BusinessId,
			ProductId:     m.ProductId,
			Price:         result.Price,
			MarginPercent: result.MarginPercent,
			Explanation:   result.Explanation,
			ComputedAt:    time.Now().UTC(),
			CorrelationId: correlationID,
		}); publishErr != nil {
			// The snapshot and cache are already updated; consumers can
			// still poll. Log and ack.
			logger.WithFields(logrus.Fields{
				"field":          "quoteRefreshPubSubHandler",
				"business_id":    m.BusinessId,
				"product_id":     m.ProductId,
				"correlation_id": correlationID,
			}).Warn("pricing event publish failed: " + publishErr.Error())
		}

		c.Status(http.StatusNoContent)
	}
}

type exportPriceListRequest struct {
	BusinessId string `json:"business_id" binding:"required"`
}

// exportPriceListHandler builds the XLSX price list for a tenant and uploads
// it to the exports bucket. Internal callers only.
func exportPriceListHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		_, hasUser := utils.GetUsernameFromContext(ctx)
		_, hasService := utils.GetServiceNameFromContext(ctx)
		if !hasUser && !hasService {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req exportPriceListRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if biz, ok := utils.GetBusinessIdFromContext(ctx); ok && biz != "" && biz != req.BusinessId {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx = utils.SetBusinessIdInContext(ctx, req.BusinessId)
		objectName, err := models.ExportPriceList(ctx, req.BusinessId)
		if err != nil {
			config.LogError(config.GetLogger(), "server.go", "exportPriceListHandler", "ExportPriceList", req, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		cid, _ := utils.GetCorrelationIdFromContext(ctx)
		c.JSON(http.StatusOK, gin.H{
			"business_id":    req.BusinessId,
			"object_name":    objectName,
			"correlation_id": cid,
		})
	}
}

func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		for _, ginErr := range c.Errors {
			logger.WithFields(logrus.Fields{
				"path":   c.Request.URL.Path,
				"status": c.Writer.Status(),
			}).Error(ginErr.Error())
		}
	}
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Shutdown coordination.
	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so Cloud Run considers the revision healthy.
	// Until DB/Redis are ready, we return 503 for app endpoints.
	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		// Always allow Cloud Run startup probe.
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate critical endpoints on dependency readiness.
		if config.GetDB() == nil || config.GetRedisDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// Production-safe CORS:
	// - In production, require explicit allowlist via CORS_ALLOWED_ORIGINS (comma-separated).
	// - In non-production, allow all (developer convenience).
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			// Safer default: deny all if not configured in production.
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = true

	r.Use(cors.New(corsConfig))

	// Optional rate limiting (recommended for production).
	// Env:
	// - RATE_LIMIT_ENABLED=true
	// - RATE_LIMIT_WINDOW_SECONDS=60
	// - RATE_LIMIT_MAX_REQUESTS=600
	if strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true") {
		client := getRedisClient(os.Getenv("REDIS_ADDRESS"))
		limit := int64(600)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		windowSec := int64(60)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				windowSec = n
			}
		}
		rateLimiter := NewRateLimiter(client, limit, time.Duration(windowSec)*time.Second)
		r.Use(rateLimiter.RateLimitMiddleware)
	}

	r.Use(middlewares.SessionMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	r.POST("/api/pricing/compute", computePriceHandler())
	r.POST("/api/pricing/preview", previewPriceHandler())
	r.POST("/pubsub", quoteRefreshPubSubHandler())
	r.POST("/internal/export/price-list", exportPriceListHandler())
	r.NoRoute(customNotFoundHandler)

	// Start listening immediately (Cloud Run startup probe is TCP based).
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// IMPORTANT: AutoMigrate can run DDL that blocks tables and causes 504/502 timeouts.
	// Allow disabling migrations on startup (run them as a separate job instead).
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("pricing API listening on port ", port)
	log.Println("Server started successfully")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Drain HTTP requests.
	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}
}
