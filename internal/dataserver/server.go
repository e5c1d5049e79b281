// Package dataserver publishes a location dataset over HTTP so other widget
// instances can load it through their data URL.
package dataserver

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ruminaider/citysearch/internal/catalog"
	"github.com/ruminaider/citysearch/internal/logger"
	"golang.org/x/time/rate"
)

// DataPath is where the dataset is served.
const DataPath = "/" + catalog.EmbeddedDataPath

// Options tunes the router.
type Options struct {
	// RatePerSecond limits dataset requests per client IP. Zero disables
	// limiting.
	RatePerSecond float64
	Burst         int
}

// NewRouter returns a gin engine serving data at DataPath and a health check
// at /healthz. records is the number of records data decodes to.
func NewRouter(data []byte, records int, opts Options, log *logger.Logger) *gin.Engine {
	if log == nil {
		log = logger.Nop()
	}
	sum := sha256.Sum256(data)
	etag := `"` + hex.EncodeToString(sum[:8]) + `"`

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(log))
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders:    []string{"If-None-Match"},
		ExposeHeaders:   []string{"ETag"},
		MaxAge:          12 * time.Hour,
	}))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "records": records})
	})

	serveData := func(c *gin.Context) {
		c.Header("ETag", etag)
		c.Header("Cache-Control", "public, max-age=3600")
		if c.GetHeader("If-None-Match") == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", data)
	}

	dataset := engine.Group("")
	if opts.RatePerSecond > 0 {
		dataset.Use(newIPRateLimiter(rate.Limit(opts.RatePerSecond), max(opts.Burst, 1), log).limit())
	}
	dataset.GET(DataPath, serveData)
	dataset.HEAD(DataPath, serveData)
	engine.OPTIONS(DataPath, func(c *gin.Context) { c.Status(http.StatusNoContent) })

	return engine
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.HTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}

// limiterTTL is how long an idle client's bucket is kept.
const limiterTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// ipRateLimiter keeps one token bucket per client IP. Buckets idle for
// longer than ttl are evicted by an occasional sweep on the request path.
type ipRateLimiter struct {
	visitors  sync.Map // ip -> *visitor
	rate      rate.Limit
	burst     int
	ttl       time.Duration
	now       func() time.Time
	lastSweep atomic.Int64
	log       *logger.Logger
}

func newIPRateLimiter(r rate.Limit, burst int, log *logger.Logger) *ipRateLimiter {
	i := &ipRateLimiter{rate: r, burst: burst, ttl: limiterTTL, now: time.Now, log: log}
	i.lastSweep.Store(i.now().UnixNano())
	return i
}

func (i *ipRateLimiter) limiter(ip string) *rate.Limiter {
	now := i.now().UnixNano()
	i.sweep(now)

	if v, ok := i.visitors.Load(ip); ok {
		v := v.(*visitor)
		v.lastSeen.Store(now)
		return v.limiter
	}
	fresh := &visitor{limiter: rate.NewLimiter(i.rate, i.burst)}
	fresh.lastSeen.Store(now)
	v, _ := i.visitors.LoadOrStore(ip, fresh)
	return v.(*visitor).limiter
}

// sweep drops idle visitors at most once per ttl.
func (i *ipRateLimiter) sweep(now int64) {
	last := i.lastSweep.Load()
	if now-last < int64(i.ttl) || !i.lastSweep.CompareAndSwap(last, now) {
		return
	}
	i.visitors.Range(func(key, value any) bool {
		if now-value.(*visitor).lastSeen.Load() > int64(i.ttl) {
			i.visitors.Delete(key)
		}
		return true
	})
}

func (i *ipRateLimiter) limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !i.limiter(ip).Allow() {
			i.log.RateLimitExceeded(ip, c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
