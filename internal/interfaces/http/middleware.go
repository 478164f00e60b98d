package http

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/balagrajendran/purchase-management-sub000/pkg/logger"
)

const localRequestID = "request_id"

// Hosting domains whose subdomains are always accepted as origins.
var hostingSuffixes = []string{".web.app", ".firebaseapp.com"}

// healthPaths are excluded from the access log.
var healthPaths = map[string]struct{}{
	"/":            {},
	"/healthz":     {},
	"/api/healthz": {},
}

// RequestID tags each request with X-Request-ID, reusing the inbound value when present.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		ContextKey: localRequestID,
	})
}

func requestID(c *fiber.Ctx) string {
	return localString(c, localRequestID)
}

// AccessLog logs one line per request with method, path, status, latency and request id.
func AccessLog(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, skip := healthPaths[c.Path()]; skip {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			status, _ = classify(err)
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", requestID(c)).
			Msg("http request")
		return err
	}
}

// CORS accepts localhost and 127.0.0.1 on any port, the configured frontend origins and
// the hosting domains. Credentials are never allowed. Requests without an Origin header
// and same-origin requests are unaffected.
func CORS(frontendURLs []string) fiber.Handler {
	allowed := append([]string{"http://localhost"}, frontendURLs...)
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowed, ","),
		AllowOriginsFunc: OriginAllowed(frontendURLs),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		ExposeHeaders:    "Content-Disposition,X-Request-ID",
		AllowCredentials: false,
		MaxAge:           600,
	})
}

// OriginAllowed reports whether a browser origin may call the API.
func OriginAllowed(frontendURLs []string) func(origin string) bool {
	exact := make(map[string]struct{}, len(frontendURLs))
	for _, o := range frontendURLs {
		exact[strings.ToLower(o)] = struct{}{}
	}
	return func(origin string) bool {
		origin = strings.ToLower(strings.TrimRight(origin, "/"))
		if _, ok := exact[origin]; ok {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			return false
		}
		host := u.Hostname()
		switch host {
		case "localhost", "127.0.0.1":
			return u.Scheme == "http" || u.Scheme == "https"
		}
		if u.Scheme != "https" {
			return false
		}
		for _, suffix := range hostingSuffixes {
			if strings.HasSuffix(host, suffix) && len(host) > len(suffix) {
				return true
			}
		}
		return false
	}
}

// LoginLimiter throttles login attempts per client IP.
func LoginLimiter(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many login attempts, try again later")
		},
	})
}
