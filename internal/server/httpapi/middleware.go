package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/foodgram/internal/common"
)

const userIDKey = "userID"

// authenticate resolves the Authorization header, if any, to a user id.
// Requests without the header proceed anonymously; a bad token is rejected.
func (s *HTTPServer) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if header == "" {
			c.Next()
			return
		}

		scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
		if !ok || (scheme != common.TokenSchemeToken && scheme != common.TokenSchemeBearer) {
			s.abortWithError(c, common.ErrInvalidToken)
			return
		}

		userID, err := s.svc.Users.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			s.abortWithError(c, err)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func requireUser(c *gin.Context) {
	if currentUser(c) == 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(common.Message(common.ErrorUnauthorized)))
		return
	}
	c.Next()
}

// currentUser returns the authenticated user id, or 0 for anonymous requests.
func currentUser(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}

func (s *HTTPServer) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "foodgram_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "foodgram_http_request_duration_seconds",
				Help:    "Time taken to serve HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *metrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
