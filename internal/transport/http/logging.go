package http

import (
	"encoding/json"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/affistack/affistack-api/internal/domain"
)

// registerLogging emits one JSON line per request through the standard log
// package, which main mirrors to Logstash. Bodies are never logged; auth
// requests carry credentials.
func registerLogging(e *echo.Echo) {
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			userID := "anonymous"
			if principal, ok := c.Get(contextPrincipalKey).(*domain.Principal); ok && principal != nil {
				userID = principal.UserID.String()
			}

			entry := struct {
				Time      string `json:"time"`
				UserID    string `json:"user_id"`
				Method    string `json:"method"`
				URI       string `json:"uri"`
				Status    int    `json:"status"`
				LatencyMS int64  `json:"latency_ms"`
				Error     string `json:"error,omitempty"`
			}{
				Time:      time.Now().UTC().Format(time.RFC3339Nano),
				UserID:    userID,
				Method:    v.Method,
				URI:       v.URI,
				Status:    v.Status,
				LatencyMS: v.Latency.Milliseconds(),
			}
			if v.Error != nil {
				entry.Error = v.Error.Error()
			}

			payload, err := json.Marshal(entry)
			if err != nil {
				return nil
			}
			log.Println(string(payload))
			return nil
		},
	}))
}
