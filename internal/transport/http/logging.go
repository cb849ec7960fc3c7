package http

import (
	"encoding/json"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/quizhub/quizhub-api/internal/domain"
)

const (
	requestBodyLogKey  = "http.request.body.summary"
	responseBodyLogKey = "http.response.body.summary"
	maxLoggedBody      = 2048
)

// Credential endpoints see plaintext passwords, reset secrets, and signed
// tokens in request bodies. Every field whose key hints at one of those is
// redacted before anything reaches the log stream.
var sensitiveKeyHints = []string{"password", "token", "secret", "otp"}

func registerLogging(e *echo.Echo) {
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			accountID := "anonymous"
			if account, ok := c.Get(contextAccountKey).(*domain.Account); ok && account != nil {
				accountID = account.ID.String()
			}

			payload := struct {
				Time      string `json:"time"`
				AccountID string `json:"account_id"`
				LatencyMS int64  `json:"latency_ms"`
				Request   struct {
					Method string      `json:"method"`
					URI    string      `json:"uri"`
					Body   interface{} `json:"body,omitempty"`
				} `json:"request"`
				Response struct {
					Status int         `json:"status"`
					Body   interface{} `json:"body,omitempty"`
					Error  string      `json:"error,omitempty"`
				} `json:"response"`
			}{
				Time:      v.StartTime.Format(time.RFC3339),
				AccountID: accountID,
				LatencyMS: v.Latency.Milliseconds(),
			}

			payload.Request.Method = v.Method
			payload.Request.URI = sanitizeURI(v.URI)
			if summary := c.Get(requestBodyLogKey); summary != nil {
				payload.Request.Body = summary
			}
			payload.Response.Status = v.Status
			if summary := c.Get(responseBodyLogKey); summary != nil {
				payload.Response.Body = summary
			}
			if v.Error != nil {
				payload.Response.Error = v.Error.Error()
			}

			buf, err := json.Marshal(payload)
			if err != nil {
				return err
			}
			log.Println(string(buf))
			return nil
		},
	}))

	e.Use(middleware.BodyDump(func(c echo.Context, reqBody, resBody []byte) {
		if summary := sanitizeBody(reqBody); summary != nil {
			c.Set(requestBodyLogKey, summary)
		}
		if summary := sanitizeBody(resBody); summary != nil {
			c.Set(responseBodyLogKey, summary)
		}
	}))
}

// sanitizeURI hides verification tokens carried in the path of
// GET /api/v1/auth/verify/:token.
func sanitizeURI(uri string) string {
	const verifyPrefix = "/api/v1/auth/verify/"
	if strings.HasPrefix(uri, verifyPrefix) {
		return verifyPrefix + "redacted"
	}
	return uri
}

func sanitizeBody(body []byte) interface{} {
	if len(body) == 0 {
		return nil
	}
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		lowered := strings.ToLower(string(body))
		for _, hint := range sensitiveKeyHints {
			if strings.Contains(lowered, hint) {
				return "redacted"
			}
		}
		return clampString(string(body))
	}
	return sanitizeJSON(data, "")
}

func sanitizeJSON(value interface{}, keyHint string) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, val := range v {
			lowerKey := strings.ToLower(key)
			if isSensitiveKey(lowerKey) {
				result[key] = "redacted"
				continue
			}
			result[key] = sanitizeJSON(val, lowerKey)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = sanitizeJSON(item, keyHint)
		}
		return result
	case string:
		if isSensitiveKey(keyHint) {
			return "redacted"
		}
		return clampString(v)
	default:
		return v
	}
}

func isSensitiveKey(key string) bool {
	for _, hint := range sensitiveKeyHints {
		if strings.Contains(key, hint) {
			return true
		}
	}
	return false
}

func clampString(value string) string {
	if len(value) <= maxLoggedBody {
		return value
	}
	truncated := value[:maxLoggedBody]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated + "...(truncated)"
}
