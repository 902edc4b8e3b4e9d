package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankreco/internal/core/apperror"
	appctx "bankreco/internal/core/context"
	"bankreco/internal/infrastructure/http/v1/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type validatorFunc func(string) (*appctx.UserContext, error)

func (f validatorFunc) ValidateToken(token string) (*appctx.UserContext, error) {
	return f(token)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(), Trace(), ErrorHandler())
	r.Use(mw...)
	return r
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestLanguage(t *testing.T) {
	tests := []struct {
		name   string
		target string
		header string
		want   string
	}{
		{name: "default", target: "/", want: "fr"},
		{name: "query parameter", target: "/?lang=en", want: "en"},
		{name: "accept-language", target: "/", header: "ar-MA,ar;q=0.9", want: "ar"},
		{name: "query wins over header", target: "/?lang=en", header: "ar", want: "en"},
		{name: "unsupported", target: "/?lang=de", want: "fr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(Language())
			var got string
			r.GET("/", func(c *gin.Context) {
				got = appctx.GetLang(c.Request.Context())
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, w.Header().Get("Content-Language"))
		})
	}
}

func TestAuth(t *testing.T) {
	validator := validatorFunc(func(token string) (*appctx.UserContext, error) {
		if token != "good" {
			return nil, errors.New("signature is invalid")
		}
		return &appctx.UserContext{UserID: "7", Username: "amina"}, nil
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer bad", wantStatus: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer good", wantStatus: http.StatusOK, wantUser: "7"},
		{name: "scheme is case-insensitive", header: "bearer good", wantStatus: http.StatusOK, wantUser: "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(Auth(validator))
			r.GET("/", func(c *gin.Context) {
				c.String(http.StatusOK, appctx.GetUserID(c.Request.Context()))
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantUser, w.Body.String())
				return
			}
			assert.Equal(t, apperror.CodeUnauthorized, decodeError(t, w).Code)
		})
	}
}

func TestRequireStaff(t *testing.T) {
	validator := validatorFunc(func(token string) (*appctx.UserContext, error) {
		return &appctx.UserContext{UserID: token, IsStaff: token == "admin"}, nil
	})
	r := newEngine(Auth(validator), RequireStaff())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for token, want := range map[string]int{"admin": http.StatusNoContent, "clerk": http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, token)
	}
}

func TestErrorHandler(t *testing.T) {
	r := newEngine()
	r.GET("/validation", func(c *gin.Context) {
		_ = c.Error(apperror.NewValidation("bad input").WithDetail("field", "code"))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(errors.New("connection reset"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/validation", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, apperror.CodeValidation, body.Code)
	assert.Equal(t, "code", body.Details["field"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plain", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body = decodeError(t, w)
	assert.Equal(t, apperror.CodeInternal, body.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestRecovery(t *testing.T) {
	r := newEngine()
	r.GET("/", func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, apperror.CodeInternal, body.Code)
	assert.Equal(t, "req-1", body.Details["request_id"])
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestTrace(t *testing.T) {
	r := newEngine()
	var requestID string
	r.GET("/", func(c *gin.Context) {
		requestID = appctx.GetRequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, requestID)
	assert.Equal(t, requestID, w.Header().Get(HeaderRequestID))
	assert.NotEmpty(t, w.Header().Get(HeaderTraceID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "given")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "given", requestID)
}
