package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, secret string, userID uuid.UUID, ttl time.Duration) string {
	t.Helper()

	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.String(http.StatusOK, userID.String())
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	InitAuth("test-secret", nil)
	r := newAuthTestRouter()
	userID := uuid.New()

	cases := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signTestTokenWithSecret(t, "other-secret", userID), http.StatusUnauthorized},
		{"expired token", "Bearer " + signTestToken(t, "test-secret", userID, -time.Minute), http.StatusUnauthorized},
		{"valid token", "Bearer " + signTestToken(t, "test-secret", userID, time.Hour), http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, userID.String(), w.Body.String())
			}
		})
	}
}

func signTestTokenWithSecret(t *testing.T, secret string, userID uuid.UUID) string {
	t.Helper()
	return signTestToken(t, secret, userID, time.Hour)
}

func TestParseTokenRoundTrip(t *testing.T) {
	InitAuth("test-secret", nil)
	userID := uuid.New()

	claims, err := ParseToken(signTestToken(t, "test-secret", userID, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.NotEmpty(t, claims.ID)
}
