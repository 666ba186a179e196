package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/models"
	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/service"
)

func performWithToken(t *testing.T, chain []gin.HandlerFunc, token string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		c.Request.Header.Set("Authorization", "Bearer "+token)
	}

	for _, handler := range chain {
		handler(c)
		if c.IsAborted() {
			break
		}
	}
	return recorder
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func TestJWTRejectsMissingAndMalformedTokens(t *testing.T) {
	tokens := service.NewTokenService("unit-secret")
	chain := []gin.HandlerFunc{JWT(tokens), okHandler}

	recorder := performWithToken(t, chain, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = performWithToken(t, chain, "garbage")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	other := service.NewTokenService("other-secret")
	token, err := other.IssueToken("user-1", models.RoleAdmin, time.Minute)
	require.NoError(t, err)

	tokens := service.NewTokenService("unit-secret")
	recorder := performWithToken(t, []gin.HandlerFunc{JWT(tokens), okHandler}, token)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJWTAcceptsValidTokenAndSetsClaims(t *testing.T) {
	tokens := service.NewTokenService("unit-secret")
	token, err := tokens.IssueToken("user-1", models.RoleOperator, time.Minute)
	require.NoError(t, err)

	var seen *models.JWTClaims
	capture := func(c *gin.Context) {
		value, exists := c.Get(ContextUserKey)
		require.True(t, exists)
		seen = value.(*models.JWTClaims)
		okHandler(c)
	}

	recorder := performWithToken(t, []gin.HandlerFunc{JWT(tokens), capture}, token)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.UserID)
	assert.Equal(t, models.RoleOperator, seen.Role)
}

func TestRequireRolesEnforcesAccess(t *testing.T) {
	tokens := service.NewTokenService("unit-secret")

	tests := []struct {
		name string
		role models.Role
		want int
	}{
		{"admin allowed", models.RoleAdmin, http.StatusOK},
		{"operator allowed", models.RoleOperator, http.StatusOK},
		{"viewer forbidden", models.RoleViewer, http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			token, err := tokens.IssueToken("user-1", tc.role, time.Minute)
			require.NoError(t, err)

			chain := []gin.HandlerFunc{
				JWT(tokens),
				RequireRoles(models.RoleAdmin, models.RoleOperator),
				okHandler,
			}
			recorder := performWithToken(t, chain, token)
			assert.Equal(t, tc.want, recorder.Code)
		})
	}
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	recorder := performWithToken(t, []gin.HandlerFunc{RequireRoles(models.RoleAdmin), okHandler}, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
