package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mesaflow/restaurant-backoffice/config"
	"github.com/mesaflow/restaurant-backoffice/utils"
)

// The general limiter must be part of every route's handler chain, so
// a burst from one client trips it before the route logic runs.
func TestGeneralRateLimiterCoversRoutes(t *testing.T) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:routerlimit?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	defaults, err := config.LoadDefaults("does-not-exist.yaml")
	require.NoError(t, err)

	r := SetupRouter(db, defaults)

	limited := false
	for i := 0; i < 60; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/tables", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
		// Until the limit trips, the request reaches the auth check.
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	assert.True(t, limited)
}
