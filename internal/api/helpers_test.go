package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/L1malucas/smarted-sub000/internal/middleware"
	"github.com/L1malucas/smarted-sub000/internal/models"
)

const (
	testTenantID = "00000000-0000-0000-0000-000000000001"
	testUserID   = "00000000-0000-0000-0000-0000000000aa"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

func testSession() *models.SessionClaim {
	return &models.SessionClaim{
		UserID:   testUserID,
		TenantID: testTenantID,
		Name:     "Test Recruiter",
		Email:    "recruiter@example.com",
		Roles:    []string{"recruiter"},
	}
}

// newTestRouter creates a gin engine that injects the given session, or none
// when sess is nil.
func newTestRouter(sess *models.SessionClaim) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if sess != nil {
			c.Set(middleware.SessionKey, sess)
		}
		c.Next()
	})

	return r
}

// doRequest performs an HTTP request against the test router and returns the recorder.
func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, http.NoBody)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

// doRequestRaw serves a pre-built request, for tests that need custom headers.
func doRequestRaw(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}
