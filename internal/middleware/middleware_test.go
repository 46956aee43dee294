package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petshop_back_end/internal/cache"
	"petshop_back_end/internal/models"
	"petshop_back_end/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestIdentity(t *testing.T) {
	r := gin.New()
	r.Use(Identity("secret"))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})

	token, err := utils.GenerateJWT(models.User{ID: "u1", Email: "a@b.c"}, "secret")
	require.NoError(t, err)

	cases := map[string]string{
		"":                      "",
		"Bearer " + token:       "u1",
		"bearer " + token:       "u1",
		"Bearer not-a-token":    "",
		"Basic dXNlcjpwYXNz":    "",
		"Bearer " + token + "x": "",
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, want, w.Body.String(), header)
	}
}

func loginRouter(client cache.Client) *gin.Engine {
	r := gin.New()
	r.POST("/login", LoginRateLimit(client), func(c *gin.Context) {
		var body struct {
			Password string `json:"password"`
		}
		_ = c.ShouldBindJSON(&body)
		if body.Password != "good" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{})
	})
	return r
}

func login(r *gin.Engine, password string) int {
	body := `{"email":"Rex@Example.com","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestLoginRateLimit(t *testing.T) {
	r := loginRouter(cache.NewMemoryClient())

	for i := 0; i < LoginMaxAttempts; i++ {
		assert.Equal(t, http.StatusUnauthorized, login(r, "bad"))
	}
	assert.Equal(t, http.StatusTooManyRequests, login(r, "good"), "locked even with the right password")
}

func TestLoginRateLimitResetsOnSuccess(t *testing.T) {
	r := loginRouter(cache.NewMemoryClient())

	for i := 0; i < LoginMaxAttempts-1; i++ {
		login(r, "bad")
	}
	assert.Equal(t, http.StatusOK, login(r, "good"))
	for i := 0; i < LoginMaxAttempts-1; i++ {
		assert.Equal(t, http.StatusUnauthorized, login(r, "bad"))
	}
	assert.Equal(t, http.StatusOK, login(r, "good"))
}

func TestLoginRateLimitWithoutRedis(t *testing.T) {
	r := loginRouter(nil)
	for i := 0; i < LoginMaxAttempts+2; i++ {
		assert.Equal(t, http.StatusUnauthorized, login(r, "bad"))
	}
}

func TestRegisterRateLimit(t *testing.T) {
	r := gin.New()
	r.POST("/register", RegisterRateLimit(cache.NewMemoryClient()), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{})
	})

	register := func() int {
		req := httptest.NewRequest(http.MethodPost, "/register", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < RegisterMaxAttempts; i++ {
		assert.Equal(t, http.StatusCreated, register())
	}
	assert.Equal(t, http.StatusTooManyRequests, register())
}

func TestRequireAdminKey(t *testing.T) {
	call := func(configured, given string) int {
		r := gin.New()
		r.POST("/admin", RequireAdminKey(configured), func(c *gin.Context) { c.Status(http.StatusNoContent) })
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		if given != "" {
			req.Header.Set("X-API-KEY", given)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, call("k", "k"))
	assert.Equal(t, http.StatusUnauthorized, call("k", "wrong"))
	assert.Equal(t, http.StatusUnauthorized, call("k", ""))
	assert.Equal(t, http.StatusForbidden, call("", ""))
}
