package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"yatube/internal/config"
	"yatube/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{
		Port:           "0",
		Env:            "test",
		JWTSecret:      testSecret,
		PostsPerPage:   10,
		AllowedOrigins: "http://localhost:8000",
	}
	s, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)
	s.userService.WithCost(bcrypt.MinCost)
	return s, db
}

// client is a tiny browser: it keeps cookies between requests and fills in
// the CSRF token on form posts.
type client struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func newClient(t *testing.T, s *Server) *client {
	return &client{t: t, app: s.App(), cookies: map[string]string{}}
}

func (c *client) do(req *http.Request) *http.Response {
	c.t.Helper()
	for name, value := range c.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	for _, ck := range resp.Cookies() {
		expired := !ck.Expires.IsZero() && ck.Expires.Before(time.Now())
		if ck.Value == "" || ck.MaxAge < 0 || expired {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck.Value
	}
	return resp
}

func (c *client) get(path string) *http.Response {
	c.t.Helper()
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) postForm(path string, form url.Values) *http.Response {
	c.t.Helper()
	if _, ok := c.cookies["csrftoken"]; !ok {
		closeBody(c.get("/auth/login/"))
	}
	form.Set("csrf_token", c.cookies["csrftoken"])
	return c.do(newFormRequest(path, form.Encode()))
}

func newFormRequest(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return req
}

func (c *client) login(username string) {
	c.t.Helper()
	resp := c.postForm("/auth/login/", url.Values{
		"username": {username},
		"password": {testutil.Password},
	})
	defer closeBody(resp)
	require.Equal(c.t, http.StatusFound, resp.StatusCode, "login as %s", username)
}

func closeBody(resp *http.Response) {
	_ = resp.Body.Close()
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer closeBody(resp)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer closeBody(resp)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/create/", "/create/"},
		{"/profile/leo/?page=2", "/profile/leo/?page=2"},
		{"//evil.example.com/", "/"},
		{"/\\evil.example.com", "/"},
		{"https://evil.example.com/", "/"},
		{"create/", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, safeNext(tt.in))
		})
	}
}
