package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhardwajvivekkumar/JobSync/internal/applications"
)

type fakeMailer struct {
	to   string
	link string
	fail bool
}

func (m *fakeMailer) SendResetEmail(_ context.Context, to, _, link string) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.to = to
	m.link = link
	return nil
}

var testSecret = []byte("test-secret")

func newTestApp(t *testing.T) (*fiber.App, *MemStore, *applications.MemStore, *fakeMailer) {
	t.Helper()

	apps := applications.NewMemStore()
	users := NewMemStore(apps)
	m := &fakeMailer{}

	h := &Handler{
		Users:     users,
		Mailer:    m,
		JWTSecret: testSecret,
		ClientURL: "http://localhost:5173",
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Post("/api/auth/register", h.Register)
	app.Post("/api/auth/login", h.Login)
	app.Post("/api/auth/forgot-password", h.ForgotPassword)
	app.Post("/api/auth/reset-password", h.ResetPassword)
	app.Get("/api/auth/me", Middleware(users, testSecret), h.Me)
	app.Delete("/api/auth/delete", Middleware(users, testSecret), h.DeleteAccount)

	return app, users, apps, m
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func register(t *testing.T, app *fiber.App, name, email, password string) map[string]any {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/api/auth/register",
		fiber.Map{"name": name, "email": email, "password": password}, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return body
}

func TestRegisterAndLogin(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	created := register(t, app, "Ada", "ada@example.com", "secret1")
	assert.NotEmpty(t, created["id"])
	assert.NotEmpty(t, created["token"])
	assert.Equal(t, "ada@example.com", created["email"])

	resp, body := doJSON(t, app, "POST", "/api/auth/login",
		fiber.Map{"email": "ada@example.com", "password": "secret1"}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])
}

func TestRegisterValidation(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	resp, _ := doJSON(t, app, "POST", "/api/auth/register",
		fiber.Map{"name": "Ada", "email": "ada@example.com", "password": "short"}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/api/auth/register",
		fiber.Map{"name": "", "email": "not-an-email", "password": "secret1"}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	register(t, app, "Ada", "ada@example.com", "secret1")
	resp, _ := doJSON(t, app, "POST", "/api/auth/register",
		fiber.Map{"name": "Ada Again", "email": "ada@example.com", "password": "secret2"}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	register(t, app, "Ada", "ada@example.com", "secret1")

	// Wrong password and unknown email answer identically.
	resp, _ := doJSON(t, app, "POST", "/api/auth/login",
		fiber.Map{"email": "ada@example.com", "password": "wrong"}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/api/auth/login",
		fiber.Map{"email": "nobody@example.com", "password": "secret1"}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMeRequiresToken(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	created := register(t, app, "Ada", "ada@example.com", "secret1")

	resp, _ := doJSON(t, app, "GET", "/api/auth/me", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/api/auth/me", nil, "not-a-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body := doJSON(t, app, "GET", "/api/auth/me", nil, created["token"].(string))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ada", body["name"])
	assert.Equal(t, "ada@example.com", body["email"])
}

func TestForgotAndResetPassword(t *testing.T) {
	app, _, _, m := newTestApp(t)
	register(t, app, "Ada", "ada@example.com", "secret1")

	resp, _ := doJSON(t, app, "POST", "/api/auth/forgot-password",
		fiber.Map{"email": "ada@example.com"}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "ada@example.com", m.to)
	require.Contains(t, m.link, "reset-password?token=")

	token := m.link[len("http://localhost:5173/reset-password?token="):]

	resp, _ = doJSON(t, app, "POST", "/api/auth/reset-password",
		fiber.Map{"token": token, "password": "newsecret"}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Old password no longer works; new one does.
	resp, _ = doJSON(t, app, "POST", "/api/auth/login",
		fiber.Map{"email": "ada@example.com", "password": "secret1"}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp, _ = doJSON(t, app, "POST", "/api/auth/login",
		fiber.Map{"email": "ada@example.com", "password": "newsecret"}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The token is single-use.
	resp, _ = doJSON(t, app, "POST", "/api/auth/reset-password",
		fiber.Map{"token": token, "password": "another1"}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestForgotPasswordDoesNotRevealAccounts(t *testing.T) {
	app, _, _, m := newTestApp(t)

	resp, body := doJSON(t, app, "POST", "/api/auth/forgot-password",
		fiber.Map{"email": "nobody@example.com"}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, forgotReply, body["message"])
	assert.Empty(t, m.to)
}

func TestForgotPasswordSurfacesMailFailure(t *testing.T) {
	app, _, _, m := newTestApp(t)
	register(t, app, "Ada", "ada@example.com", "secret1")
	m.fail = true

	resp, _ := doJSON(t, app, "POST", "/api/auth/forgot-password",
		fiber.Map{"email": "ada@example.com"}, "")
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestDeleteAccountCascades(t *testing.T) {
	app, users, apps, _ := newTestApp(t)
	created := register(t, app, "Ada", "ada@example.com", "secret1")
	userID := created["id"].(string)
	token := created["token"].(string)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		rec := applications.Application{UserID: userID, Company: "Acme", JobTitle: "Engineer"}
		require.NoError(t, apps.Insert(ctx, &rec))
	}

	resp, _ := doJSON(t, app, "DELETE", "/api/auth/delete", nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	n, err := apps.CountByOwner(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = users.GetByID(ctx, userID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// The old token is dead along with the account.
	resp, _ = doJSON(t, app, "GET", "/api/auth/me", nil, token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
