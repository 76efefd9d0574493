package remote

import (
	"context"
	"net"
	"testing"
	"time"

	"go-staff-permissions/internal/model"
	"go-staff-permissions/pkg/jwt"
	"go-staff-permissions/pkg/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, register func(app *fiber.App)) string {
	t.Helper()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	register(app)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String()
}

func validToken(t *testing.T) TokenProvider {
	t.Helper()
	tok, err := jwt.GenerateToken([]byte("client-secret"), time.Hour, uuid.New(), "a@example.com", "A", nil)
	require.NoError(t, err)
	return NewStaticToken(tok)
}

func newTestClient(t *testing.T, baseURL string) *Client {
	return NewClient(baseURL, validToken(t), WithLogger(logging.Discard()), WithTimeout(5*time.Second))
}

func TestFetchCatalogPage(t *testing.T) {
	var gotAuth, gotPage string
	baseURL := serve(t, func(app *fiber.App) {
		app.Get("/permissions", func(c *fiber.Ctx) error {
			gotAuth = c.Get(fiber.HeaderAuthorization)
			gotPage = c.Query("page")
			return c.JSON(fiber.Map{
				"items": []fiber.Map{
					{"id": 7, "module": "bank", "name": "bank.view", "title": "View Bank", "type": "view"},
				},
				"current_page": 2,
				"last_page":    3,
			})
		})
	})

	page, err := newTestClient(t, baseURL+"/").FetchCatalogPage(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "2", gotPage)
	assert.Contains(t, gotAuth, "Bearer ")
	assert.Equal(t, 2, page.CurrentPage)
	assert.True(t, page.HasMore())
	require.Len(t, page.Items, 1)
	assert.Equal(t, model.Permission{ID: 7, Module: "bank", Name: "bank.view", Title: "View Bank", Type: model.TypeView}, page.Items[0])
}

func TestFetchCatalogPage_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body fiber.Map
	}{
		{"unknown type", fiber.Map{
			"items":        []fiber.Map{{"id": 1, "module": "bank", "name": "bank.fly", "type": "fly"}},
			"current_page": 1, "last_page": 1,
		}},
		{"missing id", fiber.Map{
			"items":        []fiber.Map{{"module": "bank", "name": "bank.view", "type": "view"}},
			"current_page": 1, "last_page": 1,
		}},
		{"page past last", fiber.Map{"items": []fiber.Map{}, "current_page": 4, "last_page": 3}},
		{"no paging", fiber.Map{"items": []fiber.Map{}}},
		{"other page than asked", fiber.Map{"items": []fiber.Map{}, "current_page": 2, "last_page": 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseURL := serve(t, func(app *fiber.App) {
				app.Get("/permissions", func(c *fiber.Ctx) error { return c.JSON(tt.body) })
			})

			_, err := newTestClient(t, baseURL).FetchCatalogPage(context.Background(), 1)
			var srvErr *ServerError
			require.True(t, errors.As(err, &srvErr), "got %v", err)
			assert.Contains(t, srvErr.Message, "malformed response")
		})
	}
}

func TestServerErrorMessages(t *testing.T) {
	staffID := uuid.New()
	baseURL := serve(t, func(app *fiber.App) {
		app.Get("/staff/:id/permissions", func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Staff member not found"})
		})
		app.Post("/staff/:id/permissions", func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusInternalServerError).SendString("<html>oops</html>")
		})
	})
	client := newTestClient(t, baseURL)

	_, err := client.FetchAssigned(context.Background(), staffID)
	var srvErr *ServerError
	require.True(t, errors.As(err, &srvErr))
	assert.Equal(t, fiber.StatusNotFound, srvErr.Status)
	assert.Equal(t, "Staff member not found", err.Error())

	err = client.AssignPermissions(context.Background(), staffID, []int{1})
	require.True(t, errors.As(err, &srvErr))
	assert.Equal(t, DefaultServerMessage, err.Error())
	assert.True(t, IsRecoverable(err))
}

func TestAssignPermissions(t *testing.T) {
	var got struct {
		Permissions []int `json:"permissions"`
	}
	status := "success"
	baseURL := serve(t, func(app *fiber.App) {
		app.Post("/staff/:id/permissions", func(c *fiber.Ctx) error {
			if err := c.BodyParser(&got); err != nil {
				return err
			}
			return c.JSON(fiber.Map{"status": status, "message": "not today"})
		})
	})
	client := newTestClient(t, baseURL)

	require.NoError(t, client.AssignPermissions(context.Background(), uuid.New(), nil))
	assert.NotNil(t, got.Permissions)
	assert.Empty(t, got.Permissions)

	require.NoError(t, client.AssignPermissions(context.Background(), uuid.New(), []int{3, 1}))
	assert.Equal(t, []int{3, 1}, got.Permissions)

	status = "error"
	err := client.AssignPermissions(context.Background(), uuid.New(), []int{1})
	var srvErr *ServerError
	require.True(t, errors.As(err, &srvErr))
	assert.Equal(t, "not today", err.Error())
}

func TestNetworkError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = newTestClient(t, "http://"+addr).FetchCatalogPage(context.Background(), 1)
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr), "got %v", err)
	assert.True(t, IsRecoverable(err))
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, "http://127.0.0.1:1").FetchCatalogPage(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAuthMissing(t *testing.T) {
	called := false
	baseURL := serve(t, func(app *fiber.App) {
		app.Get("/permissions", func(c *fiber.Ctx) error {
			called = true
			return c.SendStatus(fiber.StatusOK)
		})
	})

	client := NewClient(baseURL, NewStaticToken(""), WithLogger(logging.Discard()))
	_, err := client.FetchCatalogPage(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAuthMissing)
	assert.False(t, IsRecoverable(err))
	assert.False(t, called, "no request is sent without a token")
}
