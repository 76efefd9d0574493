package main

import (
	"bytes"
	"net"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"go-staff-permissions/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// permissionAPI serves a two-page catalog and one staff member's grants,
// recording every assign request it receives.
type permissionAPI struct {
	mu      sync.Mutex
	staffID uuid.UUID
	granted []int
	posts   [][]int
}

var apiCatalog = map[int][]fiber.Map{
	1: {
		{"id": 1, "module": "bank", "name": "bank.management", "title": "Management Bank", "type": "module"},
		{"id": 2, "module": "bank", "name": "bank.view", "title": "View Bank", "type": "view"},
	},
	2: {
		{"id": 3, "module": "customer", "name": "customer.management", "title": "Management Customer", "type": "module"},
		{"id": 4, "module": "customer", "name": "customer.create", "title": "Create Customer", "type": "create",
			"description": "Allows create access to customer"},
	},
}

func startAPI(t *testing.T, granted ...int) (*permissionAPI, string) {
	t.Helper()
	api := &permissionAPI{staffID: uuid.New(), granted: granted}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	v1 := app.Group("/api/v1")
	v1.Get("/permissions", func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		return c.JSON(fiber.Map{"items": apiCatalog[page], "current_page": page, "last_page": len(apiCatalog)})
	})
	v1.Get("/staff/:id/permissions", func(c *fiber.Ctx) error {
		api.mu.Lock()
		defer api.mu.Unlock()
		items := []fiber.Map{}
		for _, page := range apiCatalog {
			for _, p := range page {
				for _, id := range api.granted {
					if p["id"] == id {
						items = append(items, p)
					}
				}
			}
		}
		return c.JSON(fiber.Map{"items": items})
	})
	v1.Post("/staff/:id/permissions", func(c *fiber.Ctx) error {
		var req struct {
			Permissions []int `json:"permissions"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
		}
		api.mu.Lock()
		defer api.mu.Unlock()
		api.posts = append(api.posts, req.Permissions)
		api.granted = append([]int(nil), req.Permissions...)
		sort.Ints(api.granted)
		return c.JSON(fiber.Map{"status": "success", "message": "Permissions updated successfully"})
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return api, "http://" + ln.Addr().String() + "/api/v1"
}

func (a *permissionAPI) postedSets() [][]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([][]int(nil), a.posts...)
}

func runPermctl(t *testing.T, baseURL string, args ...string) (string, error) {
	t.Helper()
	tok, err := jwt.GenerateToken([]byte("permctl-secret"), time.Hour, uuid.New(), "admin@example.com", "Admin", nil)
	require.NoError(t, err)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append(args, "--base-url", baseURL, "--token", tok, "--log-level", "error"))
	cmd.SetOut(&out)
	err = cmd.Execute()
	return out.String(), err
}

// rowOrder returns the permission names of a printed table in row order.
func rowOrder(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 1 && strings.Contains(fields[1], ".") {
			names = append(names, fields[1])
		}
	}
	return names
}

func TestShow_GrantedFirstThenGrouped(t *testing.T) {
	api, baseURL := startAPI(t, 2, 3)

	out, err := runPermctl(t, baseURL, "show", "--staff", api.staffID.String())
	require.NoError(t, err)

	assert.Equal(t, []string{"bank.view", "customer.management", "bank.management", "customer.create"}, rowOrder(out))
	assert.Contains(t, out, "4 shown, 2 of 4 granted")
}

func TestShow_QueryFiltersInCatalogOrder(t *testing.T) {
	api, baseURL := startAPI(t, 2, 3)

	out, err := runPermctl(t, baseURL, "show", "--staff", api.staffID.String(), "-q", "MANAGEMENT")
	require.NoError(t, err)

	assert.Equal(t, []string{"bank.management", "customer.management"}, rowOrder(out))
	assert.Contains(t, out, "2 shown, 2 of 4 granted")
}

func TestAssign_DryRunSendsNothing(t *testing.T) {
	api, baseURL := startAPI(t, 2, 3)

	out, err := runPermctl(t, baseURL, "assign", "--staff", api.staffID.String(),
		"--grant", "4", "--revoke", "2", "--dry-run")
	require.NoError(t, err)

	assert.Equal(t, "grant: [4]\nrevoke: [2]\n", out)
	assert.Empty(t, api.postedSets())
}

func TestAssign_PostsFullResultingSet(t *testing.T) {
	api, baseURL := startAPI(t, 2, 3)

	out, err := runPermctl(t, baseURL, "assign", "--staff", api.staffID.String(),
		"--grant", "4,1", "--revoke", "2")
	require.NoError(t, err)

	require.Equal(t, [][]int{{1, 3, 4}}, api.postedSets())
	assert.Contains(t, out, "grant: [1 4]\nrevoke: [2]\n")
	assert.Contains(t, out, "saved 3 permissions for "+api.staffID.String())
}

func TestAssign_NoChanges(t *testing.T) {
	api, baseURL := startAPI(t, 2, 3)

	out, err := runPermctl(t, baseURL, "assign", "--staff", api.staffID.String(), "--grant", "3", "--revoke", "1")
	require.NoError(t, err)

	assert.Equal(t, "no changes\n", out)
	assert.Empty(t, api.postedSets())
}

func TestAssign_UnknownPermission(t *testing.T) {
	api, baseURL := startAPI(t, 2)

	_, err := runPermctl(t, baseURL, "assign", "--staff", api.staffID.String(), "--grant", "99")
	assert.ErrorContains(t, err, "permission 99 is not in the catalog")
	assert.Empty(t, api.postedSets())
}

func TestShowHelpNamesSearchedFields(t *testing.T) {
	cmd := newShowCmd(&globalOptions{})
	assert.Equal(t, "Case-insensitive search over name, description and module", cmd.Flag("query").Usage)
}
