package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-staff-permissions/internal/handler"
	"go-staff-permissions/internal/model"
	"go-staff-permissions/internal/repository"
	"go-staff-permissions/internal/service"
	"go-staff-permissions/internal/ws"
	"go-staff-permissions/pkg/config"
	"go-staff-permissions/pkg/database"
	"go-staff-permissions/pkg/logging"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load Env
	if n, err := config.LoadEnv(".env"); err != nil {
		logrus.WithError(err).Fatal("failed to read .env")
	} else if n == 0 {
		logrus.Warn(".env file not found, relying on system env")
	}
	cfg, err := config.LoadServer()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logging.ConsoleLogger(logging.ParseLevel(cfg.LogLevel))

	// 2. Setup Database
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	if err := db.AutoMigrate(&model.Permission{}, &model.StaffMember{}); err != nil {
		log.WithError(err).Fatal("failed to migrate schema")
	}

	permissionRepo := repository.NewPermissionRepo(db)
	staffRepo := repository.NewStaffRepo(db)

	// 3. Seed the catalog and an administrator holding all of it
	seedCatalogAndAdmin(log, permissionRepo, staffRepo)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run()

	// 5. Wiring
	permissionService := service.NewPermissionService(permissionRepo, staffRepo, wsHub, cfg.PageSize, log)
	permissionHandler := handler.NewPermissionHandler(permissionService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:               "Staff Permissions v1.0",
		DisableStartupMessage: true,
	})
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// 7. Routes
	api := app.Group("/api/v1")
	handler.RegisterRoutes(api, permissionHandler, []byte(cfg.JWTSecret))

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		log.WithField("port", cfg.Port).Info("listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Panic("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.WithField("ws_clients", wsHub.ClientCount()).Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}
	log.Info("server exited")
}

// seedCatalogAndAdmin creates the default permissions and the administrator
// if they don't exist. Failures are logged; the server still starts.
func seedCatalogAndAdmin(log *logrus.Logger, permissions repository.PermissionRepository, staff repository.StaffRepository) {
	if err := permissions.SeedDefaults(); err != nil {
		log.WithError(err).Warn("failed to seed permissions")
		return
	}
	all, err := permissions.FindAll()
	if err != nil {
		log.WithError(err).Warn("failed to load permissions")
		return
	}

	admin, err := staff.FindByEmail(model.DefaultAdminEmail)
	if err != nil {
		admin = &model.StaffMember{
			Email:    model.DefaultAdminEmail,
			FullName: "Administrator",
			IsActive: true,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"
		if err := staff.Create(admin); err != nil {
			log.WithError(err).Warn("failed to create admin")
			return
		}
		log.WithField("email", admin.Email).Info("admin created")
	}

	if admin.HasPermission(model.PermissionStaffEdit) {
		return
	}
	if err := staff.ReplacePermissions(admin.ID, all, "system"); err != nil {
		log.WithError(err).Warn("failed to grant admin permissions")
		return
	}
	log.WithFields(logrus.Fields{"staff_id": admin.ID, "permissions": len(all)}).Info("admin granted every permission")
}
