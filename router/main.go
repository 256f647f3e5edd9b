package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/admissions-api/database"
	"github.com/sahilchouksey/admissions-api/handlers"
	admin_handlers "github.com/sahilchouksey/admissions-api/handlers/admin"
	application_handlers "github.com/sahilchouksey/admissions-api/handlers/application"
	auth_handlers "github.com/sahilchouksey/admissions-api/handlers/auth"
	program_handlers "github.com/sahilchouksey/admissions-api/handlers/program"
	university_handlers "github.com/sahilchouksey/admissions-api/handlers/university"
	"github.com/sahilchouksey/admissions-api/services"
	"github.com/sahilchouksey/admissions-api/utils"
	"github.com/sahilchouksey/admissions-api/utils/auth"
	"github.com/sahilchouksey/admissions-api/utils/middleware"
	"github.com/sahilchouksey/admissions-api/utils/policy"
)

// Config holds what the routes need beyond the app itself
type Config struct {
	Store  database.Storage
	Tokens *auth.TokenManager
	// Attempts backs login brute-force protection; nil disables it
	Attempts middleware.AttemptStore
	Security middleware.SecurityConfig
}

func SetupRoutes(app *fiber.App, cfg Config) {
	db := cfg.Store.GetDB()

	// Services
	identityService := services.NewIdentityService(db, cfg.Tokens)
	catalogService := services.NewCatalogService(db)
	applicationService := services.NewApplicationService(db)

	bruteForceProtection := middleware.NewBruteForceProtection(cfg.Attempts)
	authMiddleware := middleware.NewAuthMiddleware(identityService)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(identityService, bruteForceProtection)
	universityHandler := university_handlers.NewUniversityHandler(catalogService)
	programHandler := program_handlers.NewProgramHandler(catalogService)
	applicationHandler := application_handlers.NewApplicationHandler(applicationService)

	middleware.SetupSecurity(app, cfg.Security)

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, cfg.Store))

	api := app.Group("/api")

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)

	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Post("/change-password", authMiddleware.Required(), authHandler.ChangePassword)
	authGroup.Get("/user", authMiddleware.Required(), middleware.Authorize(policy.Read, policy.Profile), authHandler.GetProfile)
	authGroup.Put("/user", authMiddleware.Required(), middleware.Authorize(policy.Update, policy.Profile), authHandler.UpdateProfile)
	authGroup.Patch("/user", authMiddleware.Required(), middleware.Authorize(policy.Update, policy.Profile), authHandler.UpdateProfile)

	// University routes; fixed paths come before the :id routes
	universities := api.Group("/universities")
	universities.Get("/", authMiddleware.Optional(), middleware.Authorize(policy.Read, policy.University), universityHandler.ListUniversities)
	universities.Post("/",
		authMiddleware.Required(),
		middleware.Authorize(policy.Create, policy.University),
		middleware.AdminAuditLog(db, "create", "university"),
		universityHandler.CreateUniversity)

	universities.Get("/my", authMiddleware.Required(), middleware.Authorize(policy.Read, policy.MyUniversities), universityHandler.MyUniversities)
	universities.Get("/dashboard-stats", authMiddleware.Required(), middleware.Authorize(policy.Read, policy.Dashboard), applicationHandler.DashboardStats)

	// Application routes, always scoped to the caller
	universities.Post("/apply", authMiddleware.Required(), middleware.Authorize(policy.Create, policy.Application), applicationHandler.Apply)
	universities.Get("/my-applications", authMiddleware.Required(), middleware.Authorize(policy.Read, policy.Application), applicationHandler.ListMine)

	applications := universities.Group("/applications", authMiddleware.Required())
	applications.Get("/", middleware.Authorize(policy.Read, policy.Application), applicationHandler.ListMine)
	applications.Get("/:id<int>", middleware.Authorize(policy.Read, policy.Application), applicationHandler.GetMine)
	applications.Put("/:id<int>", middleware.Authorize(policy.Update, policy.Application), applicationHandler.UpdateMine)
	applications.Patch("/:id<int>", middleware.Authorize(policy.Update, policy.Application), applicationHandler.UpdateMine)
	applications.Delete("/:id<int>", middleware.Authorize(policy.Delete, policy.Application), applicationHandler.Withdraw)
	applications.Delete("/:id<int>/withdraw", middleware.Authorize(policy.Delete, policy.Application), applicationHandler.Withdraw)

	universities.Get("/:id<int>", authMiddleware.Optional(), middleware.Authorize(policy.Read, policy.University), universityHandler.GetUniversity)
	for _, route := range []struct {
		method  string
		action  policy.Action
		audit   string
		handler fiber.Handler
	}{
		{fiber.MethodPut, policy.Update, "update", universityHandler.UpdateUniversity},
		{fiber.MethodPatch, policy.Update, "update", universityHandler.UpdateUniversity},
		{fiber.MethodDelete, policy.Delete, "delete", universityHandler.DeleteUniversity},
	} {
		universities.Add(route.method, "/:id<int>",
			authMiddleware.Required(),
			middleware.Authorize(route.action, policy.University),
			middleware.AdminAuditLog(db, route.audit, "university"),
			route.handler)
	}

	// Program routes
	programs := api.Group("/programs")
	programs.Get("/", authMiddleware.Optional(), middleware.Authorize(policy.Read, policy.Program), programHandler.ListPrograms)
	programs.Get("/:id<int>", authMiddleware.Optional(), middleware.Authorize(policy.Read, policy.Program), programHandler.GetProgram)
	programs.Post("/",
		authMiddleware.Required(),
		middleware.Authorize(policy.Create, policy.Program),
		middleware.AdminAuditLog(db, "create", "program"),
		programHandler.CreateProgram)
	for _, route := range []struct {
		method  string
		action  policy.Action
		audit   string
		handler fiber.Handler
	}{
		{fiber.MethodPut, policy.Update, "update", programHandler.UpdateProgram},
		{fiber.MethodPatch, policy.Update, "update", programHandler.UpdateProgram},
		{fiber.MethodDelete, policy.Delete, "delete", programHandler.DeleteProgram},
	} {
		programs.Add(route.method, "/:id<int>",
			authMiddleware.Required(),
			middleware.Authorize(route.action, policy.Program),
			middleware.AdminAuditLog(db, route.audit, "program"),
			route.handler)
	}

	// Staff administration
	admin := api.Group("/admin", authMiddleware.Required())
	admin.Get("/audit-logs", middleware.Authorize(policy.Read, policy.AuditLog), utils.MakeHTTPHandleFunc(admin_handlers.ListAuditLogs, cfg.Store))
	admin.Get("/audit-logs/:id<int>", middleware.Authorize(policy.Read, policy.AuditLog), utils.MakeHTTPHandleFunc(admin_handlers.GetAuditLog, cfg.Store))
	admin.Get("/users", middleware.Authorize(policy.Read, policy.Account), utils.MakeHTTPHandleFunc(admin_handlers.ListUsers, cfg.Store))
	admin.Patch("/users/:id<int>",
		middleware.Authorize(policy.Update, policy.Account),
		middleware.AdminAuditLog(db, "update", "account"),
		utils.MakeHTTPHandleFunc(admin_handlers.UpdateUser, cfg.Store))
}
