package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"lemburan/config"
	"lemburan/database"
	"lemburan/export"
	"lemburan/handlers"
	"lemburan/middleware"
	"lemburan/models"
	"lemburan/uploads"
	"lemburan/web"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "lemburan",
		Short:        "Overtime logging with CSV and Excel export",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the web application",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve()
			},
		},
		newExportCommand(),
		newMigrateCommand(),
		newUserCommand(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	middleware.SetJWTSecret(cfg.JWTSecret)

	if err := database.Init(cfg.DatabaseURL, cfg.DefaultAdminPassword); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	templates, err := web.Templates()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}

	proofs, err := uploads.NewStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		return err
	}

	store := database.NewRecordStore(database.GetDB(), cfg.Location)
	fetcher := proofs.Fetcher(export.NewHTTPFetcher(&http.Client{Timeout: cfg.ImageFetchTimeout}))

	authHandler := handlers.NewAuthHandler(cfg, templates)
	overtimeHandler := handlers.NewOvertimeHandler(cfg, templates, store, proofs, fetcher)

	router := newRouter(authHandler, overtimeHandler, proofs.Handler())

	log.Printf("Server starting on port %s", cfg.ServerPort)
	return http.ListenAndServe(":"+cfg.ServerPort, router)
}

func newRouter(authHandler *handlers.AuthHandler, overtimeHandler *handlers.OvertimeHandler, files http.Handler) chi.Router {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	// Public routes
	router.Get("/", overtimeHandler.Form)
	router.Post("/overtime", overtimeHandler.Create)
	router.Get("/overtime/duration", overtimeHandler.DurationPreview)
	router.Handle(uploads.Prefix+"*", files)
	router.Get("/login", authHandler.LoginPage)
	router.Post("/login", authHandler.Login)

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)

		r.Get("/logout", authHandler.Logout)
		r.Get("/change-password", authHandler.ChangePasswordPage)
		r.Post("/change-password", authHandler.ChangePassword)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePasswordChange)

			// Admin and HR can view and export
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleHR))
				r.Get("/admin", overtimeHandler.AdminPage)
				r.Get("/export/csv", overtimeHandler.ExportCSV)
				r.Get("/export/xlsx", overtimeHandler.ExportXLSX)
				r.Get("/export/xlsx-images", overtimeHandler.ExportXLSXImages)
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Post("/admin/delete", overtimeHandler.DeleteEntry)
				r.Post("/admin/delete-all", overtimeHandler.DeleteAll)
				r.Delete("/api/delete-all", overtimeHandler.DeleteAllAPI)
			})
		})
	})

	return router
}
