package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"lemburan/config"
	"lemburan/database"
	"lemburan/export"
	"lemburan/models"
	"lemburan/uploads"

	"github.com/spf13/cobra"
)

func newExportCommand() *cobra.Command {
	var (
		format string
		out    string
		layout string
		filter models.OvertimeFilter
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an export file without going through the web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := database.Init(cfg.DatabaseURL, cfg.DefaultAdminPassword); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}

			store := database.NewRecordStore(database.GetDB(), cfg.Location)
			records, err := store.List(cmd.Context(), filter, true)
			if err != nil {
				return err
			}

			data, ext, base, err := renderExport(cmd.Context(), cfg, format, layout, records)
			if err != nil {
				return err
			}

			if out == "" {
				out = export.Filename(base, ext, filter, time.Now().In(cfg.Location))
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			log.Printf("Exported %d records to %s", len(records), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "xlsx", "Export format: csv, xlsx or xlsx-images")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default: generated name in the current directory)")
	cmd.Flags().StringVar(&layout, "layout", "", "Image layout for xlsx-images; \"legacy\" uses the 100px box")
	cmd.Flags().StringVar(&filter.EmployeeName, "employee", "", "Only records of this employee")
	cmd.Flags().IntVar(&filter.Month, "month", 0, "Only records starting in this month (1-12)")
	cmd.Flags().IntVar(&filter.Year, "year", 0, "Only records starting in this year")

	return cmd
}

func renderExport(ctx context.Context, cfg *config.Config, format, layout string, records []models.OvertimeRecord) (data []byte, ext, base string, err error) {
	loc := export.LocaleByName(cfg.Locale, cfg.Location)

	switch format {
	case "csv":
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, records, loc); err != nil {
			return nil, "", "", err
		}
		return buf.Bytes(), "csv", "Lemburan", nil

	case "xlsx":
		buf, err := export.NewExporter(nil, loc, export.PlainOptions()).Export(ctx, records)
		if err != nil {
			return nil, "", "", err
		}
		return buf.Bytes(), "xlsx", "Lembur", nil

	case "xlsx-images":
		opts := export.ImageOptions()
		if layout == "legacy" {
			opts = export.LegacyImageOptions()
		}
		opts.Concurrency = cfg.ImageFetchConcurrency
		opts.FetchTimeout = cfg.ImageFetchTimeout

		var fetcher export.Fetcher = export.NewHTTPFetcher(&http.Client{Timeout: cfg.ImageFetchTimeout})
		if proofs, err := uploads.NewStore(cfg.UploadDir, cfg.PublicBaseURL); err == nil {
			fetcher = proofs.Fetcher(fetcher)
		}

		buf, err := export.NewExporter(fetcher, loc, opts).Export(ctx, records)
		if err != nil {
			return nil, "", "", err
		}
		return buf.Bytes(), "xlsx", "Lembur_Foto", nil
	}

	return nil, "", "", fmt.Errorf("unknown format %q", format)
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and seed the default admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := database.Init(cfg.DatabaseURL, cfg.DefaultAdminPassword); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			log.Println("Database schema is up to date")
			return nil
		},
	}
}

func newUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage back-office accounts",
	}

	var (
		fullName string
		password string
		role     string
	)
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an account that must change its password on first login",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ok := models.ParseRole(role)
			if !ok {
				return fmt.Errorf("unknown role %q (use ADMIN or HR)", role)
			}
			if password == "" {
				return fmt.Errorf("--password is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := database.Init(cfg.DatabaseURL, cfg.DefaultAdminPassword); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}

			user, err := database.CreateUser(database.GetDB(), args[0], fullName, password, r)
			if err != nil {
				return err
			}
			log.Printf("Created %s account %s", user.Role, user.Username)
			return nil
		},
	}
	add.Flags().StringVar(&fullName, "name", "", "Full name")
	add.Flags().StringVar(&password, "password", "", "Initial password")
	add.Flags().StringVar(&role, "role", string(models.RoleHR), "Role: ADMIN or HR")

	cmd.AddCommand(add)
	return cmd
}
