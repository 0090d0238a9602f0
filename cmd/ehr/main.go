package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/curalinkhq/curalink/internal/ehr/app"
	"github.com/curalinkhq/curalink/internal/ehr/domain"
	"github.com/curalinkhq/curalink/internal/ehr/service"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ehr",
		Short: "CuraLink EHR gateway",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(registerClientCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the EHR gateway (HTTP and TCP socket)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			application, err := app.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			return application.Run()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}

			db, err := app.OpenStore(cfg)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			if err := db.ApplyMigrations(); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Migrations applied (%s, %s).\n", cfg.DatabaseDriver, cfg.DatabaseDSN)
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo dataset into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}

			db, err := app.OpenStore(cfg)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			if err := db.ApplyMigrations(); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			if err := service.SeedDemoData(context.Background(), db); err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}

			fmt.Println("Demo data seeded. Existing records were left untouched.")
			return nil
		},
	}
}

func registerClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register-client",
		Short: "Register an OAuth client and print its credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, _ := cmd.Flags().GetString("app-id")
			appName, _ := cmd.Flags().GetString("name")
			role, _ := cmd.Flags().GetString("role")
			scopes, _ := cmd.Flags().GetStringSlice("scopes")
			description, _ := cmd.Flags().GetString("description")
			contactEmail, _ := cmd.Flags().GetString("contact-email")

			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}

			db, err := app.OpenStore(cfg)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			if err := db.ApplyMigrations(); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			clients := &service.ClientService{Store: db}
			client, secret, err := clients.RegisterClient(context.Background(), domain.ClientRegistration{
				AppID:        appID,
				AppName:      appName,
				Role:         domain.Role(role),
				Scopes:       scopes,
				Description:  description,
				ContactEmail: contactEmail,
			})
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}

			fmt.Printf("Client registered.\n\n")
			fmt.Printf("  client_id:     %s\n", client.ClientID)
			fmt.Printf("  client_secret: %s\n", secret)
			fmt.Printf("  app_id:        %s\n", client.AppID)
			fmt.Printf("  role:          %s\n", client.Role)
			fmt.Printf("  scopes:        %s\n", strings.Join(client.Scopes, " "))
			fmt.Printf("\nSave the client_secret now. It cannot be retrieved again.\n")
			return nil
		},
	}

	cmd.Flags().String("app-id", "", "Application identifier, e.g. app_pharmacy_portal (required)")
	cmd.Flags().String("name", "", "Human-readable application name (required)")
	cmd.Flags().String("role", "", "Client role: admin, doctor, nurse or system (required)")
	cmd.Flags().StringSlice("scopes", nil, "Comma-separated scopes, e.g. read:patients,write:vitals (required)")
	cmd.Flags().String("description", "", "Optional description")
	cmd.Flags().String("contact-email", "", "Optional contact email")
	_ = cmd.MarkFlagRequired("app-id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("role")
	_ = cmd.MarkFlagRequired("scopes")

	return cmd
}
