package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tulasisilks/internal/auth"
	"tulasisilks/internal/catalog"
	"tulasisilks/internal/database"
	"tulasisilks/internal/export"
	"tulasisilks/internal/models"
	"tulasisilks/internal/store"
)

func seedCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load products and orders from a YAML file into an empty store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			f, err := database.LoadSeedFile(args[0])
			if err != nil {
				return err
			}

			kv, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			cat := catalog.New(store.NewProductStore(kv))
			if err := cat.Load(cmd.Context()); err != nil {
				return err
			}
			if err := database.Seed(cmd.Context(), f, cat, store.NewOrderStore(kv)); err != nil {
				return err
			}
			slog.Info("seed complete", "products", cat.Len())
			return nil
		},
	}
}

func restoreCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Replace the product list with the last scheduled catalog snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			kv, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			ctx := cmd.Context()
			products := store.NewProductStore(kv)
			snap, err := products.LoadSnapshot(ctx)
			if err != nil {
				return err
			}
			if snap == nil {
				return errors.New("no catalog snapshot has been taken yet")
			}

			cat := catalog.New(products)
			if err := cat.Load(ctx); err != nil {
				return err
			}
			before := cat.Len()
			if err := cat.Replace(ctx, snap); err != nil {
				return err
			}
			slog.Info("catalog restored from snapshot", "before", before, "after", cat.Len())
			return nil
		},
	}
}

func exportCmd(flags *globalFlags) *cobra.Command {
	var (
		format string
		output string
		status string
	)
	cmd := &cobra.Command{
		Use:       "export products|customers",
		Short:     "Write a product or customer report as CSV or XLSX",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"products", "customers"},
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			st, err := models.ParseStatusFilter(status)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			kv, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer file.Close()
				w = file
			}

			ctx := cmd.Context()
			switch args[0] {
			case "products":
				cat := catalog.New(store.NewProductStore(kv))
				if err := cat.Load(ctx); err != nil {
					return err
				}
				return export.Products(w, f, cat.List())
			case "customers":
				customers, err := store.NewCustomerStore(kv).List(ctx, "", st)
				if err != nil {
					return err
				}
				return export.Customers(w, f, customers)
			}
			return fmt.Errorf("unknown report %q", args[0])
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "Output format (csv, xlsx)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&status, "status", "all", "Customer status filter (all, active, inactive, blocked)")
	return cmd
}

func totpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen-totp <admin-phone>",
		Short: "Generate an ADMIN_TOTP_SECRET for the admin phone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := auth.GenerateTOTPSecret(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ADMIN_TOTP_SECRET=%s\n", secret)
			return nil
		},
	}
}
