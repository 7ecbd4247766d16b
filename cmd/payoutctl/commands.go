package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"supplier-payout-gateway/config"
	pgStorage "supplier-payout-gateway/internal/adapter/storage/postgres"
	"supplier-payout-gateway/internal/app"
	"supplier-payout-gateway/internal/core/domain"
	"supplier-payout-gateway/internal/service"
	"supplier-payout-gateway/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "payoutctl",
		Short:         "Operator tooling for the supplier payout gateway",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv("PAYOUT_CONFIG_FILE"), "config file (default ./config.yaml)")

	rootCmd.AddCommand(deriveIDCmd())
	rootCmd.AddCommand(tokenCmd(opts))
	rootCmd.AddCommand(reconcileCmd(opts))
	rootCmd.AddCommand(statusCmd(opts))
	rootCmd.AddCommand(migrateCmd(opts))

	return rootCmd
}

func (o *rootOptions) load() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	// stdout carries command output; logs go to stderr.
	return cfg, logger.NewWithWriter(cfg.Log.Level, os.Stderr), nil
}

func deriveIDCmd() *cobra.Command {
	var party, account string
	cmd := &cobra.Command{
		Use:   "derive-id",
		Short: "Print the beneficiary id derived from a party name and account number",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(party) == "" || strings.TrimSpace(account) == "" {
				return errors.New("--party and --account are required")
			}
			fmt.Fprintln(cmd.OutOrStdout(), domain.DeriveBeneficiaryID(party, account))
			return nil
		},
	}
	cmd.Flags().StringVar(&party, "party", "", "supplier party name")
	cmd.Flags().StringVar(&account, "account", "", "bank account number")
	return cmd
}

func tokenCmd(opts *rootOptions) *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return errors.New("jwt.secret is not configured")
			}
			tokens := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
			tok, exp, err := tokens.Generate(subject)
			if err != nil {
				return fmt.Errorf("generate token: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{"token": tok, "expires_at": exp})
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject")
	return cmd
}

func reconcileCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Run one reconciliation pass over unsettled payouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			return writeJSON(cmd.OutOrStdout(), a.Reconciler.RunOnce(cmd.Context()))
		},
	}
}

func statusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <request_id>",
		Short: "Fetch a transfer's status from the provider without recording it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			gateway := app.NewGateway(cfg, log)
			st, _, err := gateway.GetTransfer(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("get transfer: %w", err)
			}
			internal, known := domain.MapRemoteStatus(st.Status)
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"transfer_id":        st.TransferID,
				"remote_transfer_id": st.RemoteTransferID,
				"raw_status":         st.Status,
				"internal_status":    internal,
				"mapped":             known,
				"utr":                st.UTR,
				"reason":             st.Reason,
			})
		},
	}
}

func migrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			pool, err := pgStorage.NewPool(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			defer pool.Close()
			return pgStorage.Migrate(cmd.Context(), pool, log)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
