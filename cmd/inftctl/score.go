package main

import (
	"github.com/spf13/cobra"

	"inft_dashboard/internal/app/bootstrap"
	"inft_dashboard/internal/domain/entity"
	"inft_dashboard/internal/domain/scoring"
	"inft_dashboard/internal/infrastructure/configloader"
	"inft_dashboard/internal/pkg/logger"
)

func newScoreCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "score <address>",
		Short: "Run one dashboard refresh for an address",
		Long:  "Fetches balances, collectibles and activity of the address from the ledger and prints the resulting snapshot as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configloader.Load(flags.configPath)
			if err != nil {
				return err
			}
			level := "warn"
			if flags.verbose {
				level = "debug"
			}
			zapLogger, err := logger.Init(level, true)
			if err != nil {
				return err
			}
			defer zapLogger.Sync()

			app, err := bootstrap.New(cfg, logger.NewSlogAdapter())
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.Dashboard.Refresh(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res.Snapshot)
		},
	}
}

func newCalcCmd() *cobra.Command {
	var in entity.ScoreInputs
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute a credit profile from raw figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := in.Validate(); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), scoring.Compute(in))
		},
	}
	cmd.Flags().IntVar(&in.AddressAgeDays, "age", 1, "address age in days")
	cmd.Flags().IntVar(&in.TransactionCount, "txs", 0, "transaction count")
	cmd.Flags().Float64Var(&in.PortfolioFiat, "portfolio", 0, "portfolio value in USD")
	cmd.Flags().IntVar(&in.CollectibleCount, "collectibles", 0, "collectible count")
	cmd.Flags().IntVar(&in.LiquidationCount, "liquidations", 0, "liquidation count")
	return cmd
}
