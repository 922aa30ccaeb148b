package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var feesCmd = &cobra.Command{
	Use:   "fees",
	Short: "Show the exchange's fee schedule and admin accounts",
	RunE:  runFees,
}

func init() {
	rootCmd.AddCommand(feesCmd)
}

func runFees(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	bundle, err := setupClient(ctx, false)
	if err != nil {
		return err
	}
	defer bundle.close()

	admin, err := bundle.exchange.Admin(ctx)
	if err != nil {
		return fmt.Errorf("get admin: %w", err)
	}

	feeAccount, err := bundle.exchange.FeeAccount(ctx)
	if err != nil {
		return fmt.Errorf("get fee account: %w", err)
	}

	feeMake, err := bundle.exchange.FeeMake(ctx)
	if err != nil {
		return fmt.Errorf("get maker fee: %w", err)
	}

	feeTake, err := bundle.exchange.FeeTake(ctx)
	if err != nil {
		return fmt.Errorf("get taker fee: %w", err)
	}

	feeRebate, err := bundle.exchange.FeeRebate(ctx)
	if err != nil {
		return fmt.Errorf("get maker rebate: %w", err)
	}

	fmt.Printf("=== Exchange Fees ===\n\n")
	fmt.Printf("Contract:    %s\n", bundle.exchange.Contract().Hex())
	fmt.Printf("Admin:       %s\n", admin.Hex())
	fmt.Printf("Fee account: %s\n\n", feeAccount.Hex())
	fmt.Printf("Maker fee:    %s\n", feeMake)
	fmt.Printf("Taker fee:    %s\n", feeTake)
	fmt.Printf("Maker rebate: %s\n", feeRebate)

	return nil
}
