package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel <nonce>",
	Short: "Cancel one of your open on-chain orders",
	Long: `Cancel the open order you placed with the given nonce. The contract marks
the order as fully filled, so it stops being tradeable immediately after the
transaction is mined.`,
	Args: cobra.ExactArgs(1),
	RunE: runCancel,
}

func init() {
	rootCmd.AddCommand(cancelCmd)
}

func runCancel(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var nonce uint32
	if _, err := fmt.Sscanf(args[0], "%d", &nonce); err != nil {
		return fmt.Errorf("invalid nonce %q", args[0])
	}

	bundle, err := setupClient(ctx, true)
	if err != nil {
		return err
	}
	defer bundle.close()

	open, err := bundle.exchange.ActiveOrders(ctx)
	if err != nil {
		return fmt.Errorf("get active orders: %w", err)
	}

	order, found := findOrder(open, bundle.account, nonce)
	if !found {
		return fmt.Errorf("no open order with nonce %d made by %s", nonce, bundle.account.Hex())
	}

	receipt, err := bundle.exchange.CancelOrder(ctx, order)
	if err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}

	if receipt == nil {
		fmt.Println("Cancel transaction reverted")
		return nil
	}

	fmt.Printf("Order cancelled in block %d (tx %s)\n", receipt.BlockNumber, receipt.TxHash.Hex())
	return nil
}
