package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List currently-open on-chain orders",
	Long: `Backfill Order events over the configured lookback window, drop orders
the contract reports as fully filled or cancelled, and print what remains.`,
	RunE: runOrders,
}

var (
	ordersUser      string
	ordersAvailable bool
)

func init() {
	rootCmd.AddCommand(ordersCmd)

	ordersCmd.Flags().StringVarP(&ordersUser, "user", "u", "", "Only show orders made by this address")
	ordersCmd.Flags().BoolVarP(&ordersAvailable, "available", "a", false, "Also query the still-tradeable amount per order")
}

func runOrders(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var filterUser common.Address
	if ordersUser != "" {
		if !common.IsHexAddress(ordersUser) {
			return fmt.Errorf("invalid user address %q", ordersUser)
		}
		filterUser = common.HexToAddress(ordersUser)
	}

	bundle, err := setupClient(ctx, false)
	if err != nil {
		return err
	}
	defer bundle.close()

	open, err := bundle.exchange.ActiveOrders(ctx)
	if err != nil {
		return fmt.Errorf("get active orders: %w", err)
	}

	fmt.Printf("=== Open Orders ===\n\n")

	shown := 0
	for _, order := range open {
		if ordersUser != "" && order.User != filterUser {
			continue
		}
		shown++

		fmt.Printf("Maker:   %s (nonce %d)\n", order.User.Hex(), order.Nonce)
		fmt.Printf("  Wants: %s of %s\n", order.AmountGet.Int(), order.TokenGet.Hex())
		fmt.Printf("  Gives: %s of %s\n", order.AmountGive.Int(), order.TokenGive.Hex())
		fmt.Printf("  Expires at block %d\n", order.Expires)

		if ordersAvailable {
			available, err := bundle.exchange.AmountAvailable(ctx, order)
			if err != nil {
				return fmt.Errorf("get available amount: %w", err)
			}
			fmt.Printf("  Still tradeable: %s\n", available.Int())
		}

		fmt.Println()
	}

	fmt.Printf("%d open orders\n", shown)
	return nil
}
