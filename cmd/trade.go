package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mselser95/etherdelta-client/pkg/types"
	"github.com/spf13/cobra"
)

var tradeCmd = &cobra.Command{
	Use:   "trade <maker> <nonce> <amount>",
	Short: "Take an open on-chain order",
	Long: `Buy amount (in token-get terms) of the open order identified by its maker
address and nonce. The order is located among the currently-open on-chain
orders; use the orders command to list them.`,
	Args: cobra.ExactArgs(3),
	RunE: runTrade,
}

var tradeCheck bool

func init() {
	rootCmd.AddCommand(tradeCmd)

	tradeCmd.Flags().BoolVar(&tradeCheck, "check", false, "Verify the trade would succeed before sending it")
}

// findOrder locates an open on-chain order by maker and nonce.
func findOrder(open []types.OnChainOrder, maker common.Address, nonce uint32) (types.OnChainOrder, bool) {
	for _, order := range open {
		if order.User == maker && order.Nonce == nonce {
			return order, true
		}
	}
	return types.OnChainOrder{}, false
}

func runTrade(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if !common.IsHexAddress(args[0]) {
		return fmt.Errorf("invalid maker address %q", args[0])
	}
	maker := common.HexToAddress(args[0])

	var nonce uint32
	if _, err := fmt.Sscanf(args[1], "%d", &nonce); err != nil {
		return fmt.Errorf("invalid nonce %q", args[1])
	}

	raw, err := parseAmount(args[2])
	if err != nil {
		return err
	}

	amount, err := types.NewWad(raw)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
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

	order, found := findOrder(open, maker, nonce)
	if !found {
		return fmt.Errorf("no open order with maker %s and nonce %d", maker.Hex(), nonce)
	}

	if tradeCheck {
		ok, err := bundle.exchange.CanTrade(ctx, order, amount, bundle.account)
		if err != nil {
			return fmt.Errorf("check trade: %w", err)
		}

		if !ok {
			fmt.Println("Trade would fail (expired order, insufficient balances, or amount too large)")
			return nil
		}

		fmt.Println("Trade check passed")
	}

	receipt, err := bundle.exchange.Trade(ctx, order, amount)
	if err != nil {
		return fmt.Errorf("trade: %w", err)
	}

	if receipt == nil {
		fmt.Println("Trade transaction reverted")
		return nil
	}

	fmt.Printf("Trade mined in block %d (tx %s)\n", receipt.BlockNumber, receipt.TxHash.Hex())
	return nil
}
