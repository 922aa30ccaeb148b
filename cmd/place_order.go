package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mselser95/etherdelta-client/pkg/types"
	"github.com/spf13/cobra"
)

var placeOrderCmd = &cobra.Command{
	Use:   "place-order <token-get> <amount-get> <token-give> <amount-give>",
	Short: "Place a new order, on-chain or via the relay",
	Long: `Offer amount-give of token-give in exchange for amount-get of token-get.
Use "eth" as a token to trade raw ETH. Amounts are raw integer amounts.

By default the order is placed on-chain with a transaction. With --offchain
the order is signed locally and submitted to the relay's order cache instead,
costing no gas.`,
	Args: cobra.ExactArgs(4),
	RunE: runPlaceOrder,
}

var (
	placeOffchain bool
	placeExpires  uint64
)

func init() {
	rootCmd.AddCommand(placeOrderCmd)

	placeOrderCmd.Flags().BoolVar(&placeOffchain, "offchain", false, "Sign locally and submit to the relay instead of transacting")
	placeOrderCmd.Flags().Uint64Var(&placeExpires, "expires", 0, "Block number after which the order is void (required)")
	_ = placeOrderCmd.MarkFlagRequired("expires")
}

// parseToken reads a token argument; "eth" selects the raw ETH sentinel.
func parseToken(s string) (common.Address, error) {
	if strings.EqualFold(s, "eth") {
		return types.EthToken, nil
	}

	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid token address %q", s)
	}

	return common.HexToAddress(s), nil
}

func runPlaceOrder(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	tokenGet, err := parseToken(args[0])
	if err != nil {
		return err
	}

	rawGet, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	tokenGive, err := parseToken(args[2])
	if err != nil {
		return err
	}

	rawGive, err := parseAmount(args[3])
	if err != nil {
		return err
	}

	amountGet, err := types.NewWad(rawGet)
	if err != nil {
		return fmt.Errorf("invalid amount-get: %w", err)
	}

	amountGive, err := types.NewWad(rawGive)
	if err != nil {
		return fmt.Errorf("invalid amount-give: %w", err)
	}

	bundle, err := setupClient(ctx, true)
	if err != nil {
		return err
	}
	defer bundle.close()

	if placeOffchain {
		order, err := bundle.exchange.PlaceOrderOffChain(ctx,
			bundle.account, tokenGet, amountGet, tokenGive, amountGive, placeExpires)
		if err != nil {
			return fmt.Errorf("place off-chain order: %w", err)
		}

		if order == nil {
			fmt.Println("Relay did not accept the order")
			return nil
		}

		fmt.Printf("Order accepted by relay (nonce %d, expires at block %d)\n", order.Nonce, order.Expires)
		return nil
	}

	receipt, err := bundle.exchange.PlaceOrderOnChain(ctx,
		bundle.account, tokenGet, amountGet, tokenGive, amountGive, placeExpires)
	if err != nil {
		return fmt.Errorf("place on-chain order: %w", err)
	}

	if receipt == nil {
		fmt.Println("Order transaction reverted")
		return nil
	}

	fmt.Printf("Order mined in block %d (tx %s)\n", receipt.BlockNumber, receipt.TxHash.Hex())
	return nil
}
