package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mselser95/etherdelta-client/pkg/types"
	"github.com/spf13/cobra"
)

var depositCmd = &cobra.Command{
	Use:   "deposit <amount>",
	Short: "Deposit ETH or an ERC20 token into the exchange",
	Long: `Move funds from your wallet into the exchange contract. Amounts are raw
integer token amounts (wei for ETH). Token deposits need a prior allowance
for the exchange contract on the token.`,
	Args: cobra.ExactArgs(1),
	RunE: runDeposit,
}

var depositToken string

func init() {
	rootCmd.AddCommand(depositCmd)

	depositCmd.Flags().StringVarP(&depositToken, "token", "t", "", "ERC20 token address (omit for raw ETH)")
}

func runDeposit(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	raw, err := parseAmount(args[0])
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

	var receipt *types.Receipt
	if depositToken == "" {
		receipt, err = bundle.exchange.Deposit(ctx, amount)
	} else {
		if !common.IsHexAddress(depositToken) {
			return fmt.Errorf("invalid token address %q", depositToken)
		}
		receipt, err = bundle.exchange.DepositToken(ctx, common.HexToAddress(depositToken), amount)
	}
	if err != nil {
		return fmt.Errorf("deposit: %w", err)
	}

	if receipt == nil {
		fmt.Println("Deposit transaction reverted")
		return nil
	}

	fmt.Printf("Deposit mined in block %d (tx %s)\n", receipt.BlockNumber, receipt.TxHash.Hex())
	return nil
}
