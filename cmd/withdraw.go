package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mselser95/etherdelta-client/pkg/types"
	"github.com/spf13/cobra"
)

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <amount>",
	Short: "Withdraw ETH or an ERC20 token from the exchange",
	Long: `Move funds from the exchange contract back to your wallet. Amounts are
raw integer token amounts (wei for ETH). The withdrawal reverts when it
exceeds your exchange balance.`,
	Args: cobra.ExactArgs(1),
	RunE: runWithdraw,
}

var withdrawToken string

func init() {
	rootCmd.AddCommand(withdrawCmd)

	withdrawCmd.Flags().StringVarP(&withdrawToken, "token", "t", "", "ERC20 token address (omit for raw ETH)")
}

func runWithdraw(cmd *cobra.Command, args []string) error {
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
	if withdrawToken == "" {
		receipt, err = bundle.exchange.Withdraw(ctx, amount)
	} else {
		if !common.IsHexAddress(withdrawToken) {
			return fmt.Errorf("invalid token address %q", withdrawToken)
		}
		receipt, err = bundle.exchange.WithdrawToken(ctx, common.HexToAddress(withdrawToken), amount)
	}
	if err != nil {
		return fmt.Errorf("withdraw: %w", err)
	}

	if receipt == nil {
		fmt.Println("Withdrawal transaction reverted (insufficient exchange balance?)")
		return nil
	}

	fmt.Printf("Withdrawal mined in block %d (tx %s)\n", receipt.BlockNumber, receipt.TxHash.Hex())
	return nil
}
