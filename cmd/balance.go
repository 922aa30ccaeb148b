package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [user]",
	Short: "Show exchange balances for an account",
	Long: `Display the raw ETH and optional token balance an account keeps inside
the exchange contract. Defaults to the account behind ETHERDELTA_PRIVATE_KEY
when no user address is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBalance,
}

var balanceToken string

func init() {
	rootCmd.AddCommand(balanceCmd)

	balanceCmd.Flags().StringVarP(&balanceToken, "token", "t", "", "Also show this ERC20 token's exchange balance")
}

func runBalance(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Only need the key when no explicit user was given.
	bundle, err := setupClient(ctx, len(args) == 0)
	if err != nil {
		return err
	}
	defer bundle.close()

	user := bundle.account
	if len(args) == 1 {
		if !common.IsHexAddress(args[0]) {
			return fmt.Errorf("invalid user address %q", args[0])
		}
		user = common.HexToAddress(args[0])
	}

	ethBalance, err := bundle.exchange.BalanceOf(ctx, user)
	if err != nil {
		return fmt.Errorf("get ETH balance: %w", err)
	}

	fmt.Printf("=== Exchange Balances ===\n\n")
	fmt.Printf("User:        %s\n", user.Hex())
	fmt.Printf("ETH balance: %s wei\n", ethBalance.Int())

	if balanceToken != "" {
		if !common.IsHexAddress(balanceToken) {
			return fmt.Errorf("invalid token address %q", balanceToken)
		}

		token := common.HexToAddress(balanceToken)
		tokenBalance, err := bundle.exchange.BalanceOfToken(ctx, token, user)
		if err != nil {
			return fmt.Errorf("get token balance: %w", err)
		}

		fmt.Printf("Token:       %s\n", token.Hex())
		fmt.Printf("Balance:     %s\n", tokenBalance.Int())
	}

	return nil
}
