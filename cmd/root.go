package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "etherdelta-client",
	Short: "EtherDelta exchange client",
	Long: `Typed client for the EtherDelta exchange contract.

Manage exchange balances (deposit, withdraw, for raw ETH and ERC20 tokens),
place orders on-chain or sign them off-chain and hand them to the relay,
take and cancel orders, and watch the contract's live order flow.

Configuration comes from the environment (.env is read if present); signing
commands additionally need ETHERDELTA_PRIVATE_KEY.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
