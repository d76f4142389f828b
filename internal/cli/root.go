package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "dkgame",
		Short: "CLI tool for the demon kingdom gateway API",
		Long: `dkgame is a CLI tool for interacting with the demon kingdom gateway API.

Every command acts as the player given by --player, the same way the chat
gateway forwards a user's command.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load token from file if not provided via flag/env
			if err := cfg.LoadToken(); err != nil {
				return err
			}

			client = NewClient(cfg.ServerURL, cfg.Token, cfg.PlayerID)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: DKGAME_SERVER)")
	rootCmd.PersistentFlags().Int64Var(&cfg.PlayerID, "player", cfg.PlayerID, "Player id to act as (env: DKGAME_PLAYER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Gateway token (env: DKGAME_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Gateway token file path (env: DKGAME_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")

	// Add subcommands
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newMagicCmd())
	rootCmd.AddCommand(newCompanionsCmd())
	rootCmd.AddCommand(newSwordsCmd())
	rootCmd.AddCommand(newEquipCmd())
	rootCmd.AddCommand(newBattleCmd())
	rootCmd.AddCommand(newGiftCmd())
	rootCmd.AddCommand(newRelationCmd("ally", "allies", "Manage your allies"))
	rootCmd.AddCommand(newRelationCmd("enemy", "enemies", "Manage your enemies"))
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newHashTokenCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		NewOutput(cfg.Output).PrintError(err)
		os.Exit(1)
	}
}
