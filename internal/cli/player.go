package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/demonkingdom/internal/api/response"
)

// getAs runs a GET for the configured player and prints the result
func getAs[T any](path string) error {
	if err := client.RequirePlayer(); err != nil {
		return err
	}
	var result T
	if err := client.Get(path, &result); err != nil {
		return err
	}
	NewOutput(cfg.Output).Print(result)
	return nil
}

// postAs runs a POST for the configured player and prints the result
func postAs[T any](path string, body any) error {
	if err := client.RequirePlayer(); err != nil {
		return err
	}
	var result T
	if err := client.Post(path, body, &result); err != nil {
		return err
	}
	NewOutput(cfg.Output).Print(result)
	return nil
}

func newRegisterCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register the player and found its kingdom",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"display_name": name}
			return postAs[response.RegisterResponse]("/api/v1/players", req)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")

	return cmd
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the player's id and registered name",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAs[response.Player]("/api/v1/players/me")
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the player's kingdom",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAs[response.Status]("/api/v1/players/me/status")
		},
	}
}

func newMagicCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "magic",
		Short: "List unlocked magic powers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAs[response.MagicPowers]("/api/v1/players/me/magic")
		},
	}
}

func newCompanionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "companions",
		Short: "List companions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAs[response.Companions]("/api/v1/players/me/companions")
		},
	}
}

func newSwordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "swords",
		Short: "List swords",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAs[response.Swords]("/api/v1/players/me/swords")
		},
	}
}

func newEquipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "equip <sword>",
		Short: "Equip a sword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"sword": args[0]}
			return postAs[response.Sword]("/api/v1/players/me/swords/equip", req)
		},
	}
}

func newBattleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "battle",
		Short: "Fight the demon army together with your allies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postAs[response.BattleOutcome]("/api/v1/players/me/battle", nil)
		},
	}
}

func newGiftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gift <player-id> <amount>",
		Short: "Give gold to another player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid player id %q", args[0])
			}
			amount, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}

			req := map[string]int64{"target_id": target, "amount": amount}
			return postAs[response.GiftResult]("/api/v1/players/me/gift", req)
		},
	}
}

// newRelationCmd builds "ally" or "enemy" with add and remove subcommands
func newRelationCmd(use, collection, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}

	path := func(id string) (string, error) {
		if _, err := strconv.ParseInt(id, 10, 64); err != nil {
			return "", fmt.Errorf("invalid player id %q", id)
		}
		return "/api/v1/players/me/" + collection + "/" + id, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <player-id>",
		Short: "Add a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path(args[0])
			if err != nil {
				return err
			}
			return postAs[response.Relations](p, nil)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <player-id>",
		Short: "Remove a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.RequirePlayer(); err != nil {
				return err
			}
			p, err := path(args[0])
			if err != nil {
				return err
			}
			var result response.Relations
			if err := client.Delete(p, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	return cmd
}
