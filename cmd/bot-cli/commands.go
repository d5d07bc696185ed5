package main

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newCommandsCmd() *cobra.Command {
	commandsCmd := &cobra.Command{
		Use:   "commands",
		Short: "Manage Discord slash commands",
	}

	commandsCmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Register the bot's global slash commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			commands := []*discordgo.ApplicationCommand{
				{
					Name:        "test",
					Description: "Basic command",
					Type:        discordgo.ChatApplicationCommand,
				},
			}

			if err := a.discordClient.InstallGlobalCommands(commands); err != nil {
				return errors.Wrap(err, "InstallGlobalCommands")
			}

			fmt.Printf("Installed %d global commands\n", len(commands))

			return nil
		},
	})

	return commandsCmd
}
