package main

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"twitch_discord_bot/internal/models"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage tracked Twitch users",
	}

	userCmd.AddCommand(newUserAddCmd())
	userCmd.AddCommand(newUserListCmd())
	userCmd.AddCommand(newUserShowCmd())
	userCmd.AddCommand(newUserEditCmd())
	userCmd.AddCommand(newUserSetActiveCmd("enable", true))
	userCmd.AddCommand(newUserSetActiveCmd("disable", false))
	userCmd.AddCommand(newUserDeleteCmd())
	userCmd.AddCommand(newUserSyncCmd())

	return userCmd
}

func newUserAddCmd() *cobra.Command {
	var message, channel string

	cmd := &cobra.Command{
		Use:   "add <login>",
		Short: "Start tracking a Twitch user and create its subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			login := strings.TrimPrefix(args[0], "@")

			a, err := newApp()
			if err != nil {
				return err
			}

			_, err = a.dbRepo.GetUserByTwitchLogin(ctx, login)
			if err == nil {
				return errors.Errorf("user %s already exists", login)
			}
			if !errors.Is(err, models.ErrUserNotFound) {
				return errors.Wrap(err, "GetUserByTwitchLogin")
			}

			twitchUser, err := a.twitchClient.GetUserByLogin(ctx, login)
			if err != nil {
				return errors.Wrap(err, "GetUserByLogin")
			}
			if twitchUser == nil {
				return errors.Errorf("user %s not found on Twitch", login)
			}

			channelID := sql.NullString{}
			if channel != "" {
				id, err := resolveChannel(a, channel)
				if err != nil {
					return err
				}
				channelID = sql.NullString{String: id, Valid: true}
			}

			customMessage := sql.NullString{}
			if message != "" {
				customMessage = sql.NullString{String: message, Valid: true}
			}

			user := models.User{
				TwitchLogin:         twitchUser.Login,
				TwitchName:          twitchUser.DisplayName,
				TwitchID:            twitchUser.UserID,
				StreamOnlineMessage: customMessage,
				DiscordChannelID:    channelID,
				Active:              true,
			}

			uid, err := a.dbRepo.CreateUser(ctx, user)
			if err != nil {
				return errors.Wrap(err, "CreateUser")
			}
			user.UID = uid

			err = a.twitchClient.CreateEventSubscription(ctx, models.EventsubTypeStreamOnline,
				twitchUser.UserID, os.Getenv("TWITCH_CALLBACK_URL"), os.Getenv("TWITCH_CALLBACK_SECRET"))
			if err != nil {
				return errors.Wrap(err, "CreateEventSubscription")
			}

			fmt.Printf("User %s added, subscription created for twitch_id %s\n", login, twitchUser.UserID)
			displayUser(user)

			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "custom stream online message")
	cmd.Flags().StringVarP(&channel, "channel", "c", "", "custom discord channel name or ID")

	return cmd
}

func newUserListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all tracked users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			users, err := a.dbRepo.GetAllUsers(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "GetAllUsers")
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"UID", "Login", "Name", "Twitch ID", "Message", "Channel", "Active"})

			for _, user := range users {
				table.Append([]string{
					fmt.Sprintf("%d", user.UID),
					user.TwitchLogin,
					user.TwitchName,
					user.TwitchID,
					user.StreamOnlineMessage.String,
					user.DiscordChannelID.String,
					fmt.Sprintf("%t", user.Active),
				})
			}

			table.Render()

			return nil
		},
	}
}

func newUserShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <login>",
		Short: "Show one tracked user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			user, err := a.dbRepo.GetUserByTwitchLogin(cmd.Context(), args[0])
			if err != nil {
				return errors.Wrapf(err, "show %s", args[0])
			}

			displayUser(*user)

			return nil
		},
	}
}

func newUserEditCmd() *cobra.Command {
	var message, channel string
	var clearMessage, clearChannel bool

	cmd := &cobra.Command{
		Use:   "edit <login>",
		Short: "Edit a tracked user's message or destination channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp()
			if err != nil {
				return err
			}

			user, err := a.dbRepo.GetUserByTwitchLogin(ctx, args[0])
			if err != nil {
				return errors.Wrapf(err, "edit %s", args[0])
			}

			if clearMessage {
				user.StreamOnlineMessage = sql.NullString{}
			} else if message != "" {
				user.StreamOnlineMessage = sql.NullString{String: message, Valid: true}
			}

			if clearChannel {
				user.DiscordChannelID = sql.NullString{}
			} else if channel != "" {
				id, err := resolveChannel(a, channel)
				if err != nil {
					return err
				}
				user.DiscordChannelID = sql.NullString{String: id, Valid: true}
			}

			if err := a.dbRepo.UpdateUser(ctx, *user); err != nil {
				return errors.Wrap(err, "UpdateUser")
			}

			fmt.Printf("User %s updated\n", args[0])
			displayUser(*user)

			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "custom stream online message")
	cmd.Flags().StringVarP(&channel, "channel", "c", "", "custom discord channel name or ID")
	cmd.Flags().BoolVar(&clearMessage, "clear-message", false, "reset to the default message")
	cmd.Flags().BoolVar(&clearChannel, "clear-channel", false, "reset to the default channel")

	return cmd
}

func newUserSetActiveCmd(verb string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <login>",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a tracked user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp()
			if err != nil {
				return err
			}

			user, err := a.dbRepo.GetUserByTwitchLogin(ctx, args[0])
			if err != nil {
				return errors.Wrapf(err, "%s %s", verb, args[0])
			}

			user.Active = active
			if err := a.dbRepo.UpdateUser(ctx, *user); err != nil {
				return errors.Wrap(err, "UpdateUser")
			}

			fmt.Printf("User %s %sd\n", args[0], verb)

			return nil
		},
	}
}

func newUserDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <login>",
		Short: "Stop tracking a user and drop its subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp()
			if err != nil {
				return err
			}

			user, err := a.dbRepo.GetUserByTwitchLogin(ctx, args[0])
			if err != nil {
				return errors.Wrapf(err, "delete %s", args[0])
			}

			if err := a.dbRepo.DeleteUser(ctx, user.UID); err != nil {
				return errors.Wrap(err, "DeleteUser")
			}

			// Reconciliation drops the now-stale subscription.
			if err := a.eventsub.Reconcile(ctx); err != nil {
				return errors.Wrap(err, "Reconcile")
			}

			fmt.Printf("User %s deleted\n", args[0])

			return nil
		},
	}
}

func newUserSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Refresh cached login/display name for all tracked users from Twitch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			if err := a.userSync.Sync(cmd.Context()); err != nil {
				return errors.Wrap(err, "Sync")
			}

			fmt.Println("User sync complete")

			return nil
		},
	}
}

// resolveChannel accepts a channel id or a #name and resolves it against the
// first guild the bot is in.
func resolveChannel(a *app, channel string) (string, error) {
	search := strings.TrimPrefix(channel, "#")

	guilds, err := a.discordClient.GetMyGuilds()
	if err != nil {
		return "", errors.Wrap(err, "GetMyGuilds")
	}
	if len(guilds) == 0 {
		return "", errors.New("bot is not in any guild")
	}

	channels, err := a.discordClient.GetGuildChannels(guilds[0].ID)
	if err != nil {
		return "", errors.Wrap(err, "GetGuildChannels")
	}

	for _, ch := range channels {
		if ch.ID == search || ch.Name == search {
			return ch.ID, nil
		}
	}

	return "", errors.Errorf("channel %s not found on Discord", search)
}

func displayUser(user models.User) {
	table := tablewriter.NewWriter(os.Stdout)

	table.Append([]string{"Unique Id", fmt.Sprintf("%d", user.UID)})
	table.Append([]string{"Twitch Login", user.TwitchLogin})
	table.Append([]string{"Twitch Name", user.TwitchName})
	table.Append([]string{"Twitch Id", user.TwitchID})
	table.Append([]string{"Message", user.StreamOnlineMessage.String})
	table.Append([]string{"ChannelId", user.DiscordChannelID.String})
	table.Append([]string{"Active", fmt.Sprintf("%t", user.Active)})
	table.Append([]string{"URL", fmt.Sprintf("https://twitch.tv/%s", user.TwitchLogin)})

	table.Render()
}
