package main

import (
	"os"

	discordClient "twitch_discord_bot/internal/client/discord-client"
	twitchClient "twitch_discord_bot/internal/client/twitch-client"
	twitchOauthClient "twitch_discord_bot/internal/client/twitch-oauth-client"

	eventsubService "twitch_discord_bot/internal/service/eventsub"
	twitchTokenService "twitch_discord_bot/internal/service/twitch_token"
	userSyncService "twitch_discord_bot/internal/service/user_sync"

	dbRepository "twitch_discord_bot/db/repository"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	_ "github.com/lib/pq"
)

// app bundles everything a CLI command may need. Built lazily so commands
// that only print help never touch the database or the network.
type app struct {
	dbRepo        *dbRepository.DBRepository
	twitchClient  *twitchClient.TwitchClient
	discordClient *discordClient.DiscordClient
	userSync      *userSyncService.UserSyncService
	eventsub      *eventsubService.EventsubService
}

func newApp() (*app, error) {
	db, err := sqlx.Connect("postgres", os.Getenv("DB_CONN"))
	if err != nil {
		return nil, errors.Wrap(err, "sqlx.Connect")
	}

	dbRepo := dbRepository.NewDBRepository(db)

	oauthClient := twitchOauthClient.NewTwitchOauthClient()

	tts, err := twitchTokenService.NewTwitchTokenService(dbRepo, oauthClient)
	if err != nil {
		return nil, errors.Wrap(err, "NewTwitchTokenService")
	}

	twClient := twitchClient.NewTwitchClient(tts)

	discoClient, err := discordClient.NewDiscordClient(os.Getenv("DISCORD_TOKEN"), os.Getenv("DISCORD_APP_ID"))
	if err != nil {
		return nil, errors.Wrap(err, "NewDiscordClient")
	}

	return &app{
		dbRepo:        dbRepo,
		twitchClient:  twClient,
		discordClient: discoClient,
		userSync:      userSyncService.NewUserSyncService(dbRepo, twClient),
		eventsub: eventsubService.NewEventsubService(dbRepo, twClient,
			os.Getenv("TWITCH_CALLBACK_URL"), os.Getenv("TWITCH_CALLBACK_SECRET")),
	}, nil
}

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "bot-cli",
		Short:         "Tracked-user and subscription management for the Twitch Discord bot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newUserCmd())
	rootCmd.AddCommand(newSubsCmd())
	rootCmd.AddCommand(newCommandsCmd())

	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
