package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"net/http"
	"os"
	"sync"
	"time"

	discordClient "twitch_discord_bot/internal/client/discord-client"
	twitchClient "twitch_discord_bot/internal/client/twitch-client"
	twitchOauthClient "twitch_discord_bot/internal/client/twitch-oauth-client"
	"twitch_discord_bot/internal/middleware"

	discordHandler "twitch_discord_bot/internal/handlers/discord"
	systemHandler "twitch_discord_bot/internal/handlers/system"
	twitchHandler "twitch_discord_bot/internal/handlers/twitch"

	eventsubService "twitch_discord_bot/internal/service/eventsub"
	notificationService "twitch_discord_bot/internal/service/notification"
	twitchTokenService "twitch_discord_bot/internal/service/twitch_token"
	userSyncService "twitch_discord_bot/internal/service/user_sync"

	dbRepository "twitch_discord_bot/db/repository"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	_ "github.com/lib/pq"
)

const (
	deliveryCacheWindow  = time.Minute * 10
	deliveryCacheEntries = 1024
)

func main() {
	ctx := context.Background()

	err := godotenv.Load()
	if err != nil {
		logrus.Fatal("Error loading .env file")
	}

	directAddr, debugAddr := os.Getenv("DIRECT_ADDR"), os.Getenv("DEBUG_ADDR")

	db, err := sqlx.Connect("postgres", os.Getenv("DB_CONN"))
	if err != nil {
		logrus.Fatalf("cannot connect to db: %v", err)
	}

	err = db.Ping()
	if err != nil {
		logrus.Fatalf("cannot ping db: %v", err)
	}

	publicKey, err := hex.DecodeString(os.Getenv("DISCORD_PUBLIC_KEY"))
	if err != nil {
		logrus.Fatalf("cannot decode discord public key: %v", err)
	}

	discoClient, err := discordClient.NewDiscordClient(os.Getenv("DISCORD_TOKEN"), os.Getenv("DISCORD_APP_ID"))
	if err != nil {
		logrus.Fatalf("cannot init discord client: %v", err)
	}

	var (
		oauthClient      = twitchOauthClient.NewTwitchOauthClient()
		defaultChannelID = os.Getenv("DISCORD_CHANNEL_ID")
		callbackURL      = os.Getenv("TWITCH_CALLBACK_URL")
		callbackSecret   = os.Getenv("TWITCH_CALLBACK_SECRET")
	)

	dbRepo := dbRepository.NewDBRepository(db)

	tts, err := twitchTokenService.NewTwitchTokenService(dbRepo, oauthClient)
	if err != nil {
		logrus.Fatalf("cannot init twitchTokenService: %v", err)
	}
	go tts.SyncBg(ctx, time.Minute*5)

	twClient := twitchClient.NewTwitchClient(tts)

	uss := userSyncService.NewUserSyncService(dbRepo, twClient)
	ess := eventsubService.NewEventsubService(dbRepo, twClient, callbackURL, callbackSecret)
	tns := notificationService.NewNotificationService(dbRepo, uss, discoClient, defaultChannelID)

	// Startup convergence, profile freshness first, then the subscription
	// diff. Failures are logged, the server still has to come up.
	if err := uss.Sync(ctx); err != nil {
		logrus.Errorf("startup user sync failed: %v", err)
	}
	if err := ess.Reconcile(ctx); err != nil {
		logrus.Errorf("startup subscription reconcile failed: %v", err)
	}

	deliveryCache := eventsubService.NewDeliveryCache(deliveryCacheWindow, deliveryCacheEntries)

	twHandler := twitchHandler.NewTwitchHandler(tns, deliveryCache, callbackSecret)
	discoHandler := discordHandler.NewDiscordHandler(ed25519.PublicKey(publicKey))
	sysHandler := systemHandler.NewSystemHandler(discoClient, defaultChannelID)

	debugRouter, directRouter := mux.NewRouter(), mux.NewRouter()

	directRouter.HandleFunc("/twitch/callback", twHandler.EventsubCallback).Methods("POST")
	directRouter.HandleFunc("/interactions", discoHandler.Interactions).Methods("POST")
	directRouter.HandleFunc("/health", sysHandler.Health).Methods("GET")

	debugRouter.HandleFunc("/test-send-message", sysHandler.TestSendMessage).Methods("GET")
	debugRouter.HandleFunc("/health", sysHandler.Health).Methods("GET")

	handler := middleware.ConfigureCORS(directRouter)

	logrus.Info("server start...")

	wg := new(sync.WaitGroup)

	wg.Add(2)
	go func() {
		srv := &http.Server{
			Handler:      debugRouter,
			Addr:         debugAddr,
			WriteTimeout: 5 * time.Second,
			ReadTimeout:  5 * time.Second,
		}

		logrus.Fatal(srv.ListenAndServe())
		wg.Done()
	}()

	go func() {
		srv := &http.Server{
			Handler:      handler,
			Addr:         directAddr,
			WriteTimeout: 10 * time.Second,
			ReadTimeout:  5 * time.Second,
		}

		logrus.Fatal(srv.ListenAndServe())
		wg.Done()
	}()

	wg.Wait()
}
