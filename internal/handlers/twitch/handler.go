package twitch_handler

import (
	"context"

	"twitch_discord_bot/internal/models"
	eventsub_service "twitch_discord_bot/internal/service/eventsub"
)

type streamOnlineDispatcher interface {
	HandleStreamOnline(ctx context.Context, event models.StreamOnlineEvent) error
}

type TwitchHandler struct {
	notificationService streamOnlineDispatcher
	deliveryCache       *eventsub_service.DeliveryCache
	webhookSecret       string
}

func NewTwitchHandler(notificationService streamOnlineDispatcher, deliveryCache *eventsub_service.DeliveryCache, webhookSecret string) *TwitchHandler {
	return &TwitchHandler{
		notificationService: notificationService,
		deliveryCache:       deliveryCache,
		webhookSecret:       webhookSecret,
	}
}
