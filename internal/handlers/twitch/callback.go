package twitch_handler

import (
	"io/ioutil"
	"net/http"

	"twitch_discord_bot/internal/models"
	eventsub_service "twitch_discord_bot/internal/service/eventsub"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

// EventsubCallback receives webhook deliveries from Twitch. The body must be
// read raw before any parsing, the signature covers the exact bytes sent.
func (twh *TwitchHandler) EventsubCallback(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()

	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		logrus.Errorf("could not read callback body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	messageID := r.Header.Get(models.EventsubHeaderMessageID)
	timestamp := r.Header.Get(models.EventsubHeaderMessageTimestamp)
	signature := r.Header.Get(models.EventsubHeaderMessageSignature)

	if !eventsub_service.VerifySignature(twh.webhookSecret, messageID, timestamp, body, signature) {
		logrus.Info("callback signature mismatch")
		w.WriteHeader(http.StatusForbidden)
		return
	}

	var notification models.EventsubNotification
	if err := jsoniter.Unmarshal(body, &notification); err != nil {
		logrus.Errorf("could not decode callback body: %v", err)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	switch r.Header.Get(models.EventsubHeaderMessageType) {

	case models.EventsubMessageTypeVerification:
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(notification.Challenge))

	case models.EventsubMessageTypeNotification:
		logrus.Infof("event type: %s", notification.Subscription.Type)

		if notification.Subscription.Type == models.EventsubTypeStreamOnline {
			if twh.deliveryCache.SeenBefore(messageID) {
				logrus.Infof("duplicate delivery %s, skipping announce", messageID)
			} else if err := twh.notificationService.HandleStreamOnline(ctx, notification.Event); err != nil {
				// Delivery is acknowledged regardless, Twitch must not retry-storm
				// over a downstream Discord failure.
				logrus.Errorf("could not handle stream.online: %v", err)
			}
		}

		w.WriteHeader(http.StatusNoContent)

	case models.EventsubMessageTypeRevocation:
		logrus.Infof("%s notifications revoked, reason: %s, broadcaster: %s",
			notification.Subscription.Type,
			notification.Subscription.Status,
			notification.Subscription.Condition.BroadcasterUserID)

		w.WriteHeader(http.StatusNoContent)

	default:
		logrus.Infof("unknown message type: %s", r.Header.Get(models.EventsubHeaderMessageType))
		w.WriteHeader(http.StatusNoContent)
	}
}
