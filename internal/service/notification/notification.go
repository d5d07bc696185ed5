package notification_service

import (
	"context"
	"fmt"
	"strings"

	"twitch_discord_bot/internal/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const defaultStreamOnlineMessage = "The wonderful {user_name} has gone live, let's go see what they're up to! {url}"

type userGetter interface {
	GetUserByTwitchID(ctx context.Context, twitchID string) (*models.User, error)
}

type profileSyncer interface {
	Sync(ctx context.Context) error
}

type messageSender interface {
	SendChannelMessage(channelID, content string) error
}

type NotificationService struct {
	dbRepo           userGetter
	userSync         profileSyncer
	discordClient    messageSender
	defaultChannelID string
}

func NewNotificationService(dbRepo userGetter, userSync profileSyncer, discordClient messageSender, defaultChannelID string) *NotificationService {
	return &NotificationService{
		dbRepo:           dbRepo,
		userSync:         userSync,
		discordClient:    discordClient,
		defaultChannelID: defaultChannelID,
	}
}

// HandleStreamOnline announces a verified stream.online event. Display
// fields come from the local row refreshed by the sync, not from the inbound
// event, which may carry stale names.
func (ns *NotificationService) HandleStreamOnline(ctx context.Context, event models.StreamOnlineEvent) error {

	// Best effort, a failed sync announces with the cached fields.
	err := ns.userSync.Sync(ctx)
	if err != nil {
		logrus.Errorf("could not sync users before announce: %v", err)
	}

	user, err := ns.dbRepo.GetUserByTwitchID(ctx, event.BroadcasterUserID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			logrus.Infof("stream.online for untracked broadcaster %s, skipping", event.BroadcasterUserID)
			return nil
		}
		return errors.Wrap(err, "GetUserByTwitchID")
	}

	if !user.Active {
		logrus.Infof("stream.online for inactive user uid %d (twitch_id %s), skipping", user.UID, user.TwitchID)
		return nil
	}

	template := defaultStreamOnlineMessage
	if user.StreamOnlineMessage.Valid && user.StreamOnlineMessage.String != "" {
		template = user.StreamOnlineMessage.String
	}

	channelID := ns.defaultChannelID
	if user.DiscordChannelID.Valid && user.DiscordChannelID.String != "" {
		channelID = user.DiscordChannelID.String
	}

	message := RenderMessage(template, *user)

	err = ns.discordClient.SendChannelMessage(channelID, message)
	if err != nil {
		return errors.Wrap(err, "SendChannelMessage")
	}

	logrus.Infof("announced stream.online for %s in channel %s", user.TwitchLogin, channelID)

	return nil
}

// RenderMessage substitutes the {user_name}, {user_login} and {url}
// placeholders from the user's cached display fields.
func RenderMessage(template string, user models.User) string {
	replacer := strings.NewReplacer(
		"{user_name}", user.TwitchName,
		"{user_login}", user.TwitchLogin,
		"{url}", fmt.Sprintf("https://twitch.tv/%s", user.TwitchLogin),
	)

	return replacer.Replace(template)
}
