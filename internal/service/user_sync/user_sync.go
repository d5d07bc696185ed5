package user_sync

import (
	"context"

	"twitch_discord_bot/internal/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Helix users endpoint accepts at most 100 ids per request.
const lookupBatchSize = 100

type userRepository interface {
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
}

type userInfoClient interface {
	GetUsersByID(ctx context.Context, ids []string) (*models.GetUsersResponse, error)
}

type UserSyncService struct {
	dbRepo       userRepository
	twitchClient userInfoClient
}

func NewUserSyncService(dbRepo userRepository, twitchClient userInfoClient) *UserSyncService {
	return &UserSyncService{
		dbRepo:       dbRepo,
		twitchClient: twitchClient,
	}
}

// Sync refreshes cached twitch_login and twitch_name from Twitch, joining on
// twitch_id only. A tracked user missing from the Twitch response is marked
// inactive, not deleted; a previously inactive user that reappears is
// reactivated with fresh display fields. Users with no drift are not
// written. Per-user write failures are logged and do not stop the rest.
func (us *UserSyncService) Sync(ctx context.Context) error {

	users, err := us.dbRepo.GetAllUsers(ctx)
	if err != nil {
		return errors.Wrap(err, "GetAllUsers")
	}

	if len(users) == 0 {
		return nil
	}

	ids := make([]string, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.TwitchID)
	}

	twitchUsers, err := us.lookupUsers(ctx, ids)
	if err != nil {
		return errors.Wrap(err, "lookupUsers")
	}

	usersToUpdate := usersToUpdate(users, twitchUsers)

	for _, user := range usersToUpdate {
		logrus.Infof("updating user uid: %d, twitch_id: %s, twitch_login: %s, active: %t",
			user.UID, user.TwitchID, user.TwitchLogin, user.Active)

		err := us.dbRepo.UpdateUser(ctx, user)
		if err != nil {
			logrus.Errorf("could not update user uid %d: %v", user.UID, err)
		}
	}

	return nil
}

func (us *UserSyncService) lookupUsers(ctx context.Context, ids []string) (map[string]models.TwitchUserInfo, error) {
	twitchUsers := make(map[string]models.TwitchUserInfo, len(ids))

	for start := 0; start < len(ids); start += lookupBatchSize {
		end := start + lookupBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		resp, err := us.twitchClient.GetUsersByID(ctx, ids[start:end])
		if err != nil {
			return nil, errors.Wrap(err, "GetUsersByID")
		}

		for _, twitchUser := range resp.Data {
			twitchUsers[twitchUser.UserID] = twitchUser
		}
	}

	return twitchUsers, nil
}

func usersToUpdate(users []models.User, twitchUsers map[string]models.TwitchUserInfo) (toUpdate []models.User) {
	for _, user := range users {
		twitchUser, found := twitchUsers[user.TwitchID]

		if !found {
			if !user.Active {
				continue
			}

			logrus.Infof("user not found on twitch: uid: %d, twitch_id: %s, twitch_login: %s",
				user.UID, user.TwitchID, user.TwitchLogin)

			user.Active = false
			toUpdate = append(toUpdate, user)
			continue
		}

		if user.TwitchLogin != twitchUser.Login ||
			user.TwitchName != twitchUser.DisplayName ||
			!user.Active {

			logrus.Infof("user details differ from twitch: uid: %d, twitch_id: %s, login %s -> %s, name %s -> %s",
				user.UID, user.TwitchID, user.TwitchLogin, twitchUser.Login, user.TwitchName, twitchUser.DisplayName)

			user.TwitchLogin = twitchUser.Login
			user.TwitchName = twitchUser.DisplayName
			user.Active = true
			toUpdate = append(toUpdate, user)
		}
	}

	return
}
