package twitch_token

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	dbRepository "twitch_discord_bot/db/repository"
	twitch_oauth_client "twitch_discord_bot/internal/client/twitch-oauth-client"
)

const (
	twitchTokenCheckBGSync = "twitchTokenCheck_BGSync"
	tokenInvalid           = "token invalid"
)

// TwitchTokenService owns the app access token. Consumers read it through
// Token; refresh runs at most once at a time, concurrent callers share the
// in-flight refresh instead of each hitting the oauth endpoint.
type TwitchTokenService struct {
	dbRepo            *dbRepository.DBRepository
	twitchOauthClient *twitch_oauth_client.TwitchOauthClient

	mu    sync.RWMutex
	token string

	refreshGroup singleflight.Group
}

func NewTwitchTokenService(dbRepo *dbRepository.DBRepository, twitchOauthClient *twitch_oauth_client.TwitchOauthClient) (*TwitchTokenService, error) {
	service := &TwitchTokenService{
		dbRepo:            dbRepo,
		twitchOauthClient: twitchOauthClient,
	}

	ctx := context.Background()
	err := service.Sync(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "Sync")
	}

	return service, nil
}

// Token returns the current app access token, refreshing it first if none
// is held yet.
func (tts *TwitchTokenService) Token(ctx context.Context) (string, error) {
	tts.mu.RLock()
	token := tts.token
	tts.mu.RUnlock()

	if token != "" {
		return token, nil
	}

	_, err, _ := tts.refreshGroup.Do("refresh", func() (interface{}, error) {
		return nil, tts.Sync(ctx)
	})
	if err != nil {
		return "", errors.Wrap(err, "Sync")
	}

	tts.mu.RLock()
	defer tts.mu.RUnlock()

	return tts.token, nil
}

// Sync reuses a persisted not-expired token when it still validates,
// otherwise fetches a fresh one and stores it.
func (tts *TwitchTokenService) Sync(ctx context.Context) error {

	tx, err := tts.dbRepo.BeginTransaction(ctx)
	if err != nil {
		return errors.Wrap(err, "BeginTransaction")
	}

	defer tx.Rollback()

	token, err := tts.dbRepo.GetNotExpiredToken(ctx, tx)
	if err != nil {
		return errors.Wrap(err, "GetNotExpiredToken")
	}

	if token == nil {

		newToken, err := tts.fetchToken(ctx)
		if err != nil {
			return errors.Wrap(err, "fetchToken")
		}

		err = tts.dbRepo.AddToken(ctx, tx, newToken)
		if err != nil {
			return errors.Wrap(err, "AddToken")
		}

		if err = tx.Commit(); err != nil {
			return errors.Wrap(err, "Commit")
		}

		tts.setToken(newToken)

		return nil
	}

	_, err = tts.twitchOauthClient.TwitchOAuthValidateToken(ctx, *token)
	if err != nil {
		if err.Error() == tokenInvalid {

			newToken, err := tts.fetchToken(ctx)
			if err != nil {
				return errors.Wrap(err, "fetchToken")
			}

			err = tts.dbRepo.AddToken(ctx, tx, newToken)
			if err != nil {
				return errors.Wrap(err, "AddToken")
			}

			err = tts.dbRepo.SetExpiredToken(ctx, tx, *token)
			if err != nil {
				return errors.Wrap(err, "SetExpiredToken")
			}

			if err = tx.Commit(); err != nil {
				return errors.Wrap(err, "Commit")
			}

			tts.setToken(newToken)

			return nil
		}

		return errors.Wrap(err, "TwitchOAuthValidateToken")
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "Commit")
	}

	tts.setToken(*token)

	return nil
}

func (tts *TwitchTokenService) fetchToken(ctx context.Context) (string, error) {
	tokenInfo, err := tts.twitchOauthClient.TwitchOAuthGetToken(ctx)
	if err != nil {
		return "", errors.Wrap(err, "TwitchOAuthGetToken")
	}

	if tokenInfo == nil {
		return "", errors.Wrap(errors.New("empty client resp"), "TwitchOAuthGetToken")
	}

	return tokenInfo.AccessToken, nil
}

func (tts *TwitchTokenService) setToken(token string) {
	tts.mu.Lock()
	tts.token = token
	tts.mu.Unlock()
}

func (tts *TwitchTokenService) SyncBg(ctx context.Context, updateInterval time.Duration) {
	ticker := time.NewTicker(updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Infof("stoping bg %s process", twitchTokenCheckBGSync)
			return
		case <-ticker.C:
			logrus.Infof("started bg %s process", twitchTokenCheckBGSync)
			err := tts.Sync(ctx)
			if err != nil {
				logrus.Infof("could not check twitch token: %v", err)
				continue
			}
			logrus.Info("twitch token check was complited")
		}
	}
}
