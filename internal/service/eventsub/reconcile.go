package eventsub_service

import (
	"context"

	"twitch_discord_bot/internal/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type userLister interface {
	GetAllUsers(ctx context.Context) ([]models.User, error)
}

type subscriptionClient interface {
	GetEventSubscriptions(ctx context.Context) (*models.GetEventSubscriptionsResponse, error)
	CreateEventSubscription(ctx context.Context, eventType, broadcasterID, callback, secret string) error
	DeleteEventSubscription(ctx context.Context, subscriptionID string) error
}

type EventsubService struct {
	dbRepo       userLister
	twitchClient subscriptionClient
	callbackURL  string
	secret       string
}

func NewEventsubService(dbRepo userLister, twitchClient subscriptionClient, callbackURL, secret string) *EventsubService {
	return &EventsubService{
		dbRepo:       dbRepo,
		twitchClient: twitchClient,
		callbackURL:  callbackURL,
		secret:       secret,
	}
}

// Reconcile converges the remote stream.online subscription set with the
// tracked user set. Subscriptions in a failed state or pointing at an
// untracked broadcaster are deleted, tracked broadcasters without an enabled
// subscription get one created. Safe to run repeatedly, a second run with no
// state change performs no remote writes. Per-item failures are logged and
// do not block sibling operations.
func (es *EventsubService) Reconcile(ctx context.Context) error {

	subsResp, err := es.twitchClient.GetEventSubscriptions(ctx)
	if err != nil {
		return errors.Wrap(err, "GetEventSubscriptions")
	}

	users, err := es.dbRepo.GetAllUsers(ctx)
	if err != nil {
		return errors.Wrap(err, "GetAllUsers")
	}

	// All tracked ids, locally disabled users keep their subscription.
	trackedIDs := make(map[string]struct{}, len(users))
	for _, user := range users {
		trackedIDs[user.TwitchID] = struct{}{}
	}

	var subscriptions []models.EventSubscription
	for _, sub := range subsResp.Data {
		if sub.Type == models.EventsubTypeStreamOnline {
			subscriptions = append(subscriptions, sub)
		}
	}

	subsToDelete := subsToDelete(subscriptions, trackedIDs)
	idsToCreate := idsToCreate(subscriptions, users)

	group := errgroup.Group{}

	for _, sub := range subsToDelete {
		sub := sub
		group.Go(func() error {
			err := es.twitchClient.DeleteEventSubscription(ctx, sub.ID)
			if err != nil {
				logrus.Errorf("could not delete subscription %s for broadcaster %s: %v",
					sub.ID, sub.Condition.BroadcasterUserID, err)
				return err
			}

			logrus.Infof("deleted subscription %s for broadcaster %s", sub.ID, sub.Condition.BroadcasterUserID)
			return nil
		})
	}

	for _, id := range idsToCreate {
		id := id
		group.Go(func() error {
			err := es.twitchClient.CreateEventSubscription(ctx, models.EventsubTypeStreamOnline, id, es.callbackURL, es.secret)
			if err != nil {
				logrus.Errorf("could not create subscription for broadcaster %s: %v", id, err)
				return err
			}

			logrus.Infof("created subscription for broadcaster %s", id)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return errors.Wrap(err, "Reconcile")
	}

	return nil
}

// subsToDelete picks subscriptions that are not enabled or whose broadcaster
// is no longer tracked.
func subsToDelete(subscriptions []models.EventSubscription, trackedIDs map[string]struct{}) (subs []models.EventSubscription) {
	for _, sub := range subscriptions {
		if sub.Status != models.EventsubStatusEnabled {
			subs = append(subs, sub)
			continue
		}

		if _, ok := trackedIDs[sub.Condition.BroadcasterUserID]; !ok {
			subs = append(subs, sub)
		}
	}

	return
}

// idsToCreate picks tracked broadcaster ids without an enabled subscription.
func idsToCreate(subscriptions []models.EventSubscription, users []models.User) (ids []string) {
	enabled := make(map[string]struct{}, len(subscriptions))
	for _, sub := range subscriptions {
		if sub.Status == models.EventsubStatusEnabled {
			enabled[sub.Condition.BroadcasterUserID] = struct{}{}
		}
	}

	for _, user := range users {
		if _, ok := enabled[user.TwitchID]; !ok {
			ids = append(ids, user.TwitchID)
		}
	}

	return
}
