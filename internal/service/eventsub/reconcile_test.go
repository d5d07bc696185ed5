package eventsub_service

import (
	"context"
	"sort"
	"sync"
	"testing"

	"twitch_discord_bot/internal/models"

	"github.com/pkg/errors"
)

type fakeUserLister struct {
	users []models.User
}

func (f *fakeUserLister) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return f.users, nil
}

type fakeSubscriptionClient struct {
	mu            sync.Mutex
	subscriptions []models.EventSubscription
	created       []string
	deleted       []string
	failDeleteIDs map[string]bool
	failCreateIDs map[string]bool
}

func (f *fakeSubscriptionClient) GetEventSubscriptions(ctx context.Context) (*models.GetEventSubscriptionsResponse, error) {
	return &models.GetEventSubscriptionsResponse{Data: f.subscriptions}, nil
}

func (f *fakeSubscriptionClient) CreateEventSubscription(ctx context.Context, eventType, broadcasterID, callback, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreateIDs[broadcasterID] {
		return errors.New("create failed")
	}

	f.created = append(f.created, broadcasterID)
	return nil
}

func (f *fakeSubscriptionClient) DeleteEventSubscription(ctx context.Context, subscriptionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failDeleteIDs[subscriptionID] {
		return errors.New("delete failed")
	}

	f.deleted = append(f.deleted, subscriptionID)
	return nil
}

func trackedUsers(twitchIDs ...string) []models.User {
	users := make([]models.User, 0, len(twitchIDs))
	for i, id := range twitchIDs {
		users = append(users, models.User{
			UID:      uint64(i + 1),
			TwitchID: id,
			Active:   true,
		})
	}
	return users
}

func enabledSub(id, broadcasterID string) models.EventSubscription {
	return models.EventSubscription{
		ID:        id,
		Type:      models.EventsubTypeStreamOnline,
		Status:    models.EventsubStatusEnabled,
		Condition: models.EventSubCondition{BroadcasterUserID: broadcasterID},
	}
}

func TestReconcile_Converges(t *testing.T) {
	// Tracked {A,B}, remote enabled {B,C}: delete C's sub, create A's, leave B alone.
	client := &fakeSubscriptionClient{
		subscriptions: []models.EventSubscription{
			enabledSub("sub-b", "B"),
			enabledSub("sub-c", "C"),
		},
	}
	service := NewEventsubService(&fakeUserLister{users: trackedUsers("A", "B")}, client, "https://cb", "secret")

	if err := service.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if len(client.created) != 1 || client.created[0] != "A" {
		t.Errorf("created = %v, want [A]", client.created)
	}
	if len(client.deleted) != 1 || client.deleted[0] != "sub-c" {
		t.Errorf("deleted = %v, want [sub-c]", client.deleted)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	client := &fakeSubscriptionClient{
		subscriptions: []models.EventSubscription{
			enabledSub("sub-a", "A"),
			enabledSub("sub-b", "B"),
		},
	}
	service := NewEventsubService(&fakeUserLister{users: trackedUsers("A", "B")}, client, "https://cb", "secret")

	// Converged state, two runs, zero remote writes each time.
	for i := 0; i < 2; i++ {
		if err := service.Reconcile(context.Background()); err != nil {
			t.Fatalf("Reconcile() run %d error = %v", i+1, err)
		}
	}

	if len(client.created) != 0 {
		t.Errorf("created = %v, want none", client.created)
	}
	if len(client.deleted) != 0 {
		t.Errorf("deleted = %v, want none", client.deleted)
	}
}

func TestReconcile_NonEnabledSubIsReplaced(t *testing.T) {
	failed := enabledSub("sub-a", "A")
	failed.Status = "webhook_callback_verification_failed"

	client := &fakeSubscriptionClient{
		subscriptions: []models.EventSubscription{failed},
	}
	service := NewEventsubService(&fakeUserLister{users: trackedUsers("A")}, client, "https://cb", "secret")

	if err := service.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if len(client.deleted) != 1 || client.deleted[0] != "sub-a" {
		t.Errorf("deleted = %v, want [sub-a]", client.deleted)
	}
	if len(client.created) != 1 || client.created[0] != "A" {
		t.Errorf("created = %v, want [A]", client.created)
	}
}

func TestReconcile_InactiveUsersKeepSubscriptions(t *testing.T) {
	users := trackedUsers("A")
	users[0].Active = false

	client := &fakeSubscriptionClient{
		subscriptions: []models.EventSubscription{enabledSub("sub-a", "A")},
	}
	service := NewEventsubService(&fakeUserLister{users: users}, client, "https://cb", "secret")

	if err := service.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if len(client.deleted) != 0 {
		t.Errorf("deleted = %v, disabled user's subscription must survive", client.deleted)
	}
}

func TestReconcile_OtherEventTypesUntouched(t *testing.T) {
	follow := enabledSub("sub-x", "X")
	follow.Type = "channel.follow"

	client := &fakeSubscriptionClient{
		subscriptions: []models.EventSubscription{follow},
	}
	service := NewEventsubService(&fakeUserLister{users: trackedUsers()}, client, "https://cb", "secret")

	if err := service.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if len(client.deleted) != 0 {
		t.Errorf("deleted = %v, non stream.online subscriptions are out of scope", client.deleted)
	}
}

func TestReconcile_OneFailureDoesNotBlockSiblings(t *testing.T) {
	client := &fakeSubscriptionClient{
		subscriptions: []models.EventSubscription{
			enabledSub("sub-c", "C"),
			enabledSub("sub-d", "D"),
		},
		failDeleteIDs: map[string]bool{"sub-c": true},
	}
	service := NewEventsubService(&fakeUserLister{users: trackedUsers("A", "B")}, client, "https://cb", "secret")

	err := service.Reconcile(context.Background())
	if err == nil {
		t.Fatalf("Reconcile() error = nil, want aggregated failure")
	}

	if len(client.deleted) != 1 || client.deleted[0] != "sub-d" {
		t.Errorf("deleted = %v, want [sub-d] despite sub-c failing", client.deleted)
	}

	sort.Strings(client.created)
	if len(client.created) != 2 || client.created[0] != "A" || client.created[1] != "B" {
		t.Errorf("created = %v, want [A B] despite delete failure", client.created)
	}
}
