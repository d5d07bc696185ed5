package user_sync

import (
	"context"
	"strconv"
	"testing"

	"twitch_discord_bot/internal/models"

	"github.com/pkg/errors"
)

type fakeRepo struct {
	users      []models.User
	updated    []models.User
	failForUID map[uint64]bool
}

func (f *fakeRepo) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return f.users, nil
}

func (f *fakeRepo) UpdateUser(ctx context.Context, user models.User) error {
	if f.failForUID[user.UID] {
		return errors.New("update failed")
	}
	f.updated = append(f.updated, user)
	return nil
}

type fakeUserInfoClient struct {
	profiles []models.TwitchUserInfo
	requests [][]string
}

func (f *fakeUserInfoClient) GetUsersByID(ctx context.Context, ids []string) (*models.GetUsersResponse, error) {
	f.requests = append(f.requests, ids)
	return &models.GetUsersResponse{Data: f.profiles}, nil
}

func trackedUser(uid uint64, twitchID, login, name string, active bool) models.User {
	return models.User{
		UID:         uid,
		TwitchID:    twitchID,
		TwitchLogin: login,
		TwitchName:  name,
		Active:      active,
	}
}

func profile(id, login, name string) models.TwitchUserInfo {
	return models.TwitchUserInfo{UserID: id, Login: login, DisplayName: name}
}

func TestSync_MarksVanishedUserInactive(t *testing.T) {
	repo := &fakeRepo{users: []models.User{
		trackedUser(1, "42", "streamer", "Streamer", true),
	}}
	client := &fakeUserInfoClient{} // empty response, user is gone

	service := NewUserSyncService(repo, client)
	if err := service.Sync(context.Background()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if len(repo.updated) != 1 {
		t.Fatalf("updated %d users, want 1", len(repo.updated))
	}
	got := repo.updated[0]
	if got.Active {
		t.Errorf("active = true, want false")
	}
	if got.TwitchLogin != "streamer" || got.TwitchName != "Streamer" {
		t.Errorf("display fields changed on vanish: %+v", got)
	}
}

func TestSync_NoDriftNoWrite(t *testing.T) {
	repo := &fakeRepo{users: []models.User{
		trackedUser(1, "42", "streamer", "Streamer", true),
	}}
	client := &fakeUserInfoClient{profiles: []models.TwitchUserInfo{
		profile("42", "streamer", "Streamer"),
	}}

	service := NewUserSyncService(repo, client)
	if err := service.Sync(context.Background()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if len(repo.updated) != 0 {
		t.Errorf("updated %d users, want no writes without drift", len(repo.updated))
	}
}

func TestSync_RefreshesDriftedFields(t *testing.T) {
	tests := []struct {
		name   string
		remote models.TwitchUserInfo
	}{
		{"login renamed", profile("42", "newlogin", "Streamer")},
		{"display name changed", profile("42", "streamer", "NewName")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{users: []models.User{
				trackedUser(1, "42", "streamer", "Streamer", true),
			}}
			client := &fakeUserInfoClient{profiles: []models.TwitchUserInfo{tt.remote}}

			service := NewUserSyncService(repo, client)
			if err := service.Sync(context.Background()); err != nil {
				t.Fatalf("Sync() error = %v", err)
			}

			if len(repo.updated) != 1 {
				t.Fatalf("updated %d users, want 1", len(repo.updated))
			}
			got := repo.updated[0]
			if got.TwitchLogin != tt.remote.Login || got.TwitchName != tt.remote.DisplayName {
				t.Errorf("fields = (%s, %s), want (%s, %s)",
					got.TwitchLogin, got.TwitchName, tt.remote.Login, tt.remote.DisplayName)
			}
			if !got.Active {
				t.Errorf("active = false, want true")
			}
		})
	}
}

func TestSync_ReactivatesReturnedUser(t *testing.T) {
	repo := &fakeRepo{users: []models.User{
		trackedUser(1, "42", "oldlogin", "OldName", false),
	}}
	client := &fakeUserInfoClient{profiles: []models.TwitchUserInfo{
		profile("42", "newlogin", "NewName"),
	}}

	service := NewUserSyncService(repo, client)
	if err := service.Sync(context.Background()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if len(repo.updated) != 1 {
		t.Fatalf("updated %d users, want 1", len(repo.updated))
	}
	got := repo.updated[0]
	if !got.Active {
		t.Errorf("active = false, want reactivation")
	}
	if got.TwitchLogin != "newlogin" || got.TwitchName != "NewName" {
		t.Errorf("fields = (%s, %s), want refreshed values", got.TwitchLogin, got.TwitchName)
	}
}

func TestSync_AlreadyInactiveVanishedUserNotRewritten(t *testing.T) {
	repo := &fakeRepo{users: []models.User{
		trackedUser(1, "42", "streamer", "Streamer", false),
	}}
	client := &fakeUserInfoClient{}

	service := NewUserSyncService(repo, client)
	if err := service.Sync(context.Background()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if len(repo.updated) != 0 {
		t.Errorf("updated %d users, want no repeat inactive writes", len(repo.updated))
	}
}

func TestSync_OneUpdateFailureDoesNotStopOthers(t *testing.T) {
	repo := &fakeRepo{
		users: []models.User{
			trackedUser(1, "42", "a", "A", true),
			trackedUser(2, "43", "b", "B", true),
		},
		failForUID: map[uint64]bool{1: true},
	}
	client := &fakeUserInfoClient{profiles: []models.TwitchUserInfo{
		profile("42", "a2", "A"),
		profile("43", "b2", "B"),
	}}

	service := NewUserSyncService(repo, client)
	if err := service.Sync(context.Background()); err != nil {
		t.Fatalf("Sync() error = %v, per-user failures must not abort", err)
	}

	if len(repo.updated) != 1 || repo.updated[0].UID != 2 {
		t.Errorf("updated = %+v, want only uid 2", repo.updated)
	}
}

func TestSync_JoinsOnTwitchIDOnly(t *testing.T) {
	// Remote profile reuses the local login under a different id. The row
	// must be matched by id and marked inactive, not joined by login.
	repo := &fakeRepo{users: []models.User{
		trackedUser(1, "42", "streamer", "Streamer", true),
	}}
	client := &fakeUserInfoClient{profiles: []models.TwitchUserInfo{
		profile("99", "streamer", "Streamer"),
	}}

	service := NewUserSyncService(repo, client)
	if err := service.Sync(context.Background()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if len(repo.updated) != 1 || repo.updated[0].Active {
		t.Errorf("updated = %+v, want uid 1 marked inactive", repo.updated)
	}
}

func TestSync_BatchesLookupsBy100(t *testing.T) {
	var users []models.User
	for i := 0; i < 150; i++ {
		users = append(users, trackedUser(uint64(i+1), strconv.Itoa(1000+i), "login", "name", true))
	}

	repo := &fakeRepo{users: users}
	client := &fakeUserInfoClient{}

	service := NewUserSyncService(repo, client)
	if err := service.Sync(context.Background()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if len(client.requests) != 2 {
		t.Fatalf("made %d lookup requests, want 2", len(client.requests))
	}
	if len(client.requests[0]) != 100 || len(client.requests[1]) != 50 {
		t.Errorf("batch sizes = %d, %d, want 100, 50", len(client.requests[0]), len(client.requests[1]))
	}
}
