package twitch_client

import (
	"bytes"
	"context"
	"io/ioutil"
	"net/http"
	"time"

	"twitch_discord_bot/internal/models"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

func (twc *TwitchClient) GetEventSubscriptions(ctx context.Context) (data *models.GetEventSubscriptionsResponse, err error) {

	client := http.Client{
		Timeout: time.Second * 5,
	}

	req, err := http.NewRequest("GET", twc.apiSchemeHost+"/helix/eventsub/subscriptions", nil)
	if err != nil {
		return
	}

	err = twc.addAuthHeaders(ctx, req)
	if err != nil {
		return
	}

	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("get event subscriptions failed with status code: %d", resp.StatusCode)
	}

	readedResp, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return
	}

	var subscriptions models.GetEventSubscriptionsResponse
	err = jsoniter.Unmarshal(readedResp, &subscriptions)
	if err != nil {
		return
	}

	data = &subscriptions

	return
}

// CreateEventSubscription registers a webhook-transport subscription for the
// given event type and broadcaster.
func (twc *TwitchClient) CreateEventSubscription(ctx context.Context, eventType, broadcasterID, callback, secret string) (err error) {

	client := http.Client{
		Timeout: time.Second * 5,
	}

	subscription := models.CreateEventSubscriptionRequest{
		Type:    eventType,
		Version: "1",
		Condition: models.EventSubCondition{
			BroadcasterUserID: broadcasterID,
		},
		Transport: models.EventSubTransport{
			Method:   "webhook",
			Callback: callback,
			Secret:   secret,
		},
	}

	body, err := jsoniter.Marshal(subscription)
	if err != nil {
		return
	}

	req, err := http.NewRequest("POST", twc.apiSchemeHost+"/helix/eventsub/subscriptions", bytes.NewReader(body))
	if err != nil {
		return
	}

	req.Header.Add("Content-Type", "application/json")

	err = twc.addAuthHeaders(ctx, req)
	if err != nil {
		return
	}

	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return errors.Errorf("create event subscription failed with status code: %d", resp.StatusCode)
	}

	return
}

func (twc *TwitchClient) DeleteEventSubscription(ctx context.Context, subscriptionID string) (err error) {

	client := http.Client{
		Timeout: time.Second * 5,
	}

	req, err := http.NewRequest("DELETE", twc.apiSchemeHost+"/helix/eventsub/subscriptions", nil)
	if err != nil {
		return
	}

	query := req.URL.Query()
	query.Add("id", subscriptionID)
	req.URL.RawQuery = query.Encode()

	err = twc.addAuthHeaders(ctx, req)
	if err != nil {
		return
	}

	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return errors.Errorf("delete event subscription failed with status code: %d", resp.StatusCode)
	}

	return
}
