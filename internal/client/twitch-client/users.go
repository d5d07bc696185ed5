package twitch_client

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"time"

	"twitch_discord_bot/internal/models"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// GetUsersByID fetches profile data for up to 100 twitch ids in one request.
// An id absent from the response means the account is gone or banned, the
// endpoint does not report such ids as errors.
func (twc *TwitchClient) GetUsersByID(ctx context.Context, ids []string) (data *models.GetUsersResponse, err error) {

	client := http.Client{
		Timeout: time.Second * 5,
	}

	req, err := http.NewRequest("GET", twc.apiSchemeHost+"/helix/users", nil)
	if err != nil {
		return
	}

	query := req.URL.Query()
	for _, id := range ids {
		query.Add("id", id)
	}
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

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusUnauthorized {
			readedResp, err := ioutil.ReadAll(resp.Body)
			if err != nil {
				return nil, err
			}

			var unauthorizedResp models.GetUserUnauthorized
			err = jsoniter.Unmarshal(readedResp, &unauthorizedResp)
			if err != nil {
				return nil, err
			}

			return nil, errors.New(unauthorizedResp.Message)
		}

		return nil, errors.Errorf("get twitch users failed with status code: %d", resp.StatusCode)
	}

	readedResp, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return
	}

	var usersInfo models.GetUsersResponse
	err = jsoniter.Unmarshal(readedResp, &usersInfo)
	if err != nil {
		return
	}

	data = &usersInfo

	return
}

// GetUserByLogin resolves a single login. Returns nil data when the login
// does not exist on Twitch.
func (twc *TwitchClient) GetUserByLogin(ctx context.Context, login string) (data *models.TwitchUserInfo, err error) {

	client := http.Client{
		Timeout: time.Second * 5,
	}

	req, err := http.NewRequest("GET", twc.apiSchemeHost+"/helix/users", nil)
	if err != nil {
		return
	}

	query := req.URL.Query()
	query.Add("login", login)
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

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("get twitch user failed with status code: %d", resp.StatusCode)
	}

	readedResp, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return
	}

	var usersInfo models.GetUsersResponse
	err = jsoniter.Unmarshal(readedResp, &usersInfo)
	if err != nil {
		return
	}

	if len(usersInfo.Data) == 0 {
		return nil, nil
	}

	data = &usersInfo.Data[0]

	return
}

func (twc *TwitchClient) addAuthHeaders(ctx context.Context, req *http.Request) error {
	token, err := twc.tokenService.Token(ctx)
	if err != nil {
		return errors.Wrap(err, "Token")
	}

	req.Header.Add("Client-Id", os.Getenv("TWITCH_CLIENT_ID"))
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))

	return nil
}
