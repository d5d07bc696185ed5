package twitch_client

import "context"

const twitchApiSchemeHost string = "https://api.twitch.tv"

// tokenProvider supplies the current app access token for Helix requests.
type tokenProvider interface {
	Token(ctx context.Context) (string, error)
}

type TwitchClient struct {
	apiSchemeHost string
	tokenService  tokenProvider
}

func NewTwitchClient(tokenService tokenProvider) *TwitchClient {
	return &TwitchClient{
		apiSchemeHost: twitchApiSchemeHost,
		tokenService:  tokenService,
	}
}
