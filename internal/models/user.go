package models

import (
	"database/sql"
	"time"
)

// User is a tracked broadcaster row. TwitchID is the immutable join key
// against Twitch data; TwitchLogin and TwitchName are display caches that
// get refreshed by the user sync and must not be used for joins.
type User struct {
	UID                 uint64         `db:"uid"`
	TwitchLogin         string         `db:"twitch_login"`
	TwitchName          string         `db:"twitch_name"`
	TwitchID            string         `db:"twitch_id"`
	StreamOnlineMessage sql.NullString `db:"stream_online_message"`
	DiscordChannelID    sql.NullString `db:"discord_channel_id"`
	Active              bool           `db:"active"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

type GetUsersResponse struct {
	Data []TwitchUserInfo `json:"data"`
}

type TwitchUserInfo struct {
	UserID          string    `json:"id"`                // User’s ID
	Login           string    `json:"login"`             // User’s login name
	DisplayName     string    `json:"display_name"`      // User’s display name
	Type            string    `json:"type"`              // User’s type: "staff", "admin", "global_mod", or ""
	BroadcasterType string    `json:"broadcaster_type"`  // User’s broadcaster type: "partner", "affiliate", or ""
	Description     string    `json:"description"`       // User’s channel description
	ProfileImageUrl string    `json:"profile_image_url"` // URL of the user’s profile image
	OfflineImageUrl string    `json:"offline_image_url"` // URL of the user’s offline image
	CreatedAt       time.Time `json:"created_at"`        // Date when the user was created
}
