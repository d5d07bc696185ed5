package models

import "time"

// EventSub message types, as delivered in the Twitch-Eventsub-Message-Type header.
const (
	EventsubMessageTypeVerification = "webhook_callback_verification"
	EventsubMessageTypeNotification = "notification"
	EventsubMessageTypeRevocation   = "revocation"
)

// EventSub notification request headers.
const (
	EventsubHeaderMessageID        = "Twitch-Eventsub-Message-Id"
	EventsubHeaderMessageTimestamp = "Twitch-Eventsub-Message-Timestamp"
	EventsubHeaderMessageSignature = "Twitch-Eventsub-Message-Signature"
	EventsubHeaderMessageType      = "Twitch-Eventsub-Message-Type"
)

const EventsubTypeStreamOnline = "stream.online"

const EventsubStatusEnabled = "enabled"

type GetEventSubscriptionsResponse struct {
	Data         []EventSubscription `json:"data"`
	Total        int                 `json:"total"`
	TotalCost    int                 `json:"total_cost"`
	MaxTotalCost int                 `json:"max_total_cost"`
	Pagination   Pagination          `json:"pagination"`
}

type EventSubscription struct {
	ID        string            `json:"id"`     // Subscription ID assigned by Twitch
	Status    string            `json:"status"` // "enabled" or one of the failure states
	Type      string            `json:"type"`   // Event category, e.g. "stream.online"
	Version   string            `json:"version"`
	Condition EventSubCondition `json:"condition"`
	Transport EventSubTransport `json:"transport"`
	CreatedAt time.Time         `json:"created_at"`
	Cost      int               `json:"cost"`
}

type EventSubCondition struct {
	BroadcasterUserID string `json:"broadcaster_user_id"`
}

type EventSubTransport struct {
	Method   string `json:"method"`
	Callback string `json:"callback,omitempty"`
	Secret   string `json:"secret,omitempty"`
}

type CreateEventSubscriptionRequest struct {
	Type      string            `json:"type"`
	Version   string            `json:"version"`
	Condition EventSubCondition `json:"condition"`
	Transport EventSubTransport `json:"transport"`
}

type Pagination struct {
	Cursor string `json:"cursor"`
}

// EventsubNotification is the body of an inbound webhook delivery. Challenge
// is only present on verification requests, Event only on notifications.
type EventsubNotification struct {
	Challenge    string            `json:"challenge"`
	Subscription EventSubscription `json:"subscription"`
	Event        StreamOnlineEvent `json:"event"`
}

type StreamOnlineEvent struct {
	ID                   string `json:"id"`
	BroadcasterUserID    string `json:"broadcaster_user_id"`
	BroadcasterUserLogin string `json:"broadcaster_user_login"`
	BroadcasterUserName  string `json:"broadcaster_user_name"`
	Type                 string `json:"type"`
	StartedAt            string `json:"started_at"`
}
