package system_handler

import (
	"net/http"
	"time"

	"twitch_discord_bot/internal/middleware"

	"github.com/sirupsen/logrus"
)

type messageSender interface {
	SendChannelMessage(channelID, content string) error
}

type SystemHandler struct {
	discordClient    messageSender
	defaultChannelID string
	startedAt        time.Time
}

func NewSystemHandler(discordClient messageSender, defaultChannelID string) *SystemHandler {
	return &SystemHandler{
		discordClient:    discordClient,
		defaultChannelID: defaultChannelID,
		startedAt:        time.Now(),
	}
}

type healthResponse struct {
	Ok            bool    `json:"ok"`
	UptimeSeconds float64 `json:"uptime"`
}

func (sh *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteSuccessData(w, r, healthResponse{
		Ok:            true,
		UptimeSeconds: time.Since(sh.startedAt).Seconds(),
	})
}

// TestSendMessage posts a hello message to the default channel, wired on the
// debug router only.
func (sh *SystemHandler) TestSendMessage(w http.ResponseWriter, r *http.Request) {
	err := sh.discordClient.SendChannelMessage(sh.defaultChannelID, "Hello world!")
	if err != nil {
		logrus.Errorf("could not send test message: %v", err)
		middleware.WriteErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteSuccessData(w, r, map[string]bool{"ok": true})
}
