package discord_handler

import (
	"net/http"

	"github.com/bwmarrin/discordgo"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

// Interactions is the endpoint Discord pushes slash-command invocations to.
// Requests carry an Ed25519 signature over timestamp+body, unsigned requests
// must be rejected or Discord refuses the endpoint during setup.
func (dh *DiscordHandler) Interactions(w http.ResponseWriter, r *http.Request) {

	if !discordgo.VerifyInteraction(r, dh.publicKey) {
		logrus.Info("interaction signature mismatch")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var interaction discordgo.Interaction
	if err := jsoniter.NewDecoder(r.Body).Decode(&interaction); err != nil {
		logrus.Errorf("could not decode interaction: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch interaction.Type {

	case discordgo.InteractionPing:
		writeInteractionResponse(w, discordgo.InteractionResponse{
			Type: discordgo.InteractionResponsePong,
		})

	case discordgo.InteractionApplicationCommand:
		data := interaction.ApplicationCommandData()

		if data.Name == "test" {
			writeInteractionResponse(w, discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{
					Content: "Hello world!",
				},
			})
			return
		}

		logrus.Errorf("unknown command: %s", data.Name)
		w.WriteHeader(http.StatusBadRequest)

	default:
		logrus.Errorf("unknown interaction type: %d", interaction.Type)
		w.WriteHeader(http.StatusBadRequest)
	}
}

func writeInteractionResponse(w http.ResponseWriter, resp discordgo.InteractionResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := jsoniter.NewEncoder(w).Encode(resp); err != nil {
		logrus.Errorf("could not encode interaction response: %v", err)
	}
}
