package discord_handler

import "crypto/ed25519"

type DiscordHandler struct {
	publicKey ed25519.PublicKey
}

func NewDiscordHandler(publicKey ed25519.PublicKey) *DiscordHandler {
	return &DiscordHandler{
		publicKey: publicKey,
	}
}
