package discord_client

import (
	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

type DiscordClient struct {
	session *discordgo.Session
	appID   string
}

func NewDiscordClient(botToken, appID string) (*DiscordClient, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, errors.Wrap(err, "discordgo.New")
	}

	return &DiscordClient{
		session: session,
		appID:   appID,
	}, nil
}

// SendChannelMessage posts a plain content message to the given channel.
func (dc *DiscordClient) SendChannelMessage(channelID, content string) error {
	_, err := dc.session.ChannelMessageSend(channelID, content)
	if err != nil {
		return errors.Wrap(err, "ChannelMessageSend")
	}

	return nil
}

func (dc *DiscordClient) GetMyGuilds() ([]*discordgo.UserGuild, error) {
	guilds, err := dc.session.UserGuilds(100, "", "")
	if err != nil {
		return nil, errors.Wrap(err, "UserGuilds")
	}

	return guilds, nil
}

func (dc *DiscordClient) GetGuildChannels(guildID string) ([]*discordgo.Channel, error) {
	channels, err := dc.session.GuildChannels(guildID)
	if err != nil {
		return nil, errors.Wrap(err, "GuildChannels")
	}

	return channels, nil
}

// InstallGlobalCommands overwrites the application's global slash commands.
func (dc *DiscordClient) InstallGlobalCommands(commands []*discordgo.ApplicationCommand) error {
	_, err := dc.session.ApplicationCommandBulkOverwrite(dc.appID, "", commands)
	if err != nil {
		return errors.Wrap(err, "ApplicationCommandBulkOverwrite")
	}

	return nil
}
