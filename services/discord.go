package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"partschat/config"
	"partschat/models"
)

// discordMessageLimit is Discord's hard cap on message length.
const discordMessageLimit = 2000

// DiscordBridge is an optional second front end: messages prefixed with the
// configured command are routed through the response composer and answered in
// the channel. Each message is handled independently with an empty
// conversation context; Discord users repeat part numbers instead of relying
// on "this part" follow-ups.
type DiscordBridge struct {
	session  *discordgo.Session
	composer *ResponseComposer
	prefix   string
	enabled  bool
}

// NewDiscordBridge creates the bridge. Without a token the bridge is inert
// and Start returns an error.
func NewDiscordBridge(cfg config.DiscordConfig, composer *ResponseComposer) *DiscordBridge {
	b := &DiscordBridge{
		composer: composer,
		prefix:   cfg.CommandPrefix,
	}
	if b.prefix == "" {
		b.prefix = "!parts "
	}

	if cfg.Token == "" {
		log.Info().Msg("Discord bridge disabled: DISCORD_BOT_TOKEN not set")
		return b
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create Discord session, bridge disabled")
		return b
	}

	session.AddHandler(func(_ *discordgo.Session, event *discordgo.Ready) {
		log.Info().Str("user", event.User.Username).Int("guilds", len(event.Guilds)).Msg("Discord bridge online")
	})
	session.AddHandler(b.messageCreate)
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	b.session = session
	b.enabled = true
	return b
}

// Enabled reports whether the bridge has a usable session.
func (b *DiscordBridge) Enabled() bool {
	return b.enabled
}

// Start opens the websocket connection.
func (b *DiscordBridge) Start() error {
	if !b.enabled {
		return fmt.Errorf("discord bridge not enabled (missing bot token)")
	}
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening Discord connection: %w", err)
	}
	log.Info().Str("prefix", b.prefix).Msg("Discord bridge started")
	return nil
}

// Stop closes the connection.
func (b *DiscordBridge) Stop() error {
	if b.session != nil {
		return b.session.Close()
	}
	return nil
}

func (b *DiscordBridge) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, b.prefix) {
		return
	}

	query := strings.TrimSpace(m.Content[len(b.prefix):])
	if query == "" {
		b.send(s, m.ChannelID, fmt.Sprintf("Please provide a question after `%s`", strings.TrimSpace(b.prefix)))
		return
	}

	s.ChannelTyping(m.ChannelID)

	reply := b.composer.Compose(context.Background(), query, models.ConversationContext{})
	b.send(s, m.ChannelID, reply.Content)
}

// send splits long replies across messages to stay under Discord's limit.
func (b *DiscordBridge) send(s *discordgo.Session, channelID, content string) {
	for len(content) > 0 {
		chunk := content
		if len(chunk) > discordMessageLimit {
			chunk = chunk[:discordMessageLimit]
		}
		content = content[len(chunk):]
		if _, err := s.ChannelMessageSend(channelID, chunk); err != nil {
			log.Warn().Err(err).Str("channel", channelID).Msg("Failed to send Discord message")
			return
		}
	}
}
