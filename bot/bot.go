package bot

import (
	"context"
	"fmt"
	"time"

	"botoclock/bot/common"
	"botoclock/bot/features/clocks"
	"botoclock/bot/features/info"
	"botoclock/bot/features/personal"
	"botoclock/domain/interfaces"
	"botoclock/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Intents the bot needs: guild and channel lifecycle, message content for
// text commands and deletions, voice states for delete without arguments.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsMessageContent |
	discordgo.IntentsGuildVoiceStates

// Config holds bot configuration
type Config struct {
	Prefixes           []string
	RefreshEnabled     bool
	RefreshSchedule    string
	SweepOnGuildCreate bool // sweep stale clocks whenever a guild becomes available
}

// Services are the domain services the bot's features call into
type Services struct {
	Clocks            interfaces.ClockService
	Reconciliation    interfaces.ReconciliationService
	PersonalTimezones interfaces.PersonalTimezoneService
	Refresh           interfaces.ClockRefreshService
}

// Bot manages the Discord session, the command router and background workers
type Bot struct {
	config   Config
	session  *discordgo.Session
	bus      *events.Bus
	router   *Router
	services Services

	// Feature modules
	clocks   *clocks.Feature
	personal *personal.Feature
	info     *info.Feature

	stopRefreshWorker func()
}

// NewSession creates a discordgo session with the intents the bot needs
func NewSession(token string) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = Intents
	dg.StateEnabled = true
	return dg, nil
}

// New wires features onto the bus and opens the gateway connection
func New(config Config, session *discordgo.Session, bus *events.Bus, svcs Services) (*Bot, error) {
	b := &Bot{
		config:   config,
		session:  session,
		bus:      bus,
		services: svcs,
	}

	b.router = NewRouter(config.Prefixes, common.NewSessionPermissions(session), b)
	b.clocks = clocks.NewFeature(svcs.Clocks, svcs.Reconciliation)
	b.personal = personal.NewFeature(svcs.PersonalTimezones)
	b.info = info.NewFeature(b.primaryPrefix(), b)

	b.router.Register(b.clocks.Commands()...)
	b.router.Register(b.personal.Commands()...)
	b.router.Register(b.info.Commands()...)
	b.router.Subscribe(bus)

	if config.SweepOnGuildCreate {
		bus.Subscribe(events.EventTypeGuildCreated, b.sweepJoinedGuild)
	}

	session.AddHandler(b.handleReady)
	session.AddHandler(b.handleGuildCreate)
	session.AddHandler(b.handleGuildDelete)
	session.AddHandler(b.handleChannelDelete)
	session.AddHandler(b.handleMessageDelete)
	session.AddHandler(b.handleMessageDeleteBulk)
	session.AddHandler(b.handleMessageCreate)

	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if config.RefreshEnabled {
		stop, err := b.StartClockRefreshWorker(config.RefreshSchedule)
		if err != nil {
			session.Close()
			return nil, fmt.Errorf("error starting refresh worker: %w", err)
		}
		b.stopRefreshWorker = stop
		log.Info("Background workers started")
	}

	return b, nil
}

// Close stops background workers and the gateway connection
func (b *Bot) Close() error {
	if b.stopRefreshWorker != nil {
		b.stopRefreshWorker()
		log.Info("Background workers stopped")
	}
	return b.session.Close()
}

// GetSession returns the Discord session
func (b *Bot) GetSession() *discordgo.Session {
	return b.session
}

// BotUserID returns the bot's own user id once the session is ready
func (b *Bot) BotUserID() string {
	if b.session.State == nil || b.session.State.User == nil {
		return ""
	}
	return b.session.State.User.ID
}

// GuildCount returns how many guilds are in the state cache
func (b *Bot) GuildCount() int {
	b.session.State.RLock()
	defer b.session.State.RUnlock()
	return len(b.session.State.Guilds)
}

// HeartbeatLatency returns the gateway heartbeat round trip
func (b *Bot) HeartbeatLatency() time.Duration {
	return b.session.HeartbeatLatency()
}

// Reply sends a command reply as a reply to the invoking message without pinging anyone
func (b *Bot) Reply(ctx context.Context, channelID, messageID int64, reply *common.Reply) error {
	msg := &discordgo.MessageSend{
		Content:         reply.Content,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
	if reply.Embed != nil {
		msg.Embeds = []*discordgo.MessageEmbed{reply.Embed}
	}
	if messageID != 0 {
		msg.Reference = &discordgo.MessageReference{
			MessageID: common.FormatID(messageID),
			ChannelID: common.FormatID(channelID),
		}
	}

	if _, err := b.session.ChannelMessageSendComplex(common.FormatID(channelID), msg, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send reply to channel %d: %w", channelID, err)
	}
	return nil
}

func (b *Bot) primaryPrefix() string {
	if len(b.config.Prefixes) == 0 {
		return "timezone"
	}
	return b.config.Prefixes[0]
}

// handleReady sets the presence and teaches the router the bot's own id
func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	b.router.SetBotUserID(r.User.ID)

	if err := s.UpdateGameStatus(0, b.primaryPrefix()+" help"); err != nil {
		log.WithError(err).Warn("Failed to set presence")
	}

	log.WithFields(log.Fields{
		"user":   r.User.Username,
		"guilds": len(r.Guilds),
	}).Info("Bot online")

	b.bus.Publish(context.Background(), events.ReadyEvent{
		BotUserID:  r.User.ID,
		GuildCount: len(r.Guilds),
	})
}

func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	guildID, err := common.ParseID(g.ID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", g.ID, err)
		return
	}

	log.WithFields(log.Fields{
		"guildID": guildID,
		"name":    g.Name,
	}).Debug("Guild available")

	b.bus.Publish(context.Background(), events.GuildCreatedEvent{
		GuildID:     guildID,
		Name:        g.Name,
		MemberCount: g.MemberCount,
		GuildCount:  b.GuildCount(),
	})
}

func (b *Bot) handleGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	guildID, err := common.ParseID(g.ID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", g.ID, err)
		return
	}

	b.bus.Publish(context.Background(), events.GuildDeletedEvent{
		GuildID:     guildID,
		Unavailable: g.Unavailable,
		GuildCount:  b.GuildCount(),
	})
}

func (b *Bot) handleChannelDelete(s *discordgo.Session, c *discordgo.ChannelDelete) {
	channelID, err := common.ParseID(c.ID)
	if err != nil {
		log.Errorf("Failed to parse channel ID %s: %v", c.ID, err)
		return
	}
	// DM channels have no guild
	guildID, _ := common.ParseID(c.GuildID)

	b.bus.Publish(context.Background(), events.ChannelDeletedEvent{
		GuildID:   guildID,
		ChannelID: channelID,
	})
}

func (b *Bot) handleMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	if m.GuildID == "" {
		return
	}
	b.publishMessageDeleted(m.GuildID, m.ChannelID, m.ID)
}

func (b *Bot) handleMessageDeleteBulk(s *discordgo.Session, m *discordgo.MessageDeleteBulk) {
	if m.GuildID == "" {
		return
	}
	for _, id := range m.Messages {
		b.publishMessageDeleted(m.GuildID, m.ChannelID, id)
	}
}

func (b *Bot) publishMessageDeleted(guild, channel, message string) {
	guildID, gErr := common.ParseID(guild)
	channelID, cErr := common.ParseID(channel)
	messageID, mErr := common.ParseID(message)
	if gErr != nil || cErr != nil || mErr != nil {
		log.WithFields(log.Fields{
			"guildID":   guild,
			"channelID": channel,
			"messageID": message,
		}).Error("Failed to parse deleted message IDs")
		return
	}

	b.bus.Publish(context.Background(), events.MessageDeletedEvent{
		GuildID:   guildID,
		ChannelID: channelID,
		MessageID: messageID,
	})
}

// handleMessageCreate turns messages addressed to the bot into command events
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if m.GuildID == "" {
		log.Debugf("Skipping message %s - not from a guild (possibly a DM)", m.ID)
		return
	}
	if !b.router.IsAddressed(m.Content) {
		return
	}

	ev, err := commandEvent(m.Message)
	if err != nil {
		log.WithError(err).WithField("messageID", m.ID).Error("Failed to parse command message")
		return
	}
	b.bus.Publish(context.Background(), ev)
}

func commandEvent(m *discordgo.Message) (events.CommandEvent, error) {
	var ev events.CommandEvent
	var err error

	if ev.GuildID, err = common.ParseID(m.GuildID); err != nil {
		return ev, fmt.Errorf("invalid guild ID: %w", err)
	}
	if ev.ChannelID, err = common.ParseID(m.ChannelID); err != nil {
		return ev, fmt.Errorf("invalid channel ID: %w", err)
	}
	if ev.MessageID, err = common.ParseID(m.ID); err != nil {
		return ev, fmt.Errorf("invalid message ID: %w", err)
	}
	if ev.AuthorID, err = common.ParseID(m.Author.ID); err != nil {
		return ev, fmt.Errorf("invalid author ID: %w", err)
	}
	ev.Content = m.Content

	for _, u := range m.Mentions {
		if id, err := common.ParseID(u.ID); err == nil {
			ev.MentionIDs = append(ev.MentionIDs, id)
		}
	}
	return ev, nil
}

// sweepJoinedGuild drops clocks whose resources vanished while the bot was away
func (b *Bot) sweepJoinedGuild(ctx context.Context, event events.Event) error {
	joined, ok := event.(events.GuildCreatedEvent)
	if !ok {
		return nil
	}

	removed, err := b.services.Reconciliation.SweepGuild(ctx, joined.GuildID)
	if err != nil {
		return fmt.Errorf("failed to sweep guild %d: %w", joined.GuildID, err)
	}
	if removed > 0 {
		log.WithFields(log.Fields{
			"guildID": joined.GuildID,
			"removed": removed,
		}).Info("Removed stale clocks after guild became available")
	}
	return nil
}
