package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode"

	"botoclock/bot/common"
	"botoclock/domain/services"
	"botoclock/events"
	"botoclock/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// Replier sends a command's reply back to where the command was typed
type Replier interface {
	Reply(ctx context.Context, channelID, messageID int64, reply *common.Reply) error
}

// Router tokenizes text commands and dispatches them to feature handlers
type Router struct {
	prefixes    []string
	permissions common.PermissionChecker
	replier     Replier

	mu        sync.RWMutex
	botUserID string
	commands  map[string]common.Command
}

// NewRouter creates a router answering to prefixes and to mentions of the bot
func NewRouter(prefixes []string, permissions common.PermissionChecker, replier Replier) *Router {
	return &Router{
		prefixes:    prefixes,
		permissions: permissions,
		replier:     replier,
		commands:    make(map[string]common.Command),
	}
}

// Register adds commands under their names and aliases
func (r *Router) Register(cmds ...common.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cmd := range cmds {
		r.commands[cmd.Name] = cmd
		for _, alias := range cmd.Aliases {
			r.commands[alias] = cmd
		}
	}
}

// SetBotUserID sets the id used to recognise mentions of the bot
func (r *Router) SetBotUserID(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.botUserID = id
}

// Subscribe routes command events from the bus
func (r *Router) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeCommand, func(ctx context.Context, event events.Event) error {
		cmd, ok := event.(events.CommandEvent)
		if !ok {
			return nil
		}
		return r.HandleCommand(ctx, cmd)
	})
}

// IsAddressed reports whether content starts with a prefix or a mention of the bot
func (r *Router) IsAddressed(content string) bool {
	_, ok := r.stripPrefix(content)
	return ok
}

// Parse turns a command event into an invocation. It returns false when the
// message is not addressed to the bot.
func (r *Router) Parse(ev events.CommandEvent) (*common.Invocation, bool) {
	rest, ok := r.stripPrefix(ev.Content)
	if !ok {
		return nil, false
	}

	name, rawArgs := splitFirst(rest)
	inv := &common.Invocation{
		GuildID:   ev.GuildID,
		ChannelID: ev.ChannelID,
		MessageID: ev.MessageID,
		AuthorID:  ev.AuthorID,
		Name:      strings.ToLower(name),
		Args:      strings.Fields(rawArgs),
		RawArgs:   rawArgs,
	}

	r.mu.RLock()
	botUserID := r.botUserID
	r.mu.RUnlock()
	for _, id := range ev.MentionIDs {
		if common.FormatID(id) != botUserID {
			inv.MentionIDs = append(inv.MentionIDs, id)
		}
	}
	return inv, true
}

// HandleCommand runs one command end to end: parse, authorize, execute, reply
func (r *Router) HandleCommand(ctx context.Context, ev events.CommandEvent) error {
	inv, ok := r.Parse(ev)
	if !ok {
		return nil
	}
	if inv.Name == "" {
		inv.Name = "help"
	}

	r.mu.RLock()
	cmd, known := r.commands[inv.Name]
	r.mu.RUnlock()
	if !known {
		log.WithFields(log.Fields{
			"guildID": inv.GuildID,
			"command": inv.Name,
		}).Debug("Ignoring unknown command")
		return nil
	}

	reply, err := r.execute(ctx, cmd, inv)
	if err != nil {
		botErr := common.FromServiceError(err)
		r.logFailure(inv, botErr)
		r.recordFailure(cmd.Name, botErr)
		reply = &common.Reply{Content: botErr.UserMessage}
	} else {
		observability.GetMetrics().RecordCommand(cmd.Name, observability.OutcomeSuccess)
	}

	if reply == nil {
		return nil
	}
	return r.replier.Reply(ctx, inv.ChannelID, inv.MessageID, reply)
}

func (r *Router) execute(ctx context.Context, cmd common.Command, inv *common.Invocation) (*common.Reply, error) {
	if cmd.RequiresManage {
		allowed, err := r.permissions.CanManageGuild(ctx, inv.GuildID, inv.ChannelID, inv.AuthorID)
		if err != nil {
			return nil, common.NewSystemError(err, "failed to resolve member permissions")
		}
		if !allowed {
			return nil, services.ErrNotAuthorized
		}
	}
	return cmd.Handler(ctx, inv)
}

func (r *Router) logFailure(inv *common.Invocation, botErr *common.BotError) {
	entry := log.WithFields(log.Fields{
		"guildID":   inv.GuildID,
		"channelID": inv.ChannelID,
		"userID":    inv.AuthorID,
		"command":   inv.Name,
		"error":     botErr.Error(),
	})
	if botErr.System {
		entry.Error(botErr.LogMessage)
	} else {
		entry.Debug(botErr.LogMessage)
	}
}

func (r *Router) recordFailure(command string, botErr *common.BotError) {
	metrics := observability.GetMetrics()
	if !botErr.System {
		metrics.RecordCommand(command, observability.OutcomeUserError)
		return
	}

	metrics.RecordCommand(command, observability.OutcomeSystemError)
	var storeErr *services.StoreError
	if errors.As(botErr, &storeErr) {
		metrics.RecordStoreError(storeErr.Op)
	}
}

// stripPrefix removes a mention of the bot or one of the text prefixes.
// Prefixes match case-insensitively and must be followed by whitespace or the end.
func (r *Router) stripPrefix(content string) (string, bool) {
	content = strings.TrimSpace(content)

	r.mu.RLock()
	botUserID := r.botUserID
	r.mu.RUnlock()

	candidates := make([]string, 0, len(r.prefixes)+2)
	if botUserID != "" {
		candidates = append(candidates, "<@"+botUserID+">", "<@!"+botUserID+">")
	}
	candidates = append(candidates, r.prefixes...)

	for _, prefix := range candidates {
		if len(content) < len(prefix) || !strings.EqualFold(content[:len(prefix)], prefix) {
			continue
		}
		rest := content[len(prefix):]
		if rest != "" && !unicode.IsSpace(rune(rest[0])) {
			continue
		}
		return strings.TrimSpace(rest), true
	}
	return "", false
}

// splitFirst splits off the first whitespace separated word
func splitFirst(s string) (first, rest string) {
	s = strings.TrimSpace(s)
	idx := strings.IndexFunc(s, unicode.IsSpace)
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimLeftFunc(s[idx:], unicode.IsSpace)
}
