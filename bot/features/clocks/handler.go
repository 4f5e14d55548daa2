package clocks

import (
	"context"
	"strings"

	"botoclock/bot/common"

	log "github.com/sirupsen/logrus"
)

// HandleNew creates a voice channel clock: new <timezone> [template|preset:<name>]
func (f *Feature) HandleNew(ctx context.Context, inv *common.Invocation) (*common.Reply, error) {
	timezone, template := splitTimezone(inv)

	creation, err := f.clockService.CreateChannelClock(ctx, inv.GuildID, timezone, template)
	if err != nil {
		return nil, err
	}

	if creation.IsPartial() {
		return common.TextReply(
			"⚠️ Clock channel **%s** created, but I couldn't lock it. Members can still join it until you deny them Connect.",
			creation.Rendered,
		), nil
	}
	return common.TextReply("✅ Clock channel **%s** created.", creation.Rendered), nil
}

// HandleSpace posts a message clock in the invoking channel: space <timezone> [template]
func (f *Feature) HandleSpace(ctx context.Context, inv *common.Invocation) (*common.Reply, error) {
	timezone, template := splitTimezone(inv)

	creation, err := f.clockService.CreateMessageClock(ctx, inv.GuildID, inv.ChannelID, timezone, template)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"guildID":   inv.GuildID,
		"channelID": inv.ChannelID,
		"clockID":   creation.Clock.ID,
	}).Info("Message clock posted")

	// the posted clock message is the reply
	return nil, nil
}

// HandleDelete deletes a clock by id, or without an id the clock channel the
// caller is connected to, falling back to sweeping clocks whose resource is gone.
func (f *Feature) HandleDelete(ctx context.Context, inv *common.Invocation) (*common.Reply, error) {
	if raw := inv.Arg(0); raw != "" {
		return f.deleteByID(ctx, inv, raw)
	}

	deleted, err := f.clockService.DeleteVoiceClock(ctx, inv.GuildID, inv.AuthorID)
	if err != nil {
		return nil, err
	}
	if deleted {
		return common.TextReply("🗑️ Deleted the clock channel you're connected to."), nil
	}

	swept, err := f.reconciliation.SweepGuild(ctx, inv.GuildID)
	if err != nil {
		return nil, err
	}
	if swept == 0 {
		return common.TextReply("Nothing to clean up. Join a clock voice channel or pass a clock id to delete one."), nil
	}
	return common.TextReply("🧹 Cleaned up %d clock(s) whose channel or message no longer exists.", swept), nil
}

func (f *Feature) deleteByID(ctx context.Context, inv *common.Invocation, raw string) (*common.Reply, error) {
	resourceID, err := common.ParseID(strings.Trim(raw, "<#>"))
	if err != nil || resourceID <= 0 {
		return nil, common.NewUserError("❌ That isn't a valid clock id. Use `list` to see this server's clocks.", "invalid clock id")
	}

	deleted, err := f.clockService.DeleteClock(ctx, inv.GuildID, resourceID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, common.NewUserError("❌ This server has no clock with that id. Use `list` to see its clocks.", "clock not found")
	}
	return common.TextReply("🗑️ Clock deleted."), nil
}

// HandleList shows the guild's clocks with the ids delete accepts
func (f *Feature) HandleList(ctx context.Context, inv *common.Invocation) (*common.Reply, error) {
	clocks, err := f.clockService.ListClocks(ctx, inv.GuildID)
	if err != nil {
		return nil, err
	}
	return common.EmbedReply(buildListEmbed(clocks)), nil
}

// splitTimezone takes the first argument as the timezone and everything typed
// after it, spacing intact, as the template
func splitTimezone(inv *common.Invocation) (timezone, template string) {
	timezone = inv.Arg(0)
	if timezone == "" {
		return "", ""
	}
	rest := strings.TrimSpace(inv.RawArgs)
	template = strings.TrimSpace(strings.TrimPrefix(rest, timezone))
	return timezone, template
}
