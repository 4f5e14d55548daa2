package common

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Invocation is a parsed text command
type Invocation struct {
	GuildID   int64
	ChannelID int64
	MessageID int64
	AuthorID  int64

	Name    string   // lowercased command word
	Args    []string // whitespace separated arguments
	RawArgs string   // argument text exactly as typed

	MentionIDs []int64 // users mentioned in the message, the bot itself excluded
}

// Arg returns the i-th argument or ""
func (inv *Invocation) Arg(i int) string {
	if i < 0 || i >= len(inv.Args) {
		return ""
	}
	return inv.Args[i]
}

// Reply is what a handler wants sent back to the invoking channel.
// A nil Reply sends nothing.
type Reply struct {
	Content string
	Embed   *discordgo.MessageEmbed
}

// TextReply builds a plain text reply
func TextReply(format string, args ...any) *Reply {
	return &Reply{Content: formatMessage(format, args...)}
}

// EmbedReply builds an embed reply
func EmbedReply(embed *discordgo.MessageEmbed) *Reply {
	return &Reply{Embed: embed}
}

// CommandHandler handles one command invocation
type CommandHandler func(ctx context.Context, inv *Invocation) (*Reply, error)

// Command describes a text command the router dispatches
type Command struct {
	Name           string
	Aliases        []string
	RequiresManage bool // caller needs Manage Server
	Handler        CommandHandler
}
