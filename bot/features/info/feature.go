package info

import (
	"time"

	"botoclock/bot/common"
)

// SessionStats is what the info embed reports about the running bot
type SessionStats interface {
	BotUserID() string
	GuildCount() int
	HeartbeatLatency() time.Duration
}

// Feature serves the help, info and invite commands
type Feature struct {
	prefix  string
	session SessionStats
	started time.Time
}

// NewFeature creates a new info feature. prefix is the one shown in help text.
func NewFeature(prefix string, session SessionStats) *Feature {
	return &Feature{
		prefix:  prefix,
		session: session,
		started: time.Now(),
	}
}

// Commands returns the text commands this feature serves
func (f *Feature) Commands() []common.Command {
	return []common.Command{
		{Name: "help", Handler: f.HandleHelp},
		{Name: "info", Aliases: []string{"invite"}, Handler: f.HandleInfo},
	}
}
