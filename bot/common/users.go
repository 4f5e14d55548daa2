package common

import (
	"context"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// PermissionChecker decides whether a member may manage clocks
type PermissionChecker interface {
	CanManageGuild(ctx context.Context, guildID, channelID, userID int64) (bool, error)
}

// SessionPermissions checks permissions through a discordgo session
type SessionPermissions struct {
	session *discordgo.Session
}

// NewSessionPermissions creates a permission checker backed by session
func NewSessionPermissions(session *discordgo.Session) *SessionPermissions {
	return &SessionPermissions{session: session}
}

// CanManageGuild reports whether the user has Manage Server or Administrator
// in the channel the command came from. The state cache is consulted first.
func (p *SessionPermissions) CanManageGuild(ctx context.Context, guildID, channelID, userID int64) (bool, error) {
	perms, err := p.session.State.UserChannelPermissions(FormatID(userID), FormatID(channelID))
	if err != nil {
		log.WithFields(log.Fields{
			"guildID": guildID,
			"userID":  userID,
			"error":   err,
		}).Debug("Permission lookup missed the state cache, asking the API")

		perms, err = p.session.UserChannelPermissions(FormatID(userID), FormatID(channelID), discordgo.WithContext(ctx))
		if err != nil {
			return false, err
		}
	}
	return HasManageGuild(perms), nil
}

// HasManageGuild reports whether a permission set allows managing the guild
func HasManageGuild(perms int64) bool {
	return perms&discordgo.PermissionAdministrator != 0 || perms&discordgo.PermissionManageGuild != 0
}
