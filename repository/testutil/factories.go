package testutil

import (
	"botoclock/domain/entities"
	"botoclock/domain/utils"
)

// CreateTestChannelClock creates a channel clock with the default template
func CreateTestChannelClock(guildID, channelID int64, timezone string) *entities.Clock {
	return &entities.Clock{
		GuildID:      guildID,
		ChannelID:    channelID,
		Timezone:     timezone,
		NameTemplate: utils.DefaultTemplate,
	}
}

// CreateTestMessageClock creates a message clock posted in channelID
func CreateTestMessageClock(guildID, channelID, messageID int64, timezone string) *entities.Clock {
	clock := CreateTestChannelClock(guildID, channelID, timezone)
	clock.MessageID = &messageID
	return clock
}
