package entities

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClock_Kind(t *testing.T) {
	messageID := int64(555)

	channelClock := &Clock{ChannelID: 111, GuildID: 1}
	messageClock := &Clock{ChannelID: 111, MessageID: &messageID, GuildID: 1}

	assert.Equal(t, ClockKindChannel, channelClock.Kind())
	assert.False(t, channelClock.IsMessageClock())
	assert.Equal(t, int64(111), channelClock.ResourceID())

	assert.Equal(t, ClockKindMessage, messageClock.Kind())
	assert.True(t, messageClock.IsMessageClock())
	assert.Equal(t, int64(555), messageClock.ResourceID())
}

func TestClock_Validate(t *testing.T) {
	zero := int64(0)

	tests := []struct {
		name    string
		clock   Clock
		wantErr string
	}{
		{
			name:  "valid channel clock",
			clock: Clock{ChannelID: 1, GuildID: 2, Timezone: "Europe/London", NameTemplate: "%H:%M"},
		},
		{
			name:    "missing guild",
			clock:   Clock{ChannelID: 1, Timezone: "Europe/London", NameTemplate: "%H:%M"},
			wantErr: "guild id",
		},
		{
			name:    "missing channel",
			clock:   Clock{GuildID: 2, Timezone: "Europe/London", NameTemplate: "%H:%M"},
			wantErr: "channel id",
		},
		{
			name:    "zero message id",
			clock:   Clock{ChannelID: 1, GuildID: 2, MessageID: &zero, Timezone: "Europe/London", NameTemplate: "%H:%M"},
			wantErr: "message id",
		},
		{
			name:    "missing timezone",
			clock:   Clock{ChannelID: 1, GuildID: 2, NameTemplate: "%H:%M"},
			wantErr: "timezone",
		},
		{
			name:    "empty template",
			clock:   Clock{ChannelID: 1, GuildID: 2, Timezone: "Europe/London"},
			wantErr: "name template is required",
		},
		{
			name:    "template too long",
			clock:   Clock{ChannelID: 1, GuildID: 2, Timezone: "Europe/London", NameTemplate: strings.Repeat("%H", 40)},
			wantErr: "exceeds 64",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.clock.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
