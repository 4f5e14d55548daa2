package clocks

import (
	"fmt"
	"strings"

	"botoclock/bot/common"
	"botoclock/domain/entities"

	"github.com/bwmarrin/discordgo"
)

func buildListEmbed(clocks []*entities.Clock) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🕒 Clocks in this server",
		Color: common.ColorPrimary,
	}

	if len(clocks) == 0 {
		embed.Description = "No clocks yet. Create one with `new <timezone>`."
		return embed
	}

	var sb strings.Builder
	for _, c := range clocks {
		if c.IsMessageClock() {
			fmt.Fprintf(&sb, "`%d` message in <#%d> - %s\n", c.ResourceID(), c.ChannelID, c.Timezone)
		} else {
			fmt.Fprintf(&sb, "`%d` <#%d> - %s\n", c.ResourceID(), c.ChannelID, c.Timezone)
		}
	}
	embed.Description = sb.String()
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Delete one with delete <id>"}
	return embed
}
