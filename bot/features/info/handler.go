package info

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"botoclock/bot/common"
	"botoclock/domain/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	log "github.com/sirupsen/logrus"
)

// HandleHelp lists the commands and the template syntax
func (f *Feature) HandleHelp(ctx context.Context, inv *common.Invocation) (*common.Reply, error) {
	return common.EmbedReply(f.helpEmbed()), nil
}

// HandleInfo shows the invite link and runtime stats
func (f *Feature) HandleInfo(ctx context.Context, inv *common.Invocation) (*common.Reply, error) {
	return common.EmbedReply(f.infoEmbed(collectRuntimeStats())), nil
}

func (f *Feature) helpEmbed() *discordgo.MessageEmbed {
	p := f.prefix
	var sb strings.Builder

	fmt.Fprintf(&sb, "`%s new <timezone> [channel name]` - Create a clock voice channel. Customize its name with a template:\n", p)
	sb.WriteString("```\n")
	sb.WriteString("%H hours, %M minutes, %Z timezone, %d day, %p AM/PM, %A day name, %I 12 hour clock\n\n")
	sb.WriteString("Example:  %H o'clock on the %dth\n")
	fmt.Fprintf(&sb, "Default:  %s\n", utils.DefaultTemplate)
	sb.WriteString("Presets:  ")
	for i, preset := range utils.Presets() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(string(preset))
	}
	sb.WriteString("\n```\n")
	fmt.Fprintf(&sb, "`%s space <timezone> [template]` - Post a clock as a message in this channel.\n\n", p)
	fmt.Fprintf(&sb, "`%s personal <timezone>` - Set your personal timezone so others can check in on you.\n\n", p)
	fmt.Fprintf(&sb, "`%s check <user mention>` - Check the time for a user who set a personal timezone.\n\n", p)
	fmt.Fprintf(&sb, "`%s list` - Show this server's clocks and their ids.\n\n", p)
	fmt.Fprintf(&sb, "`%s delete [id]` - Delete a clock. Without an id, deletes the clock channel you're connected to, or cleans up clocks whose channel or message was removed.\n", p)

	return &discordgo.MessageEmbed{
		Title:       "Help",
		Description: sb.String(),
		Color:       common.ColorPrimary,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Creating and deleting clocks needs the Manage Server permission"},
	}
}

// runtimeStats is a snapshot of the host and process
type runtimeStats struct {
	cpuCount      int
	processRSS    uint64
	processCPU    float64
	memUsedPct    float64
	goroutines    int
	statsObtained bool
}

func collectRuntimeStats() runtimeStats {
	stats := runtimeStats{goroutines: runtime.NumGoroutine()}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.WithError(err).Debug("Failed to inspect own process")
		return stats
	}
	memInfo, err := proc.MemoryInfo()
	if err != nil {
		log.WithError(err).Debug("Failed to read process memory")
		return stats
	}
	stats.processRSS = memInfo.RSS
	stats.processCPU, _ = proc.CPUPercent()
	stats.cpuCount, _ = cpu.Counts(true)
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.memUsedPct = vm.UsedPercent
	}
	stats.statsObtained = true
	return stats
}

func (f *Feature) infoEmbed(stats runtimeStats) *discordgo.MessageEmbed {
	invite := fmt.Sprintf("https://discord.com/oauth2/authorize?client_id=%s&scope=bot&permissions=%d",
		f.session.BotUserID(), common.InvitePermissions)

	description := fmt.Sprintf(
		"Invite me: %s\n\nThe bot can be summoned with a mention or using `%s` as a prefix.\n\nDo `%s help` for more.",
		invite, f.prefix, f.prefix,
	)

	fields := []*discordgo.MessageEmbedField{
		{Name: "🌍 Servers", Value: fmt.Sprintf("%d", f.session.GuildCount()), Inline: true},
		{Name: "⏱️ Uptime", Value: common.FormatDuration(time.Since(f.started)), Inline: true},
		{Name: "📶 Latency", Value: f.session.HeartbeatLatency().Round(time.Millisecond).String(), Inline: true},
		{Name: "🐹 Go", Value: runtime.Version(), Inline: true},
		{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", stats.goroutines), Inline: true},
	}
	if stats.statsObtained {
		fields = append(fields,
			&discordgo.MessageEmbedField{Name: "🧠 Memory", Value: common.FormatBytes(stats.processRSS), Inline: true},
			&discordgo.MessageEmbedField{Name: "🔥 CPU", Value: fmt.Sprintf("%.1f%% of %d cores", stats.processCPU, stats.cpuCount), Inline: true},
			&discordgo.MessageEmbedField{Name: "💻 Host memory", Value: fmt.Sprintf("%.1f%% used", stats.memUsedPct), Inline: true},
		)
	}

	return &discordgo.MessageEmbed{
		Title:       "Info",
		Description: description,
		Color:       common.ColorPrimary,
		Fields:      fields,
		Footer:      &discordgo.MessageEmbedFooter{Text: common.BotName},
	}
}
