package common

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorError   = 0xED4245 // Red
	ColorWarning = 0xFEE75C // Yellow
)

// BotName is shown in embeds and the presence line
const BotName = "Bot o'clock"

// InvitePermissions is the permission integer requested by the invite link
const InvitePermissions = 8
