package bot

import (
	"context"
	"errors"
	"sync"
	"testing"

	"botoclock/bot/common"
	"botoclock/domain/services"
	"botoclock/events"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testBotID   = "900"
	testGuildID = int64(111)
	testChanID  = int64(222)
	testUserID  = int64(333)
)

type sentReply struct {
	channelID, messageID int64
	reply                *common.Reply
}

type fakeReplier struct {
	mu      sync.Mutex
	replies []sentReply
}

func (f *fakeReplier) Reply(ctx context.Context, channelID, messageID int64, reply *common.Reply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, sentReply{channelID, messageID, reply})
	return nil
}

func (f *fakeReplier) last(t *testing.T) sentReply {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.replies)
	return f.replies[len(f.replies)-1]
}

type fakePermissions struct {
	allowed bool
	err     error
}

func (f fakePermissions) CanManageGuild(ctx context.Context, guildID, channelID, userID int64) (bool, error) {
	return f.allowed, f.err
}

func newTestRouter(perms common.PermissionChecker) (*Router, *fakeReplier) {
	replier := &fakeReplier{}
	r := NewRouter([]string{"timezone", "?t"}, perms, replier)
	r.SetBotUserID(testBotID)
	return r, replier
}

func commandEventFor(content string, mentions ...int64) events.CommandEvent {
	return events.CommandEvent{
		GuildID:    testGuildID,
		ChannelID:  testChanID,
		MessageID:  444,
		AuthorID:   testUserID,
		Content:    content,
		MentionIDs: mentions,
	}
}

func TestRouter_Parse(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(fakePermissions{allowed: true})

	tests := []struct {
		name      string
		content   string
		addressed bool
		command   string
		args      []string
		rawArgs   string
	}{
		{"word prefix", "timezone new Europe/London", true, "new", []string{"Europe/London"}, "Europe/London"},
		{"short prefix", "?t personal Asia/Tokyo", true, "personal", []string{"Asia/Tokyo"}, "Asia/Tokyo"},
		{"prefix case", "TimeZone HELP", true, "help", nil, ""},
		{"mention", "<@900> info", true, "info", nil, ""},
		{"nickname mention", "<@!900>   check <@123>", true, "check", []string{"<@123>"}, "<@123>"},
		{"template spacing kept", "?t new UTC %H  :  %M", true, "new", []string{"UTC", "%H", ":", "%M"}, "UTC %H  :  %M"},
		{"bare prefix", "?t", true, "", nil, ""},
		{"prefix glued to word", "?thelp", false, "", nil, ""},
		{"other bot mention", "<@901> help", false, "", nil, ""},
		{"plain chat", "what timezone are you in", false, "", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := r.Parse(commandEventFor(tt.content))
			require.Equal(t, tt.addressed, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.command, inv.Name)
			if len(tt.args) == 0 {
				assert.Empty(t, inv.Args)
			} else {
				assert.Equal(t, tt.args, inv.Args)
			}
			assert.Equal(t, tt.rawArgs, inv.RawArgs)
		})
	}
}

func TestRouter_ParseDropsBotMention(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(fakePermissions{allowed: true})

	inv, ok := r.Parse(commandEventFor("<@900> check <@123>", 900, 123))
	require.True(t, ok)
	assert.Equal(t, []int64{123}, inv.MentionIDs)
}

func TestRouter_HandleCommand(t *testing.T) {
	t.Parallel()

	echo := common.Command{
		Name:    "echo",
		Aliases: []string{"say"},
		Handler: func(ctx context.Context, inv *common.Invocation) (*common.Reply, error) {
			return common.TextReply("echo %s", inv.RawArgs), nil
		},
	}
	guarded := common.Command{
		Name:           "new",
		RequiresManage: true,
		Handler: func(ctx context.Context, inv *common.Invocation) (*common.Reply, error) {
			return common.TextReply("created"), nil
		},
	}
	failing := common.Command{
		Name: "broken",
		Handler: func(ctx context.Context, inv *common.Invocation) (*common.Reply, error) {
			return nil, &services.StoreError{Op: "count", Err: errors.New("dial tcp 10.1.2.3:5432: refused")}
		},
	}
	silent := common.Command{
		Name: "space",
		Handler: func(ctx context.Context, inv *common.Invocation) (*common.Reply, error) {
			return nil, nil
		},
	}

	t.Run("dispatches by alias and replies to the message", func(t *testing.T) {
		t.Parallel()
		r, replier := newTestRouter(fakePermissions{allowed: true})
		r.Register(echo)

		require.NoError(t, r.HandleCommand(context.Background(), commandEventFor("?t say hi there")))
		sent := replier.last(t)
		assert.Equal(t, "echo hi there", sent.reply.Content)
		assert.Equal(t, testChanID, sent.channelID)
		assert.Equal(t, int64(444), sent.messageID)
	})

	t.Run("unauthorized caller is rejected before the handler", func(t *testing.T) {
		t.Parallel()
		r, replier := newTestRouter(fakePermissions{allowed: false})
		r.Register(guarded)

		require.NoError(t, r.HandleCommand(context.Background(), commandEventFor("?t new UTC")))
		assert.Contains(t, replier.last(t).reply.Content, "Manage Server")
	})

	t.Run("permission lookup failure is a system error", func(t *testing.T) {
		t.Parallel()
		r, replier := newTestRouter(fakePermissions{err: errors.New("timeout")})
		r.Register(guarded)

		require.NoError(t, r.HandleCommand(context.Background(), commandEventFor("?t new UTC")))
		assert.Contains(t, replier.last(t).reply.Content, "try again")
	})

	t.Run("store failure hides details", func(t *testing.T) {
		t.Parallel()
		r, replier := newTestRouter(fakePermissions{allowed: true})
		r.Register(failing)

		require.NoError(t, r.HandleCommand(context.Background(), commandEventFor("?t broken")))
		content := replier.last(t).reply.Content
		assert.Contains(t, content, "try again")
		assert.NotContains(t, content, "10.1.2.3")
	})

	t.Run("nil reply sends nothing", func(t *testing.T) {
		t.Parallel()
		r, replier := newTestRouter(fakePermissions{allowed: true})
		r.Register(silent)

		require.NoError(t, r.HandleCommand(context.Background(), commandEventFor("?t space UTC")))
		assert.Empty(t, replier.replies)
	})

	t.Run("unknown command is ignored", func(t *testing.T) {
		t.Parallel()
		r, replier := newTestRouter(fakePermissions{allowed: true})
		r.Register(echo)

		require.NoError(t, r.HandleCommand(context.Background(), commandEventFor("?t dance")))
		assert.Empty(t, replier.replies)
	})

	t.Run("bare prefix shows help", func(t *testing.T) {
		t.Parallel()
		r, replier := newTestRouter(fakePermissions{allowed: true})
		r.Register(common.Command{
			Name: "help",
			Handler: func(ctx context.Context, inv *common.Invocation) (*common.Reply, error) {
				return common.TextReply("help text"), nil
			},
		})

		require.NoError(t, r.HandleCommand(context.Background(), commandEventFor("<@900>")))
		assert.Equal(t, "help text", replier.last(t).reply.Content)
	})
}

func TestRouter_SubscribeToBus(t *testing.T) {
	t.Parallel()
	bus := events.NewBus(2)
	defer bus.Close()

	r, replier := newTestRouter(fakePermissions{allowed: true})
	r.Register(common.Command{
		Name: "ping",
		Handler: func(ctx context.Context, inv *common.Invocation) (*common.Reply, error) {
			return common.TextReply("pong"), nil
		},
	})
	r.Subscribe(bus)

	bus.Publish(context.Background(), commandEventFor("timezone ping"))
	bus.Wait()
	assert.Equal(t, "pong", replier.last(t).reply.Content)
}

func TestCommandEvent(t *testing.T) {
	t.Parallel()

	ev, err := commandEvent(&discordgo.Message{
		ID:        "444",
		ChannelID: "222",
		GuildID:   "111",
		Content:   "?t check <@123>",
		Author:    &discordgo.User{ID: "333"},
		Mentions:  []*discordgo.User{{ID: "123"}},
	})
	require.NoError(t, err)
	assert.Equal(t, testGuildID, ev.GuildID)
	assert.Equal(t, testChanID, ev.ChannelID)
	assert.Equal(t, int64(444), ev.MessageID)
	assert.Equal(t, testUserID, ev.AuthorID)
	assert.Equal(t, []int64{123}, ev.MentionIDs)

	_, err = commandEvent(&discordgo.Message{ID: "x", ChannelID: "222", GuildID: "111", Author: &discordgo.User{ID: "333"}})
	assert.Error(t, err)
}
