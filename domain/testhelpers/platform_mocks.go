package testhelpers

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockChannelPlatform is a mock implementation of ChannelPlatform
type MockChannelPlatform struct {
	mock.Mock
}

func (m *MockChannelPlatform) CreateVoiceChannel(ctx context.Context, guildID int64, name string) (int64, error) {
	args := m.Called(ctx, guildID, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChannelPlatform) DenyConnect(ctx context.Context, channelID, roleID int64) error {
	args := m.Called(ctx, channelID, roleID)
	return args.Error(0)
}

func (m *MockChannelPlatform) RenameChannel(ctx context.Context, channelID int64, name string) error {
	args := m.Called(ctx, channelID, name)
	return args.Error(0)
}

func (m *MockChannelPlatform) DeleteChannel(ctx context.Context, channelID int64) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

func (m *MockChannelPlatform) ChannelExists(ctx context.Context, channelID int64) (bool, error) {
	args := m.Called(ctx, channelID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChannelPlatform) SendMessage(ctx context.Context, channelID int64, content string) (int64, error) {
	args := m.Called(ctx, channelID, content)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChannelPlatform) EditMessage(ctx context.Context, channelID, messageID int64, content string) error {
	args := m.Called(ctx, channelID, messageID, content)
	return args.Error(0)
}

func (m *MockChannelPlatform) DeleteMessage(ctx context.Context, channelID, messageID int64) error {
	args := m.Called(ctx, channelID, messageID)
	return args.Error(0)
}

func (m *MockChannelPlatform) MessageExists(ctx context.Context, channelID, messageID int64) (bool, error) {
	args := m.Called(ctx, channelID, messageID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChannelPlatform) MemberVoiceChannel(ctx context.Context, guildID, userID int64) (int64, error) {
	args := m.Called(ctx, guildID, userID)
	return args.Get(0).(int64), args.Error(1)
}
