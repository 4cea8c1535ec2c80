/* mock_session_test.go
 * In-memory DiscordSession used by the handler tests. Records every outgoing
 * message so assertions can inspect what the bot said.
 */

package bot

import "github.com/bwmarrin/discordgo"

type MockDiscordSession struct {
	SentMessages []MockMessage
}

// MockMessage is one recorded ChannelMessageSend call.
type MockMessage struct {
	ChannelID string
	Content   string
}

func NewMockDiscordSession() *MockDiscordSession {
	return &MockDiscordSession{}
}

func (m *MockDiscordSession) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.SentMessages = append(m.SentMessages, MockMessage{ChannelID: channelID, Content: content})
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

// GetLastMessage returns the most recent recorded message, or a zero value when
// nothing has been sent.
func (m *MockDiscordSession) GetLastMessage() MockMessage {
	if len(m.SentMessages) == 0 {
		return MockMessage{}
	}
	return m.SentMessages[len(m.SentMessages)-1]
}

// ClearMessages discards the recorded messages between phases of a test.
func (m *MockDiscordSession) ClearMessages() {
	m.SentMessages = nil
}
