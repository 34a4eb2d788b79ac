package enums

import "fmt"

// ChatSender identifies who authored a chat message.
type ChatSender string

const (
	ChatSenderUser   ChatSender = "user"
	ChatSenderSeller ChatSender = "seller"
	ChatSenderAI     ChatSender = "sari_ai"
)

var validChatSenders = []ChatSender{
	ChatSenderUser,
	ChatSenderSeller,
	ChatSenderAI,
}

// IsValid reports whether the value is a known ChatSender.
func (c ChatSender) IsValid() bool {
	for _, candidate := range validChatSenders {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseChatSender converts raw input into a ChatSender.
func ParseChatSender(value string) (ChatSender, error) {
	for _, candidate := range validChatSenders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid chat sender %q", value)
}
