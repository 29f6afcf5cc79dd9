package domain

import "strings"

const StartCommand = "/start"

// Message is an inbound chat message classified by ParseMessage.
// The set of implementations is closed: GreetingCommand and FreeText.
type Message interface {
	isMessage()
}

type GreetingCommand struct{}

type FreeText struct {
	Content string
}

func (GreetingCommand) isMessage() {}
func (FreeText) isMessage()        {}

// ParseMessage classifies text as the /start command (optionally addressed as
// /start@botname and followed by a payload) or as free text.
func ParseMessage(text string) Message {
	fields := strings.Fields(text)
	if len(fields) > 0 {
		cmd := strings.ToLower(fields[0])
		cmd = strings.Split(cmd, "@")[0]
		if cmd == StartCommand {
			return GreetingCommand{}
		}
	}
	return FreeText{Content: text}
}

// IsLink reports whether text looks like a web link.
func IsLink(text string) bool {
	return strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://")
}
