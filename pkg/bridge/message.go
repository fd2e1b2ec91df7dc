package bridge

import "github.com/vango-dev/vroute/pkg/history"

// MessageType identifies a bridge message.
type MessageType string

const (
	// Client to server.
	TypeInit     MessageType = "init"
	TypePopState MessageType = "popstate"

	// Server to client.
	TypePush    MessageType = "push"
	TypeReplace MessageType = "replace"
	TypeGo      MessageType = "go"
	TypeError   MessageType = "error"
)

// Message is the JSON frame exchanged with the browser.
type Message struct {
	Type  MessageType `json:"type"`
	URL   string      `json:"url,omitempty"`
	Delta int         `json:"delta,omitempty"`
	Mode  Mode        `json:"mode,omitempty"`
	Error string      `json:"error,omitempty"`
}

// commandMessage converts a history command to its wire form.
func commandMessage(cmd history.Command) Message {
	switch cmd.Op {
	case history.OpGo:
		return Message{Type: TypeGo, Delta: cmd.Delta}
	case history.OpReplace:
		return Message{Type: TypeReplace, URL: cmd.URL}
	default:
		return Message{Type: TypePush, URL: cmd.URL}
	}
}
