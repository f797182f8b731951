package push

import (
	"encoding/json"
	"strings"
)

// Notification defaults.
const (
	DefaultTitle = "AdOperator"
	DefaultBody  = "Novidade disponível!"
	DefaultURL   = "/"
	DefaultIcon  = "/icon-192.png"
	DefaultTag   = "adoperator-notification"
)

// Action is a button shown on a notification.
type Action struct {
	Action string `json:"action"`
	Title  string `json:"title"`
	Icon   string `json:"icon,omitempty"`
}

// Payload is the JSON document delivered by a push message.
type Payload struct {
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	URL     string   `json:"url"`
	Tag     string   `json:"tag"`
	Actions []Action `json:"actions"`
}

// ParsePayload decodes a push message. An empty or malformed message yields
// the default payload; a well-formed one is taken as is and defaulted field by
// field when it is turned into a Notification.
func ParsePayload(data []byte) Payload {
	fallback := Payload{Title: DefaultTitle, Body: DefaultBody, URL: DefaultURL}
	if len(strings.TrimSpace(string(data))) == 0 {
		return fallback
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return fallback
	}
	return p
}

// Notification is a displayed notification.
type Notification struct {
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	Icon    string   `json:"icon"`
	Badge   string   `json:"badge"`
	Tag     string   `json:"tag"`
	URL     string   `json:"url"`
	Actions []Action `json:"actions"`
}

// Notification returns the notification shown for p.
func (p Payload) Notification() Notification {
	n := Notification{
		Title:   p.Title,
		Body:    p.Body,
		Icon:    DefaultIcon,
		Badge:   DefaultIcon,
		Tag:     p.Tag,
		URL:     p.URL,
		Actions: p.Actions,
	}
	if n.Title == "" {
		n.Title = DefaultTitle
	}
	if n.Tag == "" {
		n.Tag = DefaultTag
	}
	if n.URL == "" {
		n.URL = DefaultURL
	}
	if n.Actions == nil {
		n.Actions = []Action{}
	}
	return n
}
