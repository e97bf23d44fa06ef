package bot

import (
	"fmt"
	"strings"
	"time"
)

// Response describes bot's reaction on particular message
type Response struct {
	Text           string
	Send           bool     // status
	ReplyTo        int      // message to reply to, if 0 then no reply but common message
	DeleteOriginal bool     // delete the message bot reacted to
	NotifyUser     bool     // send a direct message to the author about the deletion
	User           User     // the author of the original message
	Matches        []string // censored phrases, for logging and audit
}

// Message is primary record to pass data from/to bots
type Message struct {
	ID       int
	From     User
	ChatID   int64
	Sent     time.Time
	Text     string    `json:",omitempty"`
	Entities *[]Entity `json:",omitempty"`
}

// Entity represents one special entity in a text message.
// For example, hashtags, usernames, URLs, etc.
type Entity struct {
	Type   string
	Offset int
	Length int
	URL    string `json:",omitempty"` // for "text_link" only, url that will be opened after user taps on the text
	User   *User  `json:",omitempty"` // for "text_mention" only, the mentioned user
}

// User defines user info of the Message
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"user_name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// DisplayName returns user's display name or username or id
func DisplayName(msg Message) string {
	displayUsername := msg.From.DisplayName
	if displayUsername == "" {
		displayUsername = msg.From.Username
	}
	if displayUsername == "" {
		displayUsername = fmt.Sprintf("%d", msg.From.ID)
	}
	return strings.TrimSpace(displayUsername)
}
