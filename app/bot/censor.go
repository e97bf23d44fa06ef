package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/tg-censor/tg-censor/lib/censor"
)

//go:generate moq --out mocks/detector.go --pkg mocks --skip-ensure --with-resets . Detector

// CensorFilter bot deletes messages containing blocked phrases using
// censor.Detector and handles the text command surface managing the rules.
// Reloads the allow dictionary on file change.
type CensorFilter struct {
	Detector
	params CensorConfig
}

// CensorConfig is a full set of parameters for the censor bot
type CensorConfig struct {
	CommandPrefix  string        // rule commands start with this, like "c!add"
	DictionaryFile string        // overrides the built-in allow dictionary when set, watched for changes
	WatchDelay     time.Duration // delay after the last change before dictionary reload
}

// Detector is a phrase censoring interface
type Detector interface {
	Check(req censor.Request) censor.Response
	AddPhrase(phrase string) error
	RemovePhrase(pos int) (string, error)
	AddAdmin(name string, id int64) error
	IsAdmin(id int64) bool
	Phrases() []string
	Admins() []censor.Admin
	UpdateDictionary(words []string)
}

// NewCensorFilter creates new censor filter bot. If a dictionary file is
// configured it starts a watcher reloading the allow dictionary on change.
func NewCensorFilter(ctx context.Context, detector Detector, params CensorConfig) *CensorFilter {
	res := &CensorFilter{Detector: detector, params: params}
	if params.DictionaryFile != "" {
		go func() {
			if err := res.watch(ctx, params.WatchDelay); err != nil {
				log.Printf("[WARN] dictionary watcher failed: %v", err)
			}
		}()
	}
	return res
}

// OnMessage interprets management commands and scans everything else,
// requesting deletion and author notification for censored messages.
func (c *CensorFilter) OnMessage(msg Message) (response Response) {
	if msg.From.ID == 0 { // don't check system messages
		return Response{}
	}
	if resp, handled := c.handleCommand(msg); handled {
		return resp
	}
	return c.scan(msg)
}

func (c *CensorFilter) scan(msg Message) Response {
	resp := c.Check(censor.Request{Msg: msg.Text, UserID: msg.From.ID, UserName: msg.From.Username})
	if !resp.Censored {
		return Response{}
	}
	log.Printf("[INFO] message from %s censored, matches: %v, %q", DisplayName(msg), resp.Matches, msg.Text)
	return Response{DeleteOriginal: true, NotifyUser: true, User: msg.From, Matches: resp.Matches}
}

// handleCommand dispatches the command verbs. Returns handled=false for
// anything else, including mutating commands from non-admins, and such
// messages go through the usual scan.
func (c *CensorFilter) handleCommand(msg Message) (response Response, handled bool) {
	if c.params.CommandPrefix == "" || !strings.HasPrefix(msg.Text, c.params.CommandPrefix) {
		return Response{}, false
	}
	verb, arg, _ := strings.Cut(strings.TrimPrefix(msg.Text, c.params.CommandPrefix), " ")

	switch verb {
	case "help":
		return Response{Text: c.helpText(), Send: true, ReplyTo: msg.ID}, true
	case "list":
		return Response{Text: c.listing(""), Send: true, ReplyTo: msg.ID}, true
	case "admin", "remove", "add":
		if !c.IsAdmin(msg.From.ID) {
			return Response{}, false
		}
	default:
		return Response{}, false
	}

	switch verb {
	case "admin":
		return c.addAdmins(msg), true
	case "remove":
		return c.removeWord(msg, strings.TrimSpace(arg)), true
	case "add":
		return c.addWord(msg, strings.TrimSpace(arg)), true
	}
	return Response{}, false
}

// ReloadDictionary reads the allow dictionary and pushes it to the detector.
// With no dictionary file configured the built-in list is used.
func (c *CensorFilter) ReloadDictionary() error {
	words, src, err := loadDictionary(c.params.DictionaryFile)
	if err != nil {
		return fmt.Errorf("can't load dictionary: %w", err)
	}
	c.UpdateDictionary(words)
	log.Printf("[INFO] dictionary loaded from %s, %d words", src, len(words))
	return nil
}

func (c *CensorFilter) addWord(msg Message, phrase string) Response {
	if phrase == "" {
		return Response{Text: "nothing to add", Send: true, ReplyTo: msg.ID}
	}
	if err := c.AddPhrase(phrase); err != nil {
		log.Printf("[ERROR] failed to add phrase %q: %v", phrase, err)
		return Response{Text: "failed to update the list", Send: true, ReplyTo: msg.ID}
	}
	log.Printf("[INFO] phrase %q added by %s", phrase, DisplayName(msg))
	return Response{Text: c.listing("Updated!"), Send: true, ReplyTo: msg.ID}
}

func (c *CensorFilter) removeWord(msg Message, arg string) Response {
	pos, err := strconv.Atoi(arg)
	if err != nil {
		return Response{Text: fmt.Sprintf("%q is not a list position", arg), Send: true, ReplyTo: msg.ID}
	}
	word, err := c.RemovePhrase(pos)
	if errors.Is(err, censor.ErrNoPosition) {
		return Response{Text: fmt.Sprintf("no word at position %d", pos), Send: true, ReplyTo: msg.ID}
	}
	if err != nil {
		log.Printf("[ERROR] failed to remove word at %d: %v", pos, err)
		return Response{Text: "failed to update the list", Send: true, ReplyTo: msg.ID}
	}
	log.Printf("[INFO] word %q removed by %s", word, DisplayName(msg))
	return Response{Text: c.listing("Updated!"), Send: true, ReplyTo: msg.ID}
}

// addAdmins makes every directly mentioned user an admin. Only text_mention
// entities carry the numeric user id, @username mentions can't be resolved
// here and are ignored.
func (c *CensorFilter) addAdmins(msg Message) Response {
	added := 0
	if msg.Entities != nil {
		for _, e := range *msg.Entities {
			if e.Type != "text_mention" || e.User == nil {
				continue
			}
			name := e.User.DisplayName
			if name == "" {
				name = e.User.Username
			}
			if err := c.AddAdmin(name, e.User.ID); err != nil {
				log.Printf("[ERROR] failed to add admin %q: %v", name, err)
				return Response{Text: "failed to update the list", Send: true, ReplyTo: msg.ID}
			}
			log.Printf("[INFO] admin %q (%d) added by %s", name, e.User.ID, DisplayName(msg))
			added++
		}
	}
	if added == 0 {
		return Response{Text: "no users mentioned", Send: true, ReplyTo: msg.ID}
	}
	return Response{Text: c.listing("Updated!"), Send: true, ReplyTo: msg.ID}
}

// listing formats the words and admins as numbered lists, 1-based. An empty
// list shows a literal "x" placeholder.
func (c *CensorFilter) listing(header string) string {
	var sb strings.Builder
	if header != "" {
		sb.WriteString(header)
		sb.WriteString("\n")
	}
	sb.WriteString("Censored words:\n")
	words := c.Phrases()
	if len(words) == 0 {
		sb.WriteString("x\n")
	}
	for i, w := range words {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, w)
	}
	sb.WriteString("Admins:\n")
	admins := c.Admins()
	if len(admins) == 0 {
		sb.WriteString("x\n")
	}
	for i, a := range admins {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, a.Name)
	}
	return sb.String()
}

func (c *CensorFilter) helpText() string {
	p := c.params.CommandPrefix
	return strings.Join([]string{
		p + "help - this message",
		p + "list - show censored words and admins",
		p + "admin - make mentioned users admins",
		p + "remove <n> - remove the word at position n",
		p + "add <phrase> - add a phrase to the censored words",
	}, "\n")
}
