// Package events provides event handlers for the telegram bot. It parses
// messages, passes them to the censor bot and applies the results: deletes
// suppressed messages, notifies authors in DM and records the audit trail.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tbapi "github.com/OvyFlash/telegram-bot-api"
	cache "github.com/go-pkgz/expirable-cache/v3"
	"github.com/go-pkgz/repeater/v2"
	"github.com/hashicorp/go-multierror"

	"github.com/tg-censor/tg-censor/app/bot"
	"github.com/tg-censor/tg-censor/app/storage"
)

// maxNotifiedUsers limits the DM throttle cache size
const maxNotifiedUsers = 10000

// TelegramListener listens to tg update, forwards to the bot and applies responses
// Not thread safe
type TelegramListener struct {
	TbAPI          TbAPI
	Bot            Bot
	SuppressLogger SuppressLogger
	Suppressions   Suppressions // optional audit storage, nil disables
	Group          string       // can be int64 or public group username (without "@" prefix)
	IdleDuration   time.Duration
	SuperUsers     SuperUsers
	StartupMsg     string
	NotifyThrottle time.Duration // min interval between deletion DMs to the same user
	Dry            bool

	chatID   int64
	notified cache.Cache[int64, time.Time] // DM throttle, user id -> last notification
}

// Do process all events, blocked call
func (l *TelegramListener) Do(ctx context.Context) error {
	log.Printf("[INFO] start telegram listener for %q", l.Group)

	if l.Dry {
		log.Printf("[WARN] dry mode, no deletions and no user notifications")
	}

	var getChatErr error
	if l.chatID, getChatErr = l.getChatID(ctx, l.Group); getChatErr != nil {
		return fmt.Errorf("failed to get chat ID for group %q: %w", l.Group, getChatErr)
	}

	if err := l.updateSupers(); err != nil {
		log.Printf("[WARN] failed to update superusers: %v", err)
	}

	if l.IdleDuration == 0 {
		l.IdleDuration = 30 * time.Second
	}
	if l.NotifyThrottle == 0 {
		l.NotifyThrottle = time.Minute
	}
	l.notified = cache.NewCache[int64, time.Time]().WithMaxKeys(maxNotifiedUsers).WithTTL(l.NotifyThrottle)

	// send startup message if any set
	if l.StartupMsg != "" && !l.Dry {
		if err := l.sendBotResponse(bot.Response{Send: true, Text: l.StartupMsg}, l.chatID); err != nil {
			log.Printf("[WARN] failed to send startup message, %v", err)
		}
	}

	u := tbapi.NewUpdate(0)
	u.Timeout = 60

	updates := l.TbAPI.GetUpdatesChan(u)

	for {
		select {

		case <-ctx.Done():
			return ctx.Err()

		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("telegram update chan closed")
			}

			if update.Message == nil {
				continue
			}

			if err := l.procEvents(ctx, update); err != nil {
				log.Printf("[WARN] failed to process update: %v", err)
				continue
			}

		case <-time.After(l.IdleDuration): // hit bot on idle timeout
			resp := l.Bot.OnMessage(bot.Message{Text: "idle"})
			if err := l.sendBotResponse(resp, l.chatID); err != nil {
				log.Printf("[WARN] failed to respond on idle, %v", err)
			}
		}
	}
}

func (l *TelegramListener) procEvents(ctx context.Context, update tbapi.Update) error {
	msgJSON, errJSON := json.Marshal(update.Message)
	if errJSON != nil {
		return fmt.Errorf("failed to marshal update.Message to json: %w", errJSON)
	}
	log.Printf("[DEBUG] %s", string(msgJSON))
	msg := transform(update.Message)
	fromChat := update.Message.Chat.ID

	// ignore messages from all the chats except the one we are monitoring
	if fromChat != l.chatID {
		return nil
	}

	// ignore empty messages
	if strings.TrimSpace(msg.Text) == "" {
		return nil
	}

	log.Printf("[DEBUG] incoming msg: %+v", strings.ReplaceAll(msg.Text, "\n", " "))

	resp := l.Bot.OnMessage(*msg)

	// command replies and suppression verdicts are mutually exclusive
	if resp.Send {
		if err := l.sendBotResponse(resp, fromChat); err != nil {
			log.Printf("[WARN] failed to respond on update, %v", err)
		}
	}

	if !resp.DeleteOriginal {
		return nil
	}

	// the audit trail records every suppression, acted on or not
	l.SuppressLogger.Save(msg, &resp)
	if l.Suppressions != nil {
		sup := storage.Suppression{
			UserID:   msg.From.ID,
			UserName: msg.From.Username,
			Message:  msg.Text,
			Matches:  resp.Matches,
		}
		if err := l.Suppressions.Write(ctx, sup); err != nil {
			log.Printf("[WARN] failed to store suppression: %v", err)
		}
	}

	if l.SuperUsers.IsSuper(msg.From.Username) {
		log.Printf("[DEBUG] suppression of super user %s ignored, message %d kept", msg.From.Username, msg.ID)
		return nil
	}

	if l.Dry {
		log.Printf("[INFO] dry mode: message %d from %s kept, matches: %v", msg.ID, bot.DisplayName(*msg), resp.Matches)
		return nil
	}

	errs := new(multierror.Error)

	// delete message as requested by the bot
	if _, err := l.TbAPI.Request(tbapi.DeleteMessageConfig{BaseChatMessage: tbapi.BaseChatMessage{
		MessageID:  msg.ID,
		ChatConfig: tbapi.ChatConfig{ChatID: fromChat},
	}}); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("failed to delete message %d: %w", msg.ID, err))
	} else {
		log.Printf("[INFO] message %d from %s deleted, matches: %v", msg.ID, bot.DisplayName(*msg), resp.Matches)
	}

	if resp.NotifyUser {
		if err := l.notifyUser(*msg); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	return errs.ErrorOrNil()
}

// notifyUser sends a direct message to the author quoting the removed text.
// Throttled per user, repeat offenders don't get a DM flood.
func (l *TelegramListener) notifyUser(msg bot.Message) error {
	if last, found := l.notified.Get(msg.From.ID); found {
		log.Printf("[DEBUG] user %d notified already at %s, skipped", msg.From.ID, last.Format(time.RFC3339))
		return nil
	}

	text := fmt.Sprintf("Your message was deleted:\n```\n%s\n```", msg.Text)
	if err := send(tbapi.NewMessage(msg.From.ID, text), l.TbAPI); err != nil {
		return fmt.Errorf("failed to notify user %d: %w", msg.From.ID, err)
	}
	l.notified.Set(msg.From.ID, time.Now(), 0)
	return nil
}

// sendBotResponse sends bot's answer to tg channel
func (l *TelegramListener) sendBotResponse(resp bot.Response, chatID int64) error {
	if !resp.Send {
		return nil
	}

	log.Printf("[DEBUG] bot response - %+v, reply-to:%d", strings.ReplaceAll(resp.Text, "\n", "\\n"), resp.ReplyTo)
	tbMsg := tbapi.NewMessage(chatID, resp.Text)
	tbMsg.ReplyParameters.MessageID = resp.ReplyTo

	if err := send(tbMsg, l.TbAPI); err != nil {
		return fmt.Errorf("can't send message to telegram %q: %w", resp.Text, err)
	}

	return nil
}

// getChatID translates the configured group, a numeric id or a public group
// name, to the chat id. The name lookup hits the telegram API and is retried,
// a flaky network at startup should not kill the bot.
func (l *TelegramListener) getChatID(ctx context.Context, group string) (int64, error) {
	chatID, err := strconv.ParseInt(group, 10, 64)
	if err == nil {
		return chatID, nil
	}

	var chat tbapi.ChatFullInfo
	err = repeater.NewFixed(5, 2*time.Second).Do(ctx, func() error {
		var e error
		chat, e = l.TbAPI.GetChat(tbapi.ChatInfoConfig{ChatConfig: tbapi.ChatConfig{SuperGroupUsername: "@" + group}})
		return e
	})
	if err != nil {
		return 0, fmt.Errorf("can't get chat for %s: %w", group, err)
	}

	return chat.ID, nil
}

// updateSupers extends the list of super-users with the chat administrators
// fetched from the Telegram API.
func (l *TelegramListener) updateSupers() error {
	isSuper := func(username string) bool {
		for _, super := range l.SuperUsers {
			if super == username {
				return true
			}
		}
		return false
	}

	admins, err := l.TbAPI.GetChatAdministrators(tbapi.ChatAdministratorsConfig{ChatConfig: tbapi.ChatConfig{ChatID: l.chatID}})
	if err != nil {
		return fmt.Errorf("failed to get chat administrators: %w", err)
	}

	for _, admin := range admins {
		if strings.TrimSpace(admin.User.UserName) == "" {
			continue
		}
		if isSuper(admin.User.UserName) {
			continue // already in the list
		}
		l.SuperUsers = append(l.SuperUsers, admin.User.UserName)
	}

	log.Printf("[INFO] full list of supers: {%s}", strings.Join(l.SuperUsers, ", "))
	return nil
}
