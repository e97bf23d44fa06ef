package events

import (
	"context"
	"fmt"
	"log"
	"strings"

	tbapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/tg-censor/tg-censor/app/bot"
	"github.com/tg-censor/tg-censor/app/storage"
)

//go:generate moq --out mocks/tb_api.go --pkg mocks --with-resets --skip-ensure . TbAPI
//go:generate moq --out mocks/suppress_logger.go --pkg mocks --with-resets --skip-ensure . SuppressLogger
//go:generate moq --out mocks/bot.go --pkg mocks --with-resets --skip-ensure . Bot
//go:generate moq --out mocks/suppressions.go --pkg mocks --with-resets --skip-ensure . Suppressions

// TbAPI is an interface for telegram bot API, only subset of methods used
type TbAPI interface {
	GetUpdatesChan(config tbapi.UpdateConfig) tbapi.UpdatesChannel
	Send(c tbapi.Chattable) (tbapi.Message, error)
	Request(c tbapi.Chattable) (*tbapi.APIResponse, error)
	GetChat(config tbapi.ChatInfoConfig) (tbapi.ChatFullInfo, error)
	GetChatAdministrators(config tbapi.ChatAdministratorsConfig) ([]tbapi.ChatMember, error)
}

// SuppressLogger is an interface for the suppression report log
type SuppressLogger interface {
	Save(msg *bot.Message, response *bot.Response)
}

// SuppressLoggerFunc is a function that implements SuppressLogger interface
type SuppressLoggerFunc func(msg *bot.Message, response *bot.Response)

// Save is a function that implements SuppressLogger interface
func (f SuppressLoggerFunc) Save(msg *bot.Message, response *bot.Response) {
	f(msg, response)
}

// Suppressions is an interface for the suppression audit storage
type Suppressions interface {
	Write(ctx context.Context, sup storage.Suppression) error
}

// Bot is an interface for bot events.
type Bot interface {
	OnMessage(msg bot.Message) (response bot.Response)
}

// send a message to the telegram as markdown first and if failed - as plain text
func send(tbMsg tbapi.Chattable, tbAPI TbAPI) error {
	withParseMode := func(tbMsg tbapi.Chattable, parseMode string) tbapi.Chattable {
		if msg, ok := tbMsg.(tbapi.MessageConfig); ok {
			msg.ParseMode = parseMode
			msg.LinkPreviewOptions = tbapi.LinkPreviewOptions{IsDisabled: true}
			return msg
		}
		return tbMsg // don't touch other types
	}

	msg := withParseMode(tbMsg, tbapi.ModeMarkdown) // try markdown first
	if _, err := tbAPI.Send(msg); err != nil {
		log.Printf("[WARN] failed to send message as markdown, %v", err)
		msg = withParseMode(tbMsg, "") // try plain text
		if _, err := tbAPI.Send(msg); err != nil {
			return fmt.Errorf("can't send message to telegram: %w", err)
		}
	}
	return nil
}

func transform(msg *tbapi.Message) *bot.Message {
	transformEntities := func(entities []tbapi.MessageEntity) *[]bot.Entity {
		if len(entities) == 0 {
			return nil
		}

		result := make([]bot.Entity, 0, len(entities))
		for _, entity := range entities {
			e := bot.Entity{
				Type:   entity.Type,
				Offset: entity.Offset,
				Length: entity.Length,
				URL:    entity.URL,
			}
			if entity.User != nil {
				e.User = &bot.User{
					ID:          entity.User.ID,
					Username:    entity.User.UserName,
					DisplayName: strings.TrimSpace(entity.User.FirstName + " " + entity.User.LastName),
				}
			}
			result = append(result, e)
		}

		return &result
	}

	message := bot.Message{
		ID:     msg.MessageID,
		Sent:   msg.Time(),
		Text:   msg.Text,
		ChatID: msg.Chat.ID,
	}

	if msg.From != nil {
		message.From = bot.User{
			ID:       msg.From.ID,
			Username: msg.From.UserName,
		}
	}

	if msg.From != nil && strings.TrimSpace(msg.From.FirstName) != "" {
		message.From.DisplayName = msg.From.FirstName
	}
	if msg.From != nil && strings.TrimSpace(msg.From.LastName) != "" {
		message.From.DisplayName += " " + msg.From.LastName
	}

	if len(msg.Entities) > 0 {
		message.Entities = transformEntities(msg.Entities)
	}

	// captions are scanned the same way as the message text
	if msg.Caption != "" {
		if message.Text == "" {
			log.Printf("[DEBUG] caption only message: %q", msg.Caption)
			message.Text = msg.Caption
		} else {
			log.Printf("[DEBUG] caption appended to message: %q", msg.Caption)
			message.Text += "\n" + msg.Caption
		}
	}
	return &message
}
