package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"wordspy/internal/service"
)

// Client talks to the Telegram Bot API. It implements service.Transport.
type Client struct {
	bot *tgbotapi.BotAPI
}

// NewClient authenticates against the Bot API
func NewClient(token string) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	return &Client{bot: bot}, nil
}

// Username returns the bot account's username
func (c *Client) Username() string {
	return c.bot.Self.UserName
}

// Notify sends one message, rendering choices as an inline keyboard and
// honoring the MarkdownV2 flag. Returns the sent message's id.
func (c *Client) Notify(msg service.Message) (int, error) {
	m := tgbotapi.NewMessage(msg.ChatID, msg.Text)
	if msg.Markdown {
		m.ParseMode = tgbotapi.ModeMarkdownV2
	}
	if len(msg.Choices) > 0 {
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(msg.Choices))
		for _, row := range msg.Choices {
			buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, choice := range row {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(choice.Label, choice.Data))
			}
			rows = append(rows, buttons)
		}
		m.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}

	sent, err := c.bot.Send(m)
	if err != nil {
		return 0, fmt.Errorf("failed to send message to chat %d: %w", msg.ChatID, err)
	}
	return sent.MessageID, nil
}

// Retract deletes a message from a chat
func (c *Client) Retract(chatID int64, messageID int) error {
	if _, err := c.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("failed to delete message %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}

// SetWebhook registers the public webhook URL, optionally with a secret
// token Telegram will echo back on every delivery.
func (c *Client) SetWebhook(url, secret string) error {
	params := tgbotapi.Params{"url": url}
	if secret != "" {
		params["secret_token"] = secret
	}
	if _, err := c.bot.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	return nil
}

// DeleteWebhook removes the registered webhook
func (c *Client) DeleteWebhook() error {
	if _, err := c.bot.MakeRequest("deleteWebhook", nil); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	return nil
}

// WebhookInfo returns the currently registered webhook state
func (c *Client) WebhookInfo() (tgbotapi.WebhookInfo, error) {
	return c.bot.GetWebhookInfo()
}
