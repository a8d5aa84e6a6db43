package notify

import (
	"fmt"
	"strings"

	"go-jobdb-automation/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramBot delivers matched jobs to a chat. Purely additive to the event
// stream; collection runs identically without it.
type TelegramBot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramBot{
		api:    api,
		chatID: chatID,
	}, nil
}

func (b *TelegramBot) escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

func (b *TelegramBot) SendJob(job models.EnrichedJob) error {
	//build message chunks
	msgText := fmt.Sprintf("🏢 *%s*\n", b.escapeMarkdown(job.Company))
	msgText += fmt.Sprintf("💼 %s\n", b.escapeMarkdown(job.Title))
	msgText += fmt.Sprintf("🔗 [View Job](%s)\n", job.URL)
	if job.Salary != "" {
		msgText += fmt.Sprintf("💰 %s\n", b.escapeMarkdown(job.Salary))
	}

	loc := job.Location
	if loc == "" {
		loc = "N/A"
	}
	msgText += fmt.Sprintf("📍 %s\n", b.escapeMarkdown(loc))

	if job.UpdateDate != "" {
		msgText += fmt.Sprintf("📅 %s\n", b.escapeMarkdown(job.UpdateDate))
	}
	if job.Status != "" {
		msgText += fmt.Sprintf("📌 %s\n", b.escapeMarkdown(job.Status))
	}

	if job.Detail.Description != models.NoDetail {
		desc := job.Detail.Description
		if runes := []rune(desc); len(runes) > 200 {
			desc = string(runes[:200]) + "..."
		}
		msgText += fmt.Sprintf("📄 %s\n", b.escapeMarkdown(desc))
	}

	msgText += fmt.Sprintf("🔖 Source: %s\n", b.escapeMarkdown(job.Source))

	//create inline keyboard
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔗 View Job", job.URL),
		),
	)

	msg := tgbotapi.NewMessage(b.chatID, msgText)
	msg.ParseMode = "MarkdownV2"
	msg.ReplyMarkup = keyboard

	_, err := b.api.Send(msg)
	return err
}

func (b *TelegramBot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}
