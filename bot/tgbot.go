package bot

import (
	"SchoolLicensing/internal/lib/sl"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// api is the part of the Telegram client the notifier uses.
type api interface {
	SendMessage(chatId int64, text string, opts *tgbotapi.SendMessageOpts) (*tgbotapi.Message, error)
}

// TgBot delivers operator notifications (sales, trials, forwarded log
// records) to a single admin chat.
type TgBot struct {
	log         *slog.Logger
	api         api
	botUsername string
	adminId     int64
}

func NewTgBot(botName, apiKey string, adminId int64, log *slog.Logger) (*TgBot, error) {
	client, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}

	return &TgBot{
		log:         log.With(sl.Module("tgbot")),
		api:         client,
		adminId:     adminId,
		botUsername: botName,
	}, nil
}

func (t *TgBot) SendMessage(msg string) {
	t.plainResponse(t.adminId, msg)
}

func (t *TgBot) plainResponse(chatId int64, text string) {
	sanitized := sanitize(text)
	if sanitized == "" {
		t.log.With(
			slog.Int64("id", chatId),
		).Debug("empty message")
		return
	}

	_, err := t.api.SendMessage(chatId, sanitized, &tgbotapi.SendMessageOpts{
		ParseMode: "MarkdownV2",
	})
	if err == nil {
		return
	}
	t.log.With(
		slog.Int64("id", chatId),
	).Warn("sending message", sl.Err(err))

	// plain text fallback when markdown is rejected
	_, err = t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{})
	if err != nil {
		t.log.With(
			slog.Int64("id", chatId),
		).Error("sending safe message", sl.Err(err))
	}
}

// sanitize escapes MarkdownV2 reserved characters, leaving *bold* markers intact.
func sanitize(input string) string {
	const reservedChars = "\\`_{}#+-.!|()[]=>~"

	var b strings.Builder
	b.Grow(len(input))
	for _, char := range input {
		if strings.ContainsRune(reservedChars, char) {
			b.WriteRune('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
