package bot

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	chatId    int64
	text      string
	parseMode string
}

type fakeApi struct {
	sent     []sentMessage
	failMode string
}

func (f *fakeApi) SendMessage(chatId int64, text string, opts *tgbotapi.SendMessageOpts) (*tgbotapi.Message, error) {
	f.sent = append(f.sent, sentMessage{chatId: chatId, text: text, parseMode: opts.ParseMode})
	if f.failMode != "" && opts.ParseMode == f.failMode {
		return nil, errors.New("bad request: can't parse entities")
	}
	return &tgbotapi.Message{}, nil
}

func newTestBot(a api) *TgBot {
	return &TgBot{
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		api:     a,
		adminId: 42,
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, `*New sale* Lincoln High \(3 teachers\)\.`, sanitize("*New sale* Lincoln High (3 teachers)."))
	assert.Equal(t, `admin\_email\-x`, sanitize("admin_email-x"))
	assert.Equal(t, "", sanitize(""))
}

func TestSendMessage(t *testing.T) {
	a := &fakeApi{}
	newTestBot(a).SendMessage("trial started.")

	require.Len(t, a.sent, 1)
	assert.Equal(t, int64(42), a.sent[0].chatId)
	assert.Equal(t, `trial started\.`, a.sent[0].text)
	assert.Equal(t, "MarkdownV2", a.sent[0].parseMode)
}

func TestSendMessage_FallsBackToPlainText(t *testing.T) {
	a := &fakeApi{failMode: "MarkdownV2"}
	newTestBot(a).SendMessage("broken *markdown")

	require.Len(t, a.sent, 2)
	assert.Equal(t, "", a.sent[1].parseMode)
	assert.Equal(t, "broken *markdown", a.sent[1].text)
}

func TestSendMessage_Empty(t *testing.T) {
	a := &fakeApi{}
	newTestBot(a).SendMessage("")
	assert.Empty(t, a.sent)
}
