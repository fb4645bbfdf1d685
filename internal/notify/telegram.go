// Package notify pushes run results to Telegram.
package notify

import (
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

// maxJobsPerMessage keeps digests under Telegram's message size limit.
const maxJobsPerMessage = 10

// Notifier sends match digests to a Telegram chat.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewNotifier creates a Notifier for the given bot token and chat.
func NewNotifier(token string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Notifier{bot: bot, chatID: chatID}, nil
}

// SendMessage sends raw HTML-formatted text to the chat.
func (n *Notifier) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = "HTML"
	msg.DisableWebPagePreview = true
	_, err := n.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

// SendDigest sends the top matches from a run as one message.
func (n *Notifier) SendDigest(matches []types.MatchResult) error {
	return n.SendMessage(FormatDigest(matches))
}

// SendError reports a failed run to the chat.
func (n *Notifier) SendError(runErr error) error {
	return n.SendMessage(fmt.Sprintf("⚠️ <b>Job search failed</b>:\n%s", html.EscapeString(runErr.Error())))
}

// FormatDigest renders matches as Telegram HTML.
func FormatDigest(matches []types.MatchResult) string {
	if len(matches) == 0 {
		return "No new matches this run."
	}

	shown := matches
	if len(shown) > maxJobsPerMessage {
		shown = shown[:maxJobsPerMessage]
	}

	text := fmt.Sprintf("🎯 <b>%d new matches</b>\n", len(matches))
	for _, m := range shown {
		text += fmt.Sprintf(
			"\n<b>%s</b> — %s (score %d)\n",
			html.EscapeString(m.Job.Title),
			html.EscapeString(m.Job.Company),
			m.TotalScore,
		)
		if m.Job.Location != "" {
			text += fmt.Sprintf("📍 %s\n", html.EscapeString(m.Job.Location))
		}
		if m.Job.ApplyURL != "" {
			text += fmt.Sprintf("🔗 <a href=\"%s\">Apply</a>\n", html.EscapeString(m.Job.ApplyURL))
		}
	}
	if len(matches) > maxJobsPerMessage {
		text += fmt.Sprintf("\n…and %d more on the dashboard.", len(matches)-maxJobsPerMessage)
	}
	return text
}
