package telegram

import (
	"context"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taskmanager/domain/ports"
	"taskmanager/pkg/logger"
)

// TelegramNotifier posts due-date reminders to one chat.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier validates the token against the Bot API before returning.
func NewTelegramNotifier(token string, chatID int64) (ports.ReminderNotifierPort, error) {
	if token == "" || chatID == 0 {
		return nil, fmt.Errorf("telegram token and chat id are required")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info("Telegram notifier ready", "bot", api.Self.UserName, "chat_id", chatID)
	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

func (n *TelegramNotifier) IsEnabled() bool {
	return n != nil && n.api != nil
}

func (n *TelegramNotifier) SendDueReminder(ctx context.Context, reminder *ports.DueReminder) error {
	msg := tgbotapi.NewMessage(n.chatID, FormatDueReminder(reminder))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := n.api.Send(msg); err != nil {
		logger.WarnContext(ctx, "Telegram reminder failed", "task_id", reminder.TaskID, "error", err)
		return fmt.Errorf("failed to send telegram message: %w", err)
	}

	logger.InfoContext(ctx, "Telegram reminder sent", "task_id", reminder.TaskID, "type", reminder.Type)
	return nil
}

// FormatDueReminder renders the HTML message body for a reminder.
func FormatDueReminder(r *ports.DueReminder) string {
	icon := "⏰"
	heading := "Tarea próxima a vencer"
	if r.Type == "overdue" {
		icon = "🔴"
		heading = "Tarea vencida"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>%s</b>\n\n", icon, heading)
	fmt.Fprintf(&b, "<b>Tarea:</b> %s\n", html.EscapeString(r.Title))
	fmt.Fprintf(&b, "<b>Vence:</b> %s UTC\n", r.DueDate.UTC().Format("2006-01-02 15:04"))
	if r.Status != "" {
		fmt.Fprintf(&b, "<b>Estado:</b> %s\n", html.EscapeString(r.Status))
	}
	fmt.Fprintf(&b, "<code>%s</code>", html.EscapeString(r.TaskID))
	return b.String()
}
