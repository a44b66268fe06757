package notify

import (
	"context"
	"fmt"

	"wayfarer/internal/config"
	"wayfarer/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Sender is the slice of the Telegram API the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier forwards notifications to the operations chat.
type TelegramNotifier struct {
	sender Sender
	chatID int64
	logger *zerolog.Logger
}

func NewTelegramNotifier(sender Sender, chatID int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		sender: sender,
		chatID: chatID,
		logger: logger,
	}
}

// NewTelegramNotifierFromConfig connects to the Telegram API. Returns nil
// without error when the integration is disabled.
func NewTelegramNotifierFromConfig(cfg config.TelegramConfig, logger *zerolog.Logger) (*TelegramNotifier, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}

	return NewTelegramNotifier(api, cfg.ManagersChatID, logger), nil
}

func (t *TelegramNotifier) Notify(ctx context.Context, n models.Notification) error {
	text := fmt.Sprintf("%s %s\n\n%s", severityIcon(n.Severity), n.Title, n.Description)

	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.sender.Send(msg); err != nil {
		t.logger.Error().Err(err).Int64("chat_id", t.chatID).Msg("Failed to notify operations chat")
		return fmt.Errorf("failed to send telegram notification: %w", err)
	}

	return nil
}

// NotifyBooking sends the richer per-booking alert to the operations chat.
func (t *TelegramNotifier) NotifyBooking(ctx context.Context, booking *models.Booking) error {
	text := fmt.Sprintf(`🆕 New booking:

🏨 Hotel: %s
📅 Check-in: %s
📅 Check-out: %s
👥 Guests: %d
💰 Total: %.2f %s
🆔 Reference: %s`,
		booking.HotelName,
		booking.CheckInDate.Format("02.01.2006"),
		booking.CheckOutDate.Format("02.01.2006"),
		booking.Guests,
		booking.TotalAmount,
		booking.Currency,
		booking.Reference)

	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.sender.Send(msg); err != nil {
		t.logger.Error().Err(err).Int64("chat_id", t.chatID).Msg("Failed to send booking alert")
		return fmt.Errorf("failed to send booking alert: %w", err)
	}

	return nil
}

func severityIcon(severity string) string {
	if severity == models.SeverityDestructive {
		return "⚠️"
	}
	return "ℹ️"
}
