package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/config"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain/models"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/utils"
)

// MessageSender is satisfied by *tgbotapi.BotAPI.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts short operator alerts to one chat.
type Telegram struct {
	bot    MessageSender
	chatID int64
}

func NewTelegram(cfg config.TelegramConfig) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: cfg.ChatID}, nil
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) BookingCreated(ctx context.Context, b models.Booking) error {
	text := fmt.Sprintf(
		"*New booking* `%s`\n%s (%s)\n%s -> %s\n%s %s, %s, %d pax\nEstimate: %s",
		b.ID, escape(b.PassengerName), escape(b.PassengerPhone),
		escape(b.PickupLocation), escape(b.DropoffLocation),
		b.PickupDate, b.PickupTime, b.VehicleType, b.Passengers,
		utils.FormatRand(b.EstimatedFare),
	)
	return t.send(ctx, text)
}

func (t *Telegram) StatusChanged(ctx context.Context, b models.Booking, status models.BookingStatus) error {
	return t.send(ctx, fmt.Sprintf("Booking `%s` is now *%s*", b.ID, status))
}

// InvoiceIssued is not relayed; the operator sees the booking alert.
func (t *Telegram) InvoiceIssued(context.Context, models.Booking, models.Invoice) error {
	return nil
}

func (t *Telegram) CallbackRequested(ctx context.Context, req models.CallbackRequest) error {
	text := fmt.Sprintf("*Callback requested*\n%s: %s", escape(req.Name), escape(req.Phone))
	if req.Route != "" {
		text += "\nRoute: " + escape(req.Route)
	}
	return t.send(ctx, text)
}

func (t *Telegram) send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send to %d: %w", t.chatID, err)
	}
	return nil
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
