package publisher

import (
	"fmt"
	"os"

	"github.com/pfrederiksen/lunch-line/internal/calendar"
	"github.com/pfrederiksen/lunch-line/internal/logger"
	"github.com/pfrederiksen/lunch-line/internal/telegram"
)

type messageSender interface {
	SendMessage(text string) error
}

// TelegramPublisher sends events to a Telegram chat as a digest
type TelegramPublisher struct {
	client messageSender
}

// NewTelegramPublisher creates a Telegram publisher from TELEGRAM_BOT_TOKEN
// and TELEGRAM_CHAT_ID.
func NewTelegramPublisher() (*TelegramPublisher, error) {
	client, err := telegram.NewClient(os.Getenv("TELEGRAM_BOT_TOKEN"), os.Getenv("TELEGRAM_CHAT_ID"))
	if err != nil {
		return nil, fmt.Errorf("creating Telegram client: %w", err)
	}
	return &TelegramPublisher{client: client}, nil
}

// Publish sends the digest messages for events
func (p *TelegramPublisher) Publish(events []calendar.Event) error {
	messages := telegram.FormatDigest(events)
	for i, msg := range messages {
		if err := p.client.SendMessage(msg); err != nil {
			return fmt.Errorf("sending digest message %d/%d: %w", i+1, len(messages), err)
		}
	}

	logger.AddCounter("publish.messages", int64(len(messages)))
	return nil
}
