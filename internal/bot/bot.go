package bot

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/studyplan/internal/app"
)

// sender is the part of the Telegram API the command handlers talk to.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	config  *app.Config
	service *app.Service
	tokens  *app.TokenManager
	api     *tgbotapi.BotAPI
	out     sender
	admins  map[int64]bool
	now     func() time.Time
}

// New connects to Telegram. tokens may be nil, which turns /token off.
func New(config *app.Config, service *app.Service, tokens *app.TokenManager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(config.Bot.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	b := newBot(config, service, tokens, api)
	b.api = api
	return b, nil
}

func newBot(config *app.Config, service *app.Service, tokens *app.TokenManager, out sender) *Bot {
	admins := make(map[int64]bool)
	for _, id := range config.Bot.AdminIDs {
		admins[id] = true
	}

	return &Bot{
		config:  config,
		service: service,
		tokens:  tokens,
		out:     out,
		admins:  admins,
		now:     time.Now,
	}
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case update := <-updates:
			if update.Message == nil {
				continue
			}

			go b.handleMessage(update.Message)

		case <-sigChan:
			logger.Info.Println("Shutting down bot...")
			b.api.StopReceivingUpdates()
			return nil
		}
	}
}
