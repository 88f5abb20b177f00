// FilePath: internal/bot/bot.go
package bot

import (
	"context"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	nuts "github.com/vaudience/go-nuts"

	"github.com/luzhub/luzhub/internal/config"
	"github.com/luzhub/luzhub/internal/hubservice"
	"github.com/luzhub/luzhub/internal/repository"
)

// transport is the thin seam over the Telegram API, replaceable in tests.
type transport interface {
	getUpdates(cfg tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
	sendText(chatID int64, text string) error
	sendPhoto(chatID int64, path string) error
}

type apiTransport struct {
	api *tgbotapi.BotAPI
}

func (t *apiTransport) getUpdates(cfg tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	return t.api.GetUpdates(cfg)
}

func (t *apiTransport) sendText(chatID int64, text string) error {
	_, err := t.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (t *apiTransport) sendPhoto(chatID int64, path string) error {
	_, err := t.api.Send(tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path)))
	return err
}

// Bot runs the long-lived Telegram polling loop. All loop state (the
// update offset, the active token, the dialed transport) lives on this
// struct; nothing is process-global. The token is re-read from the
// settings store on every cycle, so an operator can swap it without a
// restart, and an unconfigured token just idles the loop.
type Bot struct {
	svc *hubservice.HubService
	cfg config.BotConfig

	mu    sync.RWMutex
	tg    transport
	token string

	offset int
}

// New creates the bot. It does not dial Telegram; the loop does that
// lazily once a token is available.
func New(svc *hubservice.HubService, cfg config.BotConfig) *Bot {
	return &Bot{svc: svc, cfg: cfg}
}

// Run polls for updates until the context is canceled. Transient
// transport errors back off briefly and resume; nothing terminates the
// loop except shutdown.
func (b *Bot) Run(ctx context.Context) {
	nuts.L.Infof("[Bot] Polling loop started")
	for ctx.Err() == nil {
		tg, ok := b.ensureTransport(ctx)
		if !ok {
			b.sleep(ctx, b.cfg.IdleBackoff)
			continue
		}

		u := tgbotapi.NewUpdate(b.offset + 1)
		u.Timeout = b.cfg.PollTimeout

		updates, err := tg.getUpdates(u)
		if err != nil {
			nuts.L.Warnf("[Bot] Poll failed: %v", err)
			b.sleep(ctx, b.cfg.ErrorBackoff)
			continue
		}

		for _, update := range updates {
			b.offset = update.UpdateID
			b.handleUpdate(ctx, update)
		}
	}
	nuts.L.Infof("[Bot] Polling loop stopped")
}

// ensureTransport returns a transport dialed with the currently
// configured token, re-dialing when the token changed.
func (b *Bot) ensureTransport(ctx context.Context) (transport, bool) {
	token, err := b.svc.Settings.Get(ctx, repository.KeyTelegramToken)
	if err != nil || token == "" || token == b.cfg.PlaceholderToken {
		return nil, false
	}

	b.mu.RLock()
	tg, current := b.tg, b.token
	b.mu.RUnlock()
	if tg != nil && current == token {
		return tg, true
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		nuts.L.Warnf("[Bot] Token handshake failed: %v", err)
		b.sleep(ctx, b.cfg.ErrorBackoff)
		return nil, false
	}
	nuts.L.Infof("[Bot] Connected as @%s", api.Self.UserName)

	tg = &apiTransport{api: api}
	b.mu.Lock()
	b.tg = tg
	b.token = token
	b.mu.Unlock()
	return tg, true
}

func (b *Bot) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// SendText implements notify.Sender for status alerts.
func (b *Bot) SendText(chatID, text string) error {
	id, tg, err := b.sendTarget(chatID)
	if err != nil {
		return err
	}
	return tg.sendText(id, text)
}

// SendPhoto implements notify.Sender for photo delivery.
func (b *Bot) SendPhoto(chatID, path string) error {
	id, tg, err := b.sendTarget(chatID)
	if err != nil {
		return err
	}
	return tg.sendPhoto(id, path)
}

func (b *Bot) sendTarget(chatID string) (int64, transport, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return 0, nil, errInvalidChat(chatID, err)
	}

	b.mu.RLock()
	tg := b.tg
	b.mu.RUnlock()
	if tg == nil {
		return 0, nil, errNotConnected
	}
	return id, tg, nil
}
