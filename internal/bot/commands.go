// FilePath: internal/bot/commands.go
package bot

import (
	"context"
	goerrors "errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	nuts "github.com/vaudience/go-nuts"

	"github.com/luzhub/luzhub/internal/errors"
	"github.com/luzhub/luzhub/internal/models"
)

// Bot replies. The device-facing command names stay in Portuguese to
// match the deployed firmware and its operators.
const (
	msgDenied       = "Não autorizado."
	msgNoPermission = "Sem permissão."
	msgInvalidID    = "ID inválido."
	msgPhotoQueued  = "Foto solicitada."
	msgUsageFoto    = "Uso: /foto <id>"
	msgUsageLuz     = "Uso: /luz <id> <on|off|auto>"
	msgUnknown      = "Comando desconhecido. Comandos: /status, /foto <id>, /luz <id> <on|off|auto>"
	msgGreeting     = "Olá %s! Comandos: /status, /foto <id>, /luz <id> <on|off|auto>"
)

var errNotConnected = goerrors.New("bot transport not connected")

func errInvalidChat(chatID string, err error) error {
	return fmt.Errorf("invalid chat address %q: %w", chatID, err)
}

// handleUpdate resolves the sender and dispatches one chat command.
// Unauthorized senders get the fixed denial and cause no state change.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	chatID := update.Message.Chat.ID
	chat := strconv.FormatInt(chatID, 10)

	identity, err := b.svc.ResolveChat(ctx, chat)
	if err != nil {
		b.reply(chatID, msgDenied)
		return
	}

	b.dispatch(ctx, identity, chatID, update.Message.Text)
}

func (b *Bot) dispatch(ctx context.Context, identity models.Identity, chatID int64, text string) {
	args := strings.Fields(strings.TrimSpace(text))
	if len(args) == 0 {
		return
	}

	switch strings.ToLower(args[0]) {
	case "/start":
		b.reply(chatID, fmt.Sprintf(msgGreeting, identity.Name))
	case "/status":
		b.replyStatus(ctx, chatID)
	case "/foto":
		b.handleFoto(ctx, identity, chatID, args)
	case "/luz":
		b.handleLuz(ctx, identity, chatID, args)
	default:
		b.reply(chatID, msgUnknown)
	}
}

func (b *Bot) replyStatus(ctx context.Context, chatID int64) {
	modules, err := b.svc.ListModules(ctx)
	if err != nil {
		nuts.L.Errorf("[Bot] Status listing failed: %v", err)
		return
	}

	var sb strings.Builder
	sb.WriteString("Status:")
	for _, m := range modules {
		relay := "OFF"
		if m.RelayOn {
			relay = "ON"
		}
		fmt.Fprintf(&sb, "\n- %s: %s | Luz: %s", m.ID, m.Status, relay)
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) handleFoto(ctx context.Context, identity models.Identity, chatID int64, args []string) {
	if len(args) < 2 {
		b.reply(chatID, msgUsageFoto)
		return
	}
	if err := b.svc.Authorize(identity, models.CapRequestPhoto); err != nil {
		b.reply(chatID, msgNoPermission)
		return
	}

	if err := b.svc.RequestPhoto(ctx, args[1], identity.ChatID); err != nil {
		if errors.IsNotFound(err) {
			b.reply(chatID, msgInvalidID)
			return
		}
		nuts.L.Errorf("[Bot] Photo request failed: %v", err)
		return
	}
	b.reply(chatID, msgPhotoQueued)
}

func (b *Bot) handleLuz(ctx context.Context, identity models.Identity, chatID int64, args []string) {
	if len(args) < 3 {
		b.reply(chatID, msgUsageLuz)
		return
	}
	if err := b.svc.Authorize(identity, models.CapToggleLight); err != nil {
		b.reply(chatID, msgNoPermission)
		return
	}

	action := strings.ToLower(args[2])
	if err := b.svc.SetLight(ctx, args[1], action); err != nil {
		switch {
		case errors.IsNotFound(err):
			b.reply(chatID, msgInvalidID)
		case errors.IsValidation(err):
			b.reply(chatID, msgUsageLuz)
		default:
			nuts.L.Errorf("[Bot] Light command failed: %v", err)
		}
		return
	}
	b.reply(chatID, fmt.Sprintf("Luz %s.", action))
}

// reply sends best-effort: a failed reply is logged and dropped.
func (b *Bot) reply(chatID int64, text string) {
	b.mu.RLock()
	tg := b.tg
	b.mu.RUnlock()
	if tg == nil {
		return
	}
	if err := tg.sendText(chatID, text); err != nil {
		nuts.L.Warnf("[Bot] Reply to %d failed: %v", chatID, err)
	}
}
