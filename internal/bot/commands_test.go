// FilePath: internal/bot/commands_test.go
package bot

import (
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/luzhub/luzhub/internal/config"
	"github.com/luzhub/luzhub/internal/database"
	"github.com/luzhub/luzhub/internal/hubservice"
	"github.com/luzhub/luzhub/internal/models"
	"github.com/luzhub/luzhub/internal/repository/files"
	"github.com/luzhub/luzhub/internal/repository/postgres"
)

type noopNotifier struct{}

func (noopNotifier) BroadcastStatus(moduleID, newStatus string) {}
func (noopNotifier) DeliverPhoto(chatID, path string)           {}

// fakeTransport records outbound messages and serves no updates.
type fakeTransport struct {
	texts  []sentText
	photos []sentPhoto
}

type sentText struct {
	chatID int64
	text   string
}

type sentPhoto struct {
	chatID int64
	path   string
}

func (t *fakeTransport) getUpdates(cfg tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	return nil, nil
}

func (t *fakeTransport) sendText(chatID int64, text string) error {
	t.texts = append(t.texts, sentText{chatID: chatID, text: text})
	return nil
}

func (t *fakeTransport) sendPhoto(chatID int64, path string) error {
	t.photos = append(t.photos, sentPhoto{chatID: chatID, path: path})
	return nil
}

func (t *fakeTransport) lastText(tb testing.TB) string {
	tb.Helper()
	if len(t.texts) == 0 {
		tb.Fatalf("no messages sent")
	}
	return t.texts[len(t.texts)-1].text
}

func newTestBot(t *testing.T) (*Bot, *hubservice.HubService, *fakeTransport) {
	t.Helper()

	db, err := database.NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.EnsureSchema(db); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}

	photos, err := files.NewPhotoRepository(files.Config{
		BasePath:    t.TempDir(),
		MaxFileSize: 1 << 20,
	})
	if err != nil {
		t.Fatalf("NewPhotoRepository() error = %v", err)
	}

	svc := hubservice.New(
		postgres.NewModuleRepository(db),
		postgres.NewStatusEventRepository(db),
		postgres.NewRecipientRepository(db),
		postgres.NewSettingsRepository(db),
		photos,
		noopNotifier{},
		config.AnalyticsConfig{EmptyStatus: "vazio", RecentLimit: 50},
	)

	b := New(svc, config.BotConfig{PollTimeout: 1})
	tg := &fakeTransport{}
	b.tg = tg
	return b, svc, tg
}

func addRecipient(t *testing.T, svc *hubservice.HubService, chatID string, light, photo bool) {
	t.Helper()
	r := &models.Recipient{
		Name:            "Ana",
		Username:        "ana-" + chatID,
		Password:        "secret",
		ChatID:          chatID,
		CanToggleLight:  light,
		CanRequestPhoto: photo,
	}
	if err := svc.CreateRecipient(context.Background(), r); err != nil {
		t.Fatalf("CreateRecipient() error = %v", err)
	}
	if light || photo {
		if err := svc.UpdatePermissions(context.Background(), r.ID, light, photo); err != nil {
			t.Fatalf("UpdatePermissions() error = %v", err)
		}
	}
}

func addModule(t *testing.T, svc *hubservice.HubService, id string) {
	t.Helper()
	if _, err := svc.PushStatus(context.Background(), models.StatusPush{
		ModuleID: id,
		Status:   "ok",
	}); err != nil {
		t.Fatalf("PushStatus() error = %v", err)
	}
}

func message(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			Text: text,
			Chat: &tgbotapi.Chat{ID: chatID},
		},
	}
}

func TestUnknownChatIsDeniedWithoutSideEffects(t *testing.T) {
	b, svc, tg := newTestBot(t)
	ctx := context.Background()

	addModule(t, svc, "mod-1")

	b.handleUpdate(ctx, message(999, "/luz mod-1 on"))

	if got := tg.lastText(t); got != msgDenied {
		t.Errorf("reply = %q, want %q", got, msgDenied)
	}
	module, err := svc.GetModule(ctx, "mod-1")
	if err != nil {
		t.Fatalf("GetModule() error = %v", err)
	}
	if module.RelayOn {
		t.Errorf("unauthorized command mutated module state")
	}
}

func TestStartGreetsByName(t *testing.T) {
	b, svc, tg := newTestBot(t)

	addRecipient(t, svc, "111", false, false)
	b.handleUpdate(context.Background(), message(111, "/start"))

	if got := tg.lastText(t); !strings.Contains(got, "Olá Ana!") {
		t.Errorf("greeting = %q, want it to address Ana", got)
	}
}

func TestStatusListsModules(t *testing.T) {
	b, svc, tg := newTestBot(t)

	addRecipient(t, svc, "111", false, false)
	addModule(t, svc, "mod-1")
	addModule(t, svc, "mod-2")

	b.handleUpdate(context.Background(), message(111, "/status"))

	got := tg.lastText(t)
	if !strings.Contains(got, "mod-1") || !strings.Contains(got, "mod-2") {
		t.Errorf("status reply %q missing modules", got)
	}
	if !strings.Contains(got, "Luz: OFF") {
		t.Errorf("status reply %q missing relay state", got)
	}
}

func TestFotoRequiresPermission(t *testing.T) {
	b, svc, tg := newTestBot(t)
	ctx := context.Background()

	addRecipient(t, svc, "111", false, false)
	addModule(t, svc, "mod-1")

	b.handleUpdate(ctx, message(111, "/foto mod-1"))
	if got := tg.lastText(t); got != msgNoPermission {
		t.Errorf("reply = %q, want %q", got, msgNoPermission)
	}

	module, _ := svc.GetModule(ctx, "mod-1")
	if module.PhotoRequested {
		t.Errorf("denied command armed the photo flag")
	}
}

func TestFotoArmsPhotoCommand(t *testing.T) {
	b, svc, tg := newTestBot(t)
	ctx := context.Background()

	addRecipient(t, svc, "111", false, true)
	addModule(t, svc, "mod-1")

	b.handleUpdate(ctx, message(111, "/foto mod-1"))
	if got := tg.lastText(t); got != msgPhotoQueued {
		t.Errorf("reply = %q, want %q", got, msgPhotoQueued)
	}

	module, err := svc.GetModule(ctx, "mod-1")
	if err != nil {
		t.Fatalf("GetModule() error = %v", err)
	}
	if !module.PhotoRequested {
		t.Errorf("photo flag not armed")
	}
	if module.RequesterID == nil || *module.RequesterID != "111" {
		t.Errorf("requester = %v, want 111", module.RequesterID)
	}
}

func TestFotoUsageAndUnknownModule(t *testing.T) {
	b, svc, tg := newTestBot(t)
	ctx := context.Background()

	addRecipient(t, svc, "111", false, true)

	b.handleUpdate(ctx, message(111, "/foto"))
	if got := tg.lastText(t); got != msgUsageFoto {
		t.Errorf("reply = %q, want %q", got, msgUsageFoto)
	}

	b.handleUpdate(ctx, message(111, "/foto ghost"))
	if got := tg.lastText(t); got != msgInvalidID {
		t.Errorf("reply = %q, want %q", got, msgInvalidID)
	}
}

func TestLuzCommand(t *testing.T) {
	b, svc, tg := newTestBot(t)
	ctx := context.Background()

	addRecipient(t, svc, "111", true, false)
	addModule(t, svc, "mod-1")

	b.handleUpdate(ctx, message(111, "/luz mod-1 on"))
	if got := tg.lastText(t); got != "Luz on." {
		t.Errorf("reply = %q, want %q", got, "Luz on.")
	}
	module, _ := svc.GetModule(ctx, "mod-1")
	if !module.RelayOn || module.AutoMode {
		t.Errorf("after /luz on: relay=%t auto=%t", module.RelayOn, module.AutoMode)
	}

	b.handleUpdate(ctx, message(111, "/luz mod-1"))
	if got := tg.lastText(t); got != msgUsageLuz {
		t.Errorf("partial command reply = %q, want usage", got)
	}

	b.handleUpdate(ctx, message(111, "/luz mod-1 dim"))
	if got := tg.lastText(t); got != msgUsageLuz {
		t.Errorf("bad action reply = %q, want usage", got)
	}

	b.handleUpdate(ctx, message(111, "/luz ghost on"))
	if got := tg.lastText(t); got != msgInvalidID {
		t.Errorf("unknown module reply = %q, want %q", got, msgInvalidID)
	}
}

func TestUnknownCommand(t *testing.T) {
	b, svc, tg := newTestBot(t)

	addRecipient(t, svc, "111", false, false)
	b.handleUpdate(context.Background(), message(111, "/reboot"))

	if got := tg.lastText(t); got != msgUnknown {
		t.Errorf("reply = %q, want %q", got, msgUnknown)
	}
}

func TestNonCommandTextIsIgnored(t *testing.T) {
	b, svc, tg := newTestBot(t)

	addRecipient(t, svc, "111", false, false)
	b.handleUpdate(context.Background(), tgbotapi.Update{UpdateID: 1})
	b.handleUpdate(context.Background(), message(111, "   "))

	if len(tg.texts) != 0 {
		t.Errorf("got %d replies for empty input, want 0", len(tg.texts))
	}
}

func TestSenderInterface(t *testing.T) {
	b, _, tg := newTestBot(t)

	if err := b.SendText("111", "hello"); err != nil {
		t.Fatalf("SendText() error = %v", err)
	}
	if len(tg.texts) != 1 || tg.texts[0].chatID != 111 {
		t.Errorf("SendText did not reach transport: %+v", tg.texts)
	}

	if err := b.SendPhoto("111", "/tmp/p.jpg"); err != nil {
		t.Fatalf("SendPhoto() error = %v", err)
	}
	if len(tg.photos) != 1 || tg.photos[0].path != "/tmp/p.jpg" {
		t.Errorf("SendPhoto did not reach transport: %+v", tg.photos)
	}

	if err := b.SendText("not-a-number", "hello"); err == nil {
		t.Errorf("SendText with bad chat id succeeded")
	}
}
