// FilePath: internal/hubservice/hubservice_test.go
package hubservice

import (
	"sync"
	"testing"

	"github.com/luzhub/luzhub/internal/config"
	"github.com/luzhub/luzhub/internal/database"
	"github.com/luzhub/luzhub/internal/repository/files"
	"github.com/luzhub/luzhub/internal/repository/postgres"
)

// fakeNotifier records fan-out calls instead of delivering them.
type fakeNotifier struct {
	mu         sync.Mutex
	broadcasts []broadcastCall
	photos     []photoCall
}

type broadcastCall struct {
	moduleID string
	status   string
}

type photoCall struct {
	chatID string
	path   string
}

func (n *fakeNotifier) BroadcastStatus(moduleID, newStatus string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.broadcasts = append(n.broadcasts, broadcastCall{moduleID: moduleID, status: newStatus})
}

func (n *fakeNotifier) DeliverPhoto(chatID, path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.photos = append(n.photos, photoCall{chatID: chatID, path: path})
}

func (n *fakeNotifier) broadcastCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.broadcasts)
}

func (n *fakeNotifier) photoCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.photos)
}

// newTestService builds a service over an in-memory sqlite database and
// a temp-dir photo store.
func newTestService(t *testing.T) (*HubService, *fakeNotifier) {
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

	notifier := &fakeNotifier{}
	svc := New(
		postgres.NewModuleRepository(db),
		postgres.NewStatusEventRepository(db),
		postgres.NewRecipientRepository(db),
		postgres.NewSettingsRepository(db),
		photos,
		notifier,
		config.AnalyticsConfig{EmptyStatus: "vazio", RecentLimit: 50},
	)
	if err := svc.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return svc, notifier
}
