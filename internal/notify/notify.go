// FilePath: internal/notify/notify.go
package notify

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	nuts "github.com/vaudience/go-nuts"

	"github.com/luzhub/luzhub/internal/monitoring"
	"github.com/luzhub/luzhub/internal/repository"
)

// Sender delivers one message to one chat address. The Telegram bot is
// the production implementation; a nil or failing sender only costs the
// affected delivery.
type Sender interface {
	SendText(chatID, text string) error
	SendPhoto(chatID, path string) error
}

// Config sizes the dispatcher
type Config struct {
	Workers   int
	QueueSize int
}

type task struct {
	moduleID  string
	status    string
	chatID    string
	photoPath string
}

// Dispatcher fans status alerts out to all recipients and delivers
// requested photos. Work runs on a bounded pool detached from the
// request path: enqueueing never blocks, a full queue drops the task,
// and per-recipient delivery failures are counted and swallowed.
type Dispatcher struct {
	cfg        Config
	recipients repository.RecipientRepository
	monitoring *monitoring.Service

	mu     sync.RWMutex
	sender Sender

	queue   chan task
	wg      sync.WaitGroup
	stopped atomic.Bool
}

// New creates a dispatcher. The sender is attached later because the
// bot that implements it is constructed after the services it needs.
func New(cfg Config, recipients repository.RecipientRepository, mon *monitoring.Service) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	return &Dispatcher{
		cfg:        cfg,
		recipients: recipients,
		monitoring: mon,
		queue:      make(chan task, cfg.QueueSize),
	}
}

// SetSender attaches the outbound transport.
func (d *Dispatcher) SetSender(s Sender) {
	d.mu.Lock()
	d.sender = s
	d.mu.Unlock()
}

// Start launches the worker pool.
func (d *Dispatcher) Start() {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	nuts.L.Infof("[Dispatcher] Started %d workers (queue %d)", d.cfg.Workers, d.cfg.QueueSize)
}

// Stop drains the queue and waits for in-flight deliveries to finish.
// Tasks enqueued after Stop are dropped.
func (d *Dispatcher) Stop() {
	if d.stopped.Swap(true) {
		return
	}
	close(d.queue)
	d.wg.Wait()
	nuts.L.Infof("[Dispatcher] Stopped")
}

// BroadcastStatus queues a status-change alert for every recipient.
func (d *Dispatcher) BroadcastStatus(moduleID, newStatus string) {
	d.enqueue(task{moduleID: moduleID, status: newStatus})
}

// DeliverPhoto queues delivery of a stored photo to one chat address.
func (d *Dispatcher) DeliverPhoto(chatID, path string) {
	d.enqueue(task{chatID: chatID, photoPath: path})
}

func (d *Dispatcher) enqueue(t task) {
	if d.stopped.Load() {
		return
	}
	select {
	case d.queue <- t:
	default:
		nuts.L.Warnf("[Dispatcher] Queue full, dropping task for module %q chat %q", t.moduleID, t.chatID)
		d.monitoring.RecordEvent("notify_dropped", nil)
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for t := range d.queue {
		if t.photoPath != "" {
			d.deliverPhoto(t)
			continue
		}
		d.broadcast(t)
	}
}

func (d *Dispatcher) broadcast(t task) {
	recipients, err := d.recipients.List(context.Background())
	if err != nil {
		nuts.L.Errorf("[Dispatcher] Failed to list recipients: %v", err)
		d.monitoring.RecordEvent("notify_failed", map[string]string{"reason": "recipients"})
		return
	}

	text := fmt.Sprintf("%s: %s", t.moduleID, t.status)
	for _, r := range recipients {
		if err := d.send(r.ChatID, text); err != nil {
			nuts.L.Warnf("[Dispatcher] Alert to %s failed: %v", r.ChatID, err)
			d.monitoring.RecordEvent("notify_failed", map[string]string{"reason": "send"})
			continue
		}
		d.monitoring.RecordEvent("notify_sent", nil)
	}
}

func (d *Dispatcher) deliverPhoto(t task) {
	d.mu.RLock()
	sender := d.sender
	d.mu.RUnlock()

	if sender == nil {
		d.monitoring.RecordEvent("photo_delivery_failed", map[string]string{"reason": "no_sender"})
		return
	}
	if err := sender.SendPhoto(t.chatID, t.photoPath); err != nil {
		nuts.L.Warnf("[Dispatcher] Photo to %s failed: %v", t.chatID, err)
		d.monitoring.RecordEvent("photo_delivery_failed", map[string]string{"reason": "send"})
		return
	}
	d.monitoring.RecordEvent("photo_delivered", nil)
}

func (d *Dispatcher) send(chatID, text string) error {
	d.mu.RLock()
	sender := d.sender
	d.mu.RUnlock()

	if sender == nil {
		return fmt.Errorf("no sender configured")
	}
	return sender.SendText(chatID, text)
}
