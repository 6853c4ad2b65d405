// Package bot turns inbound chat events into replies. It owns the command
// grammar and the multi-step conversation flows; persistence, media and the
// chat transport are injected.
package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iqbalri06/bot-jadwal/conversation"
	"github.com/iqbalri06/bot-jadwal/db"
	"github.com/iqbalri06/bot-jadwal/media"
	"github.com/iqbalri06/bot-jadwal/permission"
)

// Messenger delivers replies to a chat.
type Messenger interface {
	SendText(ctx context.Context, to, text string) error
	SendImage(ctx context.Context, to string, data []byte, caption string) error
}

// Store is the persistence the bot needs. *db.Gateway implements it.
type Store interface {
	GetUserByPhone(ctx context.Context, phone string) (*db.User, error)
	CreateUser(ctx context.Context, phone, name string, role permission.Role) (*db.User, error)
	UpdateUserRole(ctx context.Context, phone string, role permission.Role) error
	DeleteUser(ctx context.Context, phone string) error
	ListUsers(ctx context.Context) ([]db.User, error)

	CreateTask(ctx context.Context, title, deadline string, photoPath *string, createdBy uint) (*db.Task, error)
	CreateTaskWithPhotos(ctx context.Context, title, deadline string, photoPaths []string, createdBy uint) (*db.Task, error)
	ListAllTasks(ctx context.Context) ([]db.Task, error)
	ListTasksForUser(ctx context.Context, userID uint) ([]db.UserTask, error)
	GetTaskByID(ctx context.Context, id uint) (*db.Task, error)
	UpdateTask(ctx context.Context, id uint, title, deadline string, change db.PhotoChange) error
	DeleteTask(ctx context.Context, id uint) ([]string, error)
	MarkCompleted(ctx context.Context, taskID, userID uint) (db.CompletionOutcome, error)
	GetCompletionStatus(ctx context.Context, taskID uint) ([]db.CompletionEntry, error)

	ListTaskPhotos(ctx context.Context, taskID uint) ([]db.TaskPhoto, error)
	RemoveTaskPhoto(ctx context.Context, photoID uint) (string, error)
}

var _ Store = (*db.Gateway)(nil)

// Event is one inbound message. Sender is the phone number of the author and
// keys both the account lookup and the conversation state.
type Event struct {
	Sender string
	// Chat is where replies go. Sender is used when empty.
	Chat     string
	Text     string
	HasImage bool
	Image    media.FetchFunc
}

func (e Event) replyTo() string {
	if e.Chat != "" {
		return e.Chat
	}
	return e.Sender
}

type Options struct {
	DownloadTimeout time.Duration
	MaxImageBytes   int
}

type Bot struct {
	store  Store
	states conversation.Store
	out    Messenger
	files  *media.Store
	log    *zap.Logger
	opts   Options

	locks senderLocks

	mu     sync.Mutex
	queues map[string][]Event
	closed bool
	wg     sync.WaitGroup
}

func New(store Store, states conversation.Store, out Messenger, files *media.Store, log *zap.Logger, opts Options) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	if states == nil {
		states = conversation.NewMemoryStore()
	}
	if opts.DownloadTimeout <= 0 {
		opts.DownloadTimeout = media.DefaultDownloadTimeout
	}
	if opts.MaxImageBytes <= 0 {
		opts.MaxImageBytes = media.MaxImageBytes
	}
	return &Bot{
		store:  store,
		states: states,
		out:    out,
		files:  files,
		log:    log,
		opts:   opts,
		queues: make(map[string][]Event),
	}
}

// Handle processes one event to completion. Events from the same sender are
// serialized; a panic is logged and answered with a generic error.
func (b *Bot) Handle(ctx context.Context, evt Event) (err error) {
	unlock := b.locks.lock(evt.Sender)
	defer unlock()

	defer func() {
		if r := recover(); r != nil {
			b.log.Error("panic while handling message",
				zap.String("sender", evt.Sender),
				zap.Any("panic", r),
				zap.Stack("stack"))
			b.send(ctx, evt, textGenericError)
			err = fmt.Errorf("panic handling message from %s: %v", evt.Sender, r)
		}
	}()

	if err := b.route(ctx, evt); err != nil {
		b.log.Error("failed to handle message", zap.String("sender", evt.Sender), zap.Error(err))
		b.send(ctx, evt, textGenericError)
		return err
	}
	return nil
}

// Dispatch queues evt behind earlier events of the same sender and returns
// immediately. It reports false once Close has been called.
func (b *Bot) Dispatch(ctx context.Context, evt Event) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false
	}
	q, running := b.queues[evt.Sender]
	b.queues[evt.Sender] = append(q, evt)
	if !running {
		b.wg.Add(1)
		go b.drain(ctx, evt.Sender)
	}
	return true
}

func (b *Bot) drain(ctx context.Context, sender string) {
	defer b.wg.Done()
	for {
		b.mu.Lock()
		q := b.queues[sender]
		if len(q) == 0 {
			delete(b.queues, sender)
			b.mu.Unlock()
			return
		}
		evt := q[0]
		b.queues[sender] = q[1:]
		b.mu.Unlock()

		_ = b.Handle(ctx, evt)
	}
}

// Close stops Dispatch from accepting events.
func (b *Bot) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
}

// Wait blocks until every queued event has been handled or ctx is done.
func (b *Bot) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// turn is the context of one routed event from a registered user.
type turn struct {
	ctx   context.Context
	evt   Event
	user  *db.User
	text  string
	lower string
}

func newTurn(ctx context.Context, evt Event, user *db.User) *turn {
	text := strings.TrimSpace(evt.Text)
	return &turn{ctx: ctx, evt: evt, user: user, text: text, lower: strings.ToLower(text)}
}

func (t *turn) role() permission.Role {
	if t.user == nil {
		return permission.RoleUser
	}
	return t.user.Role
}

func (b *Bot) send(ctx context.Context, evt Event, text string) {
	if err := b.out.SendText(ctx, evt.replyTo(), text); err != nil {
		b.log.Warn("failed to send reply", zap.String("to", evt.replyTo()), zap.Error(err))
	}
}

func (b *Bot) reply(t *turn, text string) {
	b.send(t.ctx, t.evt, text)
}

func (b *Bot) replyf(t *turn, format string, args ...any) {
	b.send(t.ctx, t.evt, fmt.Sprintf(format, args...))
}

// allowed replies with a denial when the sender's role may not perform action.
func (b *Bot) allowed(t *turn, action permission.Action) bool {
	if permission.HasPermission(t.role(), action) {
		return true
	}
	b.reply(t, textPermissionDenied)
	return false
}

func (b *Bot) save(t *turn, next conversation.State) error {
	if next == nil {
		return b.states.Delete(t.ctx, t.evt.Sender)
	}
	return b.states.Set(t.ctx, t.evt.Sender, next)
}
