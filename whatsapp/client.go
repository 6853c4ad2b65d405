// Package whatsapp connects the bot to a linked WhatsApp account through
// whatsmeow.
package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types/events"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"

	"github.com/iqbalri06/bot-jadwal/bot"
	"github.com/iqbalri06/bot-jadwal/db"
	"github.com/iqbalri06/bot-jadwal/logging"
)

var (
	ErrAlreadyLinked = errors.New("already linked")
	ErrNotLinked     = errors.New("not logged in")
)

// Dispatcher receives converted inbound messages. *bot.Bot implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, evt bot.Event) bool
}

// DeviceRecorder tracks the linked account's connection status.
type DeviceRecorder interface {
	SetDeviceStatus(ctx context.Context, phone, status string) error
}

type Options struct {
	// SessionDSN addresses the sqlite3 database holding the device keys.
	SessionDSN string
	LogLevel   string
}

// Status is a snapshot of the connection.
type Status struct {
	Connected bool   `json:"connected"`
	LoggedIn  bool   `json:"logged_in"`
	JID       string `json:"jid"`
}

type Client struct {
	wa      *whatsmeow.Client
	store   *sqlstore.Container
	devices DeviceRecorder
	log     *zap.Logger

	mu       sync.RWMutex
	ctx      context.Context
	dispatch Dispatcher
	phone    string
}

var _ bot.Messenger = (*Client)(nil)

// New opens the session store and prepares a client for its first device.
// Nothing is connected until Start.
func New(ctx context.Context, opts Options, devices DeviceRecorder, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	container, err := sqlstore.New(ctx, "sqlite3", opts.SessionDSN, logging.WhatsApp(log, "Database", opts.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		_ = container.Close()
		return nil, fmt.Errorf("failed to get device store: %w", err)
	}

	c := &Client{
		wa:      whatsmeow.NewClient(device, logging.WhatsApp(log, "Client", opts.LogLevel)),
		store:   container,
		devices: devices,
		log:     log,
		ctx:     context.Background(),
	}
	if device.ID != nil {
		c.phone = device.ID.User
	}
	c.wa.AddEventHandler(c.handleEvent)
	return c, nil
}

// SetDispatcher routes inbound messages to d. Messages arriving before a
// dispatcher is set are dropped.
func (c *Client) SetDispatcher(d Dispatcher) {
	c.mu.Lock()
	c.dispatch = d
	c.mu.Unlock()
}

// Start connects when a device is already linked. Unlinked clients connect
// on the first Pair call. ctx scopes the handling of inbound messages.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()

	if c.wa.Store.ID == nil {
		c.log.Info("no linked device, waiting for pairing")
		return nil
	}
	if err := c.wa.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	return nil
}

// Stop disconnects and closes the session store.
func (c *Client) Stop() error {
	c.wa.Disconnect()
	return c.store.Close()
}

func (c *Client) Status() Status {
	s := Status{
		Connected: c.wa.IsConnected(),
		LoggedIn:  c.wa.IsLoggedIn(),
	}
	if id := c.wa.Store.ID; id != nil {
		s.JID = id.User
	}
	return s
}

// Pair links the account owning phone and returns the code to enter on it.
func (c *Client) Pair(ctx context.Context, phone string) (string, error) {
	if c.wa.Store.ID != nil {
		return "", ErrAlreadyLinked
	}
	if !c.wa.IsConnected() {
		if err := c.wa.Connect(); err != nil {
			return "", fmt.Errorf("failed to connect: %w", err)
		}
	}
	code, err := c.wa.PairPhone(ctx, phoneDigits(phone), true, whatsmeow.PairClientChrome, "Chrome (Linux)")
	if err != nil {
		return "", fmt.Errorf("failed to pair: %w", err)
	}
	return code, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if c.wa.Store.ID == nil {
		return ErrNotLinked
	}
	if err := c.wa.Logout(ctx); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

func (c *Client) SendText(ctx context.Context, to, text string) error {
	jid, err := ParseJID(to)
	if err != nil {
		return err
	}
	msg := &waProto.Message{Conversation: proto.String(text)}
	if _, err := c.wa.SendMessage(ctx, jid, msg); err != nil {
		return fmt.Errorf("send to %s: %w", to, err)
	}
	return nil
}

func (c *Client) SendImage(ctx context.Context, to string, data []byte, caption string) error {
	jid, err := ParseJID(to)
	if err != nil {
		return err
	}
	up, err := c.wa.Upload(ctx, data, whatsmeow.MediaImage)
	if err != nil {
		return fmt.Errorf("upload image: %w", err)
	}
	msg := &waProto.Message{ImageMessage: &waProto.ImageMessage{
		Caption:       proto.String(caption),
		Mimetype:      proto.String(http.DetectContentType(data)),
		URL:           proto.String(up.URL),
		DirectPath:    proto.String(up.DirectPath),
		MediaKey:      up.MediaKey,
		FileEncSHA256: up.FileEncSHA256,
		FileSHA256:    up.FileSHA256,
		FileLength:    proto.Uint64(up.FileLength),
	}}
	if _, err := c.wa.SendMessage(ctx, jid, msg); err != nil {
		return fmt.Errorf("send image to %s: %w", to, err)
	}
	return nil
}

func (c *Client) handleEvent(evt any) {
	c.mu.RLock()
	ctx, d := c.ctx, c.dispatch
	c.mu.RUnlock()

	switch v := evt.(type) {
	case *events.Message:
		if d == nil {
			return
		}
		e, ok := toEvent(v, c.downloader(v))
		if !ok {
			return
		}
		if !d.Dispatch(ctx, e) {
			c.log.Warn("dropped message during shutdown", zap.String("sender", e.Sender))
		}
	case *events.Connected:
		c.log.Info("connected to WhatsApp")
		if id := c.wa.Store.ID; id != nil {
			c.setPhone(id.User)
		}
		c.recordStatus(ctx, db.DeviceConnected)
	case *events.PairSuccess:
		c.log.Info("paired", zap.String("jid", v.ID.String()))
		c.setPhone(v.ID.User)
	case *events.Disconnected:
		c.log.Warn("disconnected from WhatsApp")
		c.recordStatus(ctx, db.DeviceDisconnected)
	case *events.LoggedOut:
		c.log.Warn("logged out", zap.String("reason", v.Reason.String()))
		c.recordStatus(ctx, db.DeviceLoggedOut)
	}
}

func (c *Client) downloader(evt *events.Message) func(context.Context) ([]byte, error) {
	img := evt.Message.GetImageMessage()
	if img == nil {
		return nil
	}
	return func(ctx context.Context) ([]byte, error) {
		return c.wa.Download(ctx, img)
	}
}

func (c *Client) setPhone(phone string) {
	c.mu.Lock()
	c.phone = phone
	c.mu.Unlock()
}

func (c *Client) recordStatus(ctx context.Context, status string) {
	c.mu.RLock()
	phone := c.phone
	c.mu.RUnlock()
	if c.devices == nil || phone == "" {
		return
	}
	if err := c.devices.SetDeviceStatus(ctx, phone, status); err != nil {
		c.log.Warn("failed to record device status", zap.String("status", status), zap.Error(err))
	}
}
