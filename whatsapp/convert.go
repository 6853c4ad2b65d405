package whatsapp

import (
	"context"
	"fmt"
	"strings"

	waProto "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/iqbalri06/bot-jadwal/bot"
	"github.com/iqbalri06/bot-jadwal/db"
)

// toEvent converts an inbound message. It reports false for messages the bot
// must ignore: its own, group chats, broadcasts and status updates.
func toEvent(evt *events.Message, download func(context.Context) ([]byte, error)) (bot.Event, bool) {
	if evt == nil || evt.Message == nil {
		return bot.Event{}, false
	}
	info := evt.Info
	if info.IsFromMe || info.IsGroup || info.Chat.Server == types.BroadcastServer ||
		info.Chat.Server == types.GroupServer {
		return bot.Event{}, false
	}

	sender := senderPhone(info.MessageSource)
	if sender == "" {
		return bot.Event{}, false
	}

	e := bot.Event{
		Sender: sender,
		Chat:   info.Chat.String(),
		Text:   messageText(evt.Message),
	}
	if evt.Message.GetImageMessage() != nil && download != nil {
		e.HasImage = true
		e.Image = download
	}
	return e, true
}

// senderPhone returns the author's phone number. Hidden (lid) identities
// fall back to the alternate phone JID when whatsmeow provides one.
func senderPhone(src types.MessageSource) string {
	if src.Sender.Server == types.HiddenUserServer && src.SenderAlt.Server == types.DefaultUserServer {
		return src.SenderAlt.User
	}
	return src.Sender.User
}

func messageText(msg *waProto.Message) string {
	switch {
	case msg.GetConversation() != "":
		return msg.GetConversation()
	case msg.GetExtendedTextMessage().GetText() != "":
		return msg.GetExtendedTextMessage().GetText()
	default:
		return msg.GetImageMessage().GetCaption()
	}
}

// ParseJID accepts either a full JID ("628...@s.whatsapp.net") or a phone
// number in any of the usual spellings.
func ParseJID(to string) (types.JID, error) {
	to = strings.TrimSpace(to)
	if strings.Contains(to, "@") {
		jid, err := types.ParseJID(to)
		if err != nil {
			return types.JID{}, fmt.Errorf("invalid recipient %q: %w", to, err)
		}
		return jid, nil
	}
	phone := phoneDigits(to)
	if phone == "" {
		return types.JID{}, fmt.Errorf("invalid recipient %q", to)
	}
	return types.NewJID(phone, types.DefaultUserServer), nil
}

// phoneDigits drops separators and a leading plus, then applies the local
// 0 to 62 rewrite.
func phoneDigits(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	return db.NormalizePhone(digits)
}
