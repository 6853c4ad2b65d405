package db

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iqbalri06/bot-jadwal/conversation"
)

// ConversationStore is a conversation.Store that survives restarts.
type ConversationStore struct {
	db  *gorm.DB
	log *zap.Logger
}

var _ conversation.Store = (*ConversationStore)(nil)

func NewConversationStore(conn *gorm.DB, log *zap.Logger) *ConversationStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &ConversationStore{db: conn, log: log}
}

// Get returns the open flow of sender. A row that no longer decodes is
// deleted and reported as no flow.
func (s *ConversationStore) Get(ctx context.Context, sender string) (conversation.State, bool, error) {
	var rec Conversation
	err := s.db.WithContext(ctx).Where("sender = ?", sender).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load conversation: %w", err)
	}
	state, err := conversation.Decode(conversation.Flow(rec.Flow), []byte(rec.Payload))
	if err != nil {
		s.log.Warn("dropping undecodable conversation",
			zap.String("sender", sender),
			zap.String("flow", rec.Flow),
			zap.Error(err))
		if derr := s.Delete(ctx, sender); derr != nil {
			return nil, false, derr
		}
		return nil, false, nil
	}
	return state, true, nil
}

func (s *ConversationStore) Set(ctx context.Context, sender string, state conversation.State) error {
	if state == nil {
		return s.Delete(ctx, sender)
	}
	flow, payload, err := conversation.Encode(state)
	if err != nil {
		return err
	}
	rec := Conversation{Sender: sender, Flow: string(flow), Payload: string(payload)}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sender"}},
		DoUpdates: clause.AssignmentColumns([]string{"flow", "payload", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}
	return nil
}

func (s *ConversationStore) Delete(ctx context.Context, sender string) error {
	if err := s.db.WithContext(ctx).Where("sender = ?", sender).Delete(&Conversation{}).Error; err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}
