package db

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"
)

// SetDeviceStatus records the connection status of the linked account.
func (g *Gateway) SetDeviceStatus(ctx context.Context, phone, status string) error {
	d := Device{Phone: phone, Status: status}
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&d).Error
	if err != nil {
		return fmt.Errorf("set device %s status: %w", phone, err)
	}
	return nil
}

// LatestDevice returns the most recently updated device.
func (g *Gateway) LatestDevice(ctx context.Context) (*Device, error) {
	var d Device
	if err := g.db.WithContext(ctx).Order("updated_at DESC").Take(&d).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

// QueueMessage records an outbound message before it is sent.
func (g *Gateway) QueueMessage(ctx context.Context, to, text string) (*Message, error) {
	m := &Message{ToPhone: to, Text: text, Status: MessageQueued}
	if err := g.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("queue message: %w", err)
	}
	return m, nil
}

func (g *Gateway) SetMessageStatus(ctx context.Context, id uint, status string) error {
	res := g.db.WithContext(ctx).Model(&Message{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("set message %d status: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RecentMessages returns the newest messages first.
func (g *Gateway) RecentMessages(ctx context.Context, limit int) ([]Message, error) {
	var msgs []Message
	if err := g.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}
	return msgs, nil
}
