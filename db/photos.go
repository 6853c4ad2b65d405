package db

import (
	"context"
	"fmt"
)

func (g *Gateway) AddTaskPhoto(ctx context.Context, taskID uint, path string) (*TaskPhoto, error) {
	p := &TaskPhoto{TaskID: taskID, PhotoPath: path}
	if err := g.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("add photo to task %d: %w", taskID, err)
	}
	return p, nil
}

// ListTaskPhotos returns the task's photos in upload order.
func (g *Gateway) ListTaskPhotos(ctx context.Context, taskID uint) ([]TaskPhoto, error) {
	var photos []TaskPhoto
	if err := g.db.WithContext(ctx).Where("task_id = ?", taskID).Order("created_at, id").Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("list photos of task %d: %w", taskID, err)
	}
	return photos, nil
}

// RemoveTaskPhoto deletes the photo row and returns its path so the caller
// can remove the file.
func (g *Gateway) RemoveTaskPhoto(ctx context.Context, photoID uint) (string, error) {
	var p TaskPhoto
	if err := g.db.WithContext(ctx).Take(&p, photoID).Error; err != nil {
		return "", notFound(err)
	}
	if err := g.db.WithContext(ctx).Delete(&TaskPhoto{}, photoID).Error; err != nil {
		return "", fmt.Errorf("remove photo %d: %w", photoID, err)
	}
	return p.PhotoPath, nil
}
