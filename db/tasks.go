package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/iqbalri06/bot-jadwal/permission"
)

// PhotoChange says what UpdateTask does with the legacy photo path.
type PhotoChange struct {
	kind photoChangeKind
	path string
}

type photoChangeKind int

const (
	photoKeep photoChangeKind = iota
	photoClear
	photoSet
)

func KeepPhoto() PhotoChange           { return PhotoChange{kind: photoKeep} }
func ClearPhoto() PhotoChange          { return PhotoChange{kind: photoClear} }
func SetPhoto(path string) PhotoChange { return PhotoChange{kind: photoSet, path: path} }

// CompletionOutcome is the result of MarkCompleted.
type CompletionOutcome int

const (
	Marked CompletionOutcome = iota + 1
	AlreadyCompleted
)

func (g *Gateway) tasks(ctx context.Context) *gorm.DB {
	return g.db.WithContext(ctx).
		Model(&Task{}).
		Select("tasks.*, users.name AS creator_name").
		Joins("LEFT JOIN users ON users.id = tasks.created_by")
}

// CreateTask inserts the task and one pending status row per existing user.
func (g *Gateway) CreateTask(ctx context.Context, title, deadline string, photoPath *string, createdBy uint) (*Task, error) {
	task := &Task{Title: title, Deadline: deadline, PhotoPath: photoPath, CreatedBy: createdBy}
	err := g.transaction(ctx, func(tx *Gateway) error {
		return tx.insertTask(task)
	})
	if err != nil {
		return nil, err
	}
	g.log.Info("task created", zap.Uint("task_id", task.ID), zap.String("deadline", deadline))
	return task, nil
}

// CreateTaskWithPhotos is CreateTask followed by one TaskPhoto per path, all
// in a single transaction.
func (g *Gateway) CreateTaskWithPhotos(ctx context.Context, title, deadline string, photoPaths []string, createdBy uint) (*Task, error) {
	task := &Task{Title: title, Deadline: deadline, CreatedBy: createdBy}
	err := g.transaction(ctx, func(tx *Gateway) error {
		if err := tx.insertTask(task); err != nil {
			return err
		}
		for _, p := range photoPaths {
			if _, err := tx.AddTaskPhoto(ctx, task.ID, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	g.log.Info("task created",
		zap.Uint("task_id", task.ID),
		zap.String("deadline", deadline),
		zap.Int("photos", len(photoPaths)))
	return task, nil
}

func (g *Gateway) insertTask(task *Task) error {
	if err := g.db.Create(task).Error; err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	var userIDs []uint
	if err := g.db.Model(&User{}).Order("id").Pluck("id", &userIDs).Error; err != nil {
		return fmt.Errorf("list users for task %d: %w", task.ID, err)
	}
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]TaskStatus, 0, len(userIDs))
	for _, id := range userIDs {
		rows = append(rows, TaskStatus{TaskID: task.ID, UserID: id})
	}
	if err := g.db.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert statuses for task %d: %w", task.ID, err)
	}
	return nil
}

// ListAllTasks returns every task ordered by deadline.
func (g *Gateway) ListAllTasks(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := g.tasks(ctx).Order("tasks.deadline ASC, tasks.id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListTasksForUser returns every task with the user's completion flag,
// ordered by deadline. Tasks without a status row read as not completed.
func (g *Gateway) ListTasksForUser(ctx context.Context, userID uint) ([]UserTask, error) {
	var tasks []UserTask
	err := g.db.WithContext(ctx).
		Model(&Task{}).
		Select("tasks.*, users.name AS creator_name, COALESCE(task_statuses.completed, ?) AS completed, task_statuses.completed_at", false).
		Joins("LEFT JOIN users ON users.id = tasks.created_by").
		Joins("LEFT JOIN task_statuses ON task_statuses.task_id = tasks.id AND task_statuses.user_id = ?", userID).
		Order("tasks.deadline ASC, tasks.id ASC").
		Scan(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks for user %d: %w", userID, err)
	}
	return tasks, nil
}

func (g *Gateway) GetTaskByID(ctx context.Context, id uint) (*Task, error) {
	var t Task
	if err := g.tasks(ctx).Where("tasks.id = ?", id).Take(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (g *Gateway) UpdateTask(ctx context.Context, id uint, title, deadline string, change PhotoChange) error {
	updates := map[string]any{"title": title, "deadline": deadline}
	switch change.kind {
	case photoClear:
		updates["photo_path"] = nil
	case photoSet:
		updates["photo_path"] = change.path
	}
	res := g.db.WithContext(ctx).Model(&Task{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update task %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTask removes the task with its statuses and photos in one
// transaction and returns the photo paths that were attached to it.
func (g *Gateway) DeleteTask(ctx context.Context, id uint) ([]string, error) {
	var paths []string
	err := g.transaction(ctx, func(tx *Gateway) error {
		var task Task
		if err := tx.db.Take(&task, id).Error; err != nil {
			return notFound(err)
		}
		if task.PhotoPath != nil && *task.PhotoPath != "" {
			paths = append(paths, *task.PhotoPath)
		}
		var gallery []string
		if err := tx.db.Model(&TaskPhoto{}).Where("task_id = ?", id).Order("id").Pluck("photo_path", &gallery).Error; err != nil {
			return fmt.Errorf("list photos of task %d: %w", id, err)
		}
		paths = append(paths, gallery...)

		if err := tx.db.Where("task_id = ?", id).Delete(&TaskStatus{}).Error; err != nil {
			return fmt.Errorf("delete statuses of task %d: %w", id, err)
		}
		if err := tx.db.Where("task_id = ?", id).Delete(&TaskPhoto{}).Error; err != nil {
			return fmt.Errorf("delete photos of task %d: %w", id, err)
		}
		if err := tx.db.Delete(&Task{}, id).Error; err != nil {
			return fmt.Errorf("delete task %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	g.log.Info("task deleted", zap.Uint("task_id", id), zap.Int("photos", len(paths)))
	return paths, nil
}

// MarkCompleted flags the task done for the user, creating the status row
// when the user registered after the task was created.
func (g *Gateway) MarkCompleted(ctx context.Context, taskID, userID uint) (CompletionOutcome, error) {
	var outcome CompletionOutcome
	err := g.transaction(ctx, func(tx *Gateway) error {
		now := time.Now()
		var st TaskStatus
		err := tx.db.Where("task_id = ? AND user_id = ?", taskID, userID).Take(&st).Error
		switch {
		case err == nil && st.Completed:
			outcome = AlreadyCompleted
			return nil
		case err == nil:
			outcome = Marked
			return tx.db.Model(&st).Updates(map[string]any{"completed": true, "completed_at": now}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			outcome = Marked
			return tx.db.Create(&TaskStatus{TaskID: taskID, UserID: userID, Completed: true, CompletedAt: &now}).Error
		default:
			return err
		}
	})
	if err != nil {
		return 0, fmt.Errorf("mark task %d completed: %w", taskID, err)
	}
	return outcome, nil
}

// GetCompletionStatus lists every account with role user and whether they
// completed the task, completed first then by name.
func (g *Gateway) GetCompletionStatus(ctx context.Context, taskID uint) ([]CompletionEntry, error) {
	var rows []CompletionEntry
	err := g.db.WithContext(ctx).
		Model(&User{}).
		Select("users.id AS user_id, users.name, users.phone_number, COALESCE(task_statuses.completed, ?) AS completed, task_statuses.completed_at", false).
		Joins("LEFT JOIN task_statuses ON task_statuses.user_id = users.id AND task_statuses.task_id = ?", taskID).
		Where("users.role = ?", permission.RoleUser).
		Order("completed DESC, users.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("completion status of task %d: %w", taskID, err)
	}
	return rows, nil
}

// TaskProgress returns every task with its assigned and completed counts.
func (g *Gateway) TaskProgress(ctx context.Context) ([]TaskProgress, error) {
	var rows []TaskProgress
	err := g.db.WithContext(ctx).
		Model(&Task{}).
		Select("tasks.id, tasks.title, tasks.deadline, COUNT(task_statuses.id) AS assigned, " +
			"COALESCE(SUM(CASE WHEN task_statuses.completed THEN 1 ELSE 0 END), 0) AS completed").
		Joins("LEFT JOIN task_statuses ON task_statuses.task_id = tasks.id").
		Group("tasks.id, tasks.title, tasks.deadline").
		Order("tasks.deadline ASC, tasks.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("task progress: %w", err)
	}
	return rows, nil
}
