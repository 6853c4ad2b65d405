package bot

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/iqbalri06/bot-jadwal/conversation"
	"github.com/iqbalri06/bot-jadwal/db"
	"github.com/iqbalri06/bot-jadwal/format"
	"github.com/iqbalri06/bot-jadwal/permission"
)

// shortcut runs a dotted action.target command. Task numbers refer to the
// sender's own task list.
func (b *Bot) shortcut(t *turn, action, target string) error {
	switch {
	case action == "detail":
		if !b.allowed(t, permission.ViewTasks) {
			return nil
		}
		task, ok, err := b.resolveUserTask(t, target)
		if err != nil || !ok {
			return err
		}
		return b.sendTaskDetail(t, task)

	case action == "selesai":
		if !b.allowed(t, permission.MarkTaskDone) {
			return nil
		}
		task, ok, err := b.resolveUserTask(t, target)
		if err != nil || !ok {
			return err
		}
		return b.markDone(t, task)

	case action == "edit":
		if !b.allowed(t, permission.UpdateTask) {
			return nil
		}
		task, ok, err := b.resolveUserTask(t, target)
		if err != nil || !ok {
			return err
		}
		return b.startEditing(t, task)

	case action == "hapus" && isPhoneShape(target):
		return b.confirmUserDeletion(t, target)

	case action == "hapus" && target != "":
		if !b.allowed(t, permission.DeleteTask) {
			return nil
		}
		task, ok, err := b.resolveUserTask(t, target)
		if err != nil || !ok {
			return err
		}
		return b.deleteTask(t, task)

	case action == "tambah" && target == "user":
		if !b.allowed(t, permission.CreateUser) {
			return nil
		}
		b.reply(t, textNewUserPhonePrompt)
		return b.save(t, conversation.NewAddingUser())

	case action == "role" && target != "":
		if !b.allowed(t, permission.UpdateUserRole) {
			return nil
		}
		return b.startChangingRole(t, target)
	}

	b.reply(t, textUnknownCommand)
	b.reply(t, format.MainMenu(t.role()))
	return nil
}

// resolveUserTask maps a 1-based number on the sender's task list to the
// current task row. ok is false when a reply has already been sent.
func (b *Bot) resolveUserTask(t *turn, target string) (*db.Task, bool, error) {
	n, err := strconv.Atoi(target)
	if err != nil || n < 1 {
		b.reply(t, textInvalidTaskNumber)
		return nil, false, nil
	}
	tasks, err := b.store.ListTasksForUser(t.ctx, t.user.ID)
	if err != nil {
		return nil, false, err
	}
	if n > len(tasks) {
		b.replyf(t, textTaskOutOfRange, len(tasks))
		return nil, false, nil
	}
	return b.loadTask(t, tasks[n-1].ID)
}

// resolveGlobalTask maps a 1-based number on the list of all tasks to the
// current task row.
func (b *Bot) resolveGlobalTask(t *turn, target string) (*db.Task, bool, error) {
	n, err := strconv.Atoi(target)
	if err != nil || n < 1 {
		b.reply(t, textInvalidTaskNumber)
		return nil, false, nil
	}
	tasks, err := b.store.ListAllTasks(t.ctx)
	if err != nil {
		return nil, false, err
	}
	if n > len(tasks) {
		b.reply(t, textInvalidTaskNumber)
		return nil, false, nil
	}
	return b.loadTask(t, tasks[n-1].ID)
}

func (b *Bot) loadTask(t *turn, id uint) (*db.Task, bool, error) {
	task, err := b.store.GetTaskByID(t.ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		b.reply(t, textTaskGone)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return task, true, nil
}

// sendTaskDetail sends the task card followed by its photos. Admins also
// see who has completed it.
func (b *Bot) sendTaskDetail(t *turn, task *db.Task) error {
	var statuses []db.CompletionEntry
	if permission.HasPermission(t.role(), permission.ViewTaskStatus) {
		var err error
		if statuses, err = b.store.GetCompletionStatus(t.ctx, task.ID); err != nil {
			return err
		}
		if statuses == nil {
			statuses = []db.CompletionEntry{}
		}
	}
	b.reply(t, format.TaskDetail(task, statuses, t.role()))
	b.sendTaskPhotos(t, task)
	return nil
}

// sendTaskPhotos sends the legacy photo and every gallery photo of task.
// Photos missing on disk are skipped.
func (b *Bot) sendTaskPhotos(t *turn, task *db.Task) {
	var paths []string
	if task.PhotoPath != nil && *task.PhotoPath != "" {
		paths = append(paths, *task.PhotoPath)
	}
	gallery, err := b.store.ListTaskPhotos(t.ctx, task.ID)
	if err != nil {
		b.log.Warn("failed to list task photos", zap.Uint("task_id", task.ID), zap.Error(err))
		b.reply(t, textPhotoListFailed)
	}
	for _, p := range gallery {
		paths = append(paths, p.PhotoPath)
	}
	if len(paths) == 0 || b.files == nil {
		return
	}

	if len(paths) > 1 {
		b.replyf(t, textPhotoCount, len(paths))
	}
	for i, p := range paths {
		data := b.files.Load(p)
		if data == nil {
			b.log.Warn("task photo missing", zap.Uint("task_id", task.ID), zap.String("path", p))
			continue
		}
		caption := fmt.Sprintf(textPhotoCaption, task.Title)
		if len(paths) > 1 {
			caption = fmt.Sprintf(textPhotoCaptionNth, i+1, len(paths), task.Title)
		}
		if err := b.out.SendImage(t.ctx, t.evt.replyTo(), data, caption); err != nil {
			b.log.Warn("failed to send task photo", zap.Uint("task_id", task.ID), zap.Error(err))
			b.replyf(t, textPhotoSendFailed, i+1)
		}
	}
}

func (b *Bot) markDone(t *turn, task *db.Task) error {
	outcome, err := b.store.MarkCompleted(t.ctx, task.ID, t.user.ID)
	if err != nil {
		return err
	}
	if outcome == db.AlreadyCompleted {
		b.replyf(t, textTaskAlreadyMarked, task.Title)
		return nil
	}
	b.replyf(t, textTaskMarked, task.Title)
	return nil
}

func (b *Bot) startEditing(t *turn, task *db.Task) error {
	b.replyf(t, textEditTitlePrompt, task.Title)
	return b.save(t, conversation.NewEditingTask(task.ID, task.Title))
}

func (b *Bot) deleteTask(t *turn, task *db.Task) error {
	paths, err := b.store.DeleteTask(t.ctx, task.ID)
	if errors.Is(err, db.ErrNotFound) {
		b.reply(t, textTaskGone)
		return nil
	}
	if err != nil {
		return err
	}
	b.removeFiles(paths)
	b.replyf(t, textTaskDeleted, task.Title)
	return nil
}

func (b *Bot) removeFiles(paths []string) {
	if b.files == nil || len(paths) == 0 {
		return
	}
	if err := b.files.RemoveAll(paths); err != nil {
		b.log.Warn("failed to remove photo files", zap.Strings("paths", paths), zap.Error(err))
	}
}

// confirmUserDeletion checks the deletion guards and asks for confirmation.
func (b *Bot) confirmUserDeletion(t *turn, target string) error {
	if !b.allowed(t, permission.DeleteUser) {
		return nil
	}
	phone := db.NormalizePhone(target)
	victim, err := b.store.GetUserByPhone(t.ctx, phone)
	if errors.Is(err, db.ErrNotFound) {
		b.replyf(t, textUserNotFound, target)
		return nil
	}
	if err != nil {
		return err
	}
	if ok := b.deletionAllowed(t, victim); !ok {
		return nil
	}

	b.replyf(t, textDeleteConfirm, victim.Name, victim.PhoneNumber)
	return b.save(t, conversation.NewDeletingUser(victim.PhoneNumber, victim.Name))
}

// deletionAllowed rejects deleting oneself and deleting another superadmin.
func (b *Bot) deletionAllowed(t *turn, victim *db.User) bool {
	if victim.PhoneNumber == db.NormalizePhone(t.evt.Sender) || victim.ID == t.user.ID {
		b.reply(t, textDeleteSelf)
		return false
	}
	if victim.Role == permission.RoleSuperAdmin {
		b.reply(t, textDeleteSuperAdmin)
		return false
	}
	return true
}

func (b *Bot) startChangingRole(t *turn, target string) error {
	phone := db.NormalizePhone(target)
	u, err := b.store.GetUserByPhone(t.ctx, phone)
	if errors.Is(err, db.ErrNotFound) {
		b.replyf(t, textUserNotFound, target)
		return nil
	}
	if err != nil {
		return err
	}
	if u.ID == t.user.ID {
		b.reply(t, textRoleSelf)
		return nil
	}
	b.replyf(t, textChangeRolePrompt, u.Name, u.PhoneNumber)
	return b.save(t, conversation.NewChangingRole(u.PhoneNumber, u.Name))
}
