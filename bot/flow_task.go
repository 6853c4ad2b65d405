package bot

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iqbalri06/bot-jadwal/conversation"
	"github.com/iqbalri06/bot-jadwal/db"
	"github.com/iqbalri06/bot-jadwal/format"
	"github.com/iqbalri06/bot-jadwal/media"
	"github.com/iqbalri06/bot-jadwal/permission"
)

var errSavePhoto = errors.New("save photo")

type tooLargeError struct {
	size  int
	limit int
}

func (e *tooLargeError) Error() string {
	return fmt.Sprintf("image is %d bytes, limit is %d", e.size, e.limit)
}

func (e *tooLargeError) Unwrap() error { return media.ErrTooLarge }

func megabytes(n int) float64 {
	return float64(n) / (1 << 20)
}

// downloadPhoto fetches the attached image within the download timeout,
// applies the image cap and stores it. It returns the stored path.
func (b *Bot) downloadPhoto(t *turn) (string, error) {
	if t.evt.Image == nil {
		return "", media.ErrEmpty
	}
	data, err := media.Fetch(t.ctx, b.opts.DownloadTimeout, t.evt.Image)
	if err != nil {
		return "", err
	}
	if len(data) > b.opts.MaxImageBytes {
		return "", &tooLargeError{size: len(data), limit: b.opts.MaxImageBytes}
	}
	if b.files == nil {
		return "", fmt.Errorf("%w: no media store configured", errSavePhoto)
	}
	path, err := b.files.Save(data, media.NewName("task"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errSavePhoto, err)
	}
	return path, nil
}

// photoFailureText is the reply for a failed upload while a task is being
// created; the sender may try again.
func (b *Bot) photoFailureText(err error) string {
	var large *tooLargeError
	switch {
	case errors.As(err, &large):
		return fmt.Sprintf(textImageTooLarge, megabytes(large.size), megabytes(large.limit))
	case errors.Is(err, media.ErrEmpty):
		return textImageInvalid
	case errors.Is(err, errSavePhoto):
		return textPhotoSaveFailed
	default:
		return fmt.Sprintf(textDownloadFailed, err)
	}
}

// photoProblem describes a failed upload in one sentence.
func photoProblem(err error) string {
	var large *tooLargeError
	switch {
	case errors.As(err, &large):
		return fmt.Sprintf(problemTooLarge, megabytes(large.size), megabytes(large.limit))
	case errors.Is(err, media.ErrEmpty):
		return problemInvalid
	case errors.Is(err, errSavePhoto):
		return problemSave
	default:
		return fmt.Sprintf(problemDownload, err)
	}
}

func (b *Bot) addingTask(t *turn, s conversation.AddingTask) (conversation.State, error) {
	if !b.allowed(t, permission.CreateTask) {
		b.removeFiles(s.Photos)
		return nil, nil
	}

	switch s.Step {
	case conversation.StepWaitingForTitle:
		if t.text == "" {
			b.reply(t, textTitleEmpty)
			return s, nil
		}
		s.Title = t.text
		s.Step = conversation.StepWaitingForDeadline
		b.reply(t, textDeadlinePrompt)
		return s, nil

	case conversation.StepWaitingForDeadline:
		deadline, err := format.ParseDate(t.text)
		if err != nil {
			b.reply(t, textDeadlineInvalid)
			return s, nil
		}
		s.Deadline = deadline
		s.Step = conversation.StepWaitingForImage
		s.Photos = nil
		b.reply(t, textPhotoPrompt)
		return s, nil

	case conversation.StepWaitingForImage:
		if t.evt.HasImage {
			path, err := b.downloadPhoto(t)
			if err != nil {
				b.log.Warn("task photo rejected", zap.String("sender", t.evt.Sender), zap.Error(err))
				b.reply(t, b.photoFailureText(err))
				return s, nil
			}
			s = s.WithPhoto(path)
			b.replyf(t, textPhotoAdded, len(s.Photos))
			return s, nil
		}
		switch t.lower {
		case "selesai":
			return b.createTask(t, s, true)
		case "skip":
			return b.createTask(t, s, false)
		}
		b.reply(t, textPhotoReprompt)
		return s, nil
	}

	b.log.Warn("unexpected step", zap.String("flow", string(s.Flow())), zap.String("step", string(s.Step)))
	return nil, nil
}

// createTask finishes the adding_task flow. On failure the state is kept so
// the sender can retry.
func (b *Bot) createTask(t *turn, s conversation.AddingTask, withPhotos bool) (conversation.State, error) {
	var err error
	photos := 0
	if withPhotos && len(s.Photos) > 0 {
		photos = len(s.Photos)
		_, err = b.store.CreateTaskWithPhotos(t.ctx, s.Title, s.Deadline, s.Photos, t.user.ID)
	} else {
		_, err = b.store.CreateTask(t.ctx, s.Title, s.Deadline, nil, t.user.ID)
	}
	if err != nil {
		b.log.Error("failed to create task", zap.String("sender", t.evt.Sender), zap.Error(err))
		b.reply(t, textTaskCreateFailed)
		return s, nil
	}
	if !withPhotos {
		b.removeFiles(s.Photos)
	}

	if photos > 0 {
		b.replyf(t, textTaskCreatedPhoto, s.Title, photos)
	} else {
		b.replyf(t, textTaskCreated, s.Title)
	}
	b.reply(t, format.MainMenu(t.role()))
	return nil, nil
}

func (b *Bot) editingTask(t *turn, s conversation.EditingTask) (conversation.State, error) {
	if !b.allowed(t, permission.UpdateTask) {
		return nil, nil
	}

	switch s.Step {
	case conversation.StepWaitingForTitle:
		s.NewTitle = t.text
		s.Step = conversation.StepWaitingForDeadline
		b.reply(t, textEditDeadlinePrompt)
		return s, nil

	case conversation.StepWaitingForDeadline:
		deadline, err := format.ParseDate(t.text)
		if err != nil {
			b.reply(t, textEditDeadlineInvalid)
			return s, nil
		}
		s.NewDeadline = deadline
		s.Step = conversation.StepWaitingForImageDecision
		b.reply(t, textEditPhotoDecision)
		return s, nil

	case conversation.StepWaitingForImageDecision:
		switch t.lower {
		case "ya":
			s.Step = conversation.StepWaitingForImage
			b.reply(t, textEditPhotoPrompt)
			return s, nil
		case "tidak":
			if b.applyEdit(t, s, db.KeepPhoto()) {
				b.finishEdit(t, textEditSaved)
			}
			return nil, nil
		case "hapus":
			return b.replaceTaskPhoto(t, s, "")
		}
		b.reply(t, textEditDecisionInvalid)
		return s, nil

	case conversation.StepWaitingForImage:
		if !t.evt.HasImage {
			b.reply(t, textEditPhotoReprompt)
			return s, nil
		}
		path, err := b.downloadPhoto(t)
		if err != nil {
			b.log.Warn("edit photo rejected, keeping old photo",
				zap.Uint("task_id", s.TaskID), zap.Error(err))
			if b.applyEdit(t, s, db.KeepPhoto()) {
				b.finishEdit(t, fmt.Sprintf(textEditPhotoDegraded, photoProblem(err)))
			}
			return nil, nil
		}
		return b.replaceTaskPhoto(t, s, path)
	}

	b.log.Warn("unexpected step", zap.String("flow", string(s.Flow())), zap.String("step", string(s.Step)))
	return nil, nil
}

// replaceTaskPhoto sets newPath as the task's main photo and deletes the
// file it replaces. Gallery photos stay. An empty newPath removes the main
// photo and the whole gallery.
func (b *Bot) replaceTaskPhoto(t *turn, s conversation.EditingTask, newPath string) (conversation.State, error) {
	task, err := b.store.GetTaskByID(t.ctx, s.TaskID)
	if errors.Is(err, db.ErrNotFound) {
		b.reply(t, textTaskGone)
		b.removeFiles(nonEmpty(newPath))
		return nil, nil
	}
	if err != nil {
		b.removeFiles(nonEmpty(newPath))
		return nil, err
	}

	var gallery []db.TaskPhoto
	change, done := db.SetPhoto(newPath), textEditPhotoReplaced
	if newPath == "" {
		change, done = db.ClearPhoto(), textEditPhotoRemoved
		if gallery, err = b.store.ListTaskPhotos(t.ctx, s.TaskID); err != nil {
			return nil, err
		}
	}
	if !b.applyEdit(t, s, change) {
		b.removeFiles(nonEmpty(newPath))
		return nil, nil
	}

	var stale []string
	if task.PhotoPath != nil && *task.PhotoPath != "" && *task.PhotoPath != newPath {
		stale = append(stale, *task.PhotoPath)
	}
	for _, p := range gallery {
		path, err := b.store.RemoveTaskPhoto(t.ctx, p.ID)
		if err != nil {
			b.log.Warn("failed to remove task photo", zap.Uint("photo_id", p.ID), zap.Error(err))
			continue
		}
		stale = append(stale, path)
	}
	b.removeFiles(stale)

	b.finishEdit(t, done)
	return nil, nil
}

// applyEdit writes the new title and deadline. It reports false after
// replying when the update did not happen.
func (b *Bot) applyEdit(t *turn, s conversation.EditingTask, change db.PhotoChange) bool {
	err := b.store.UpdateTask(t.ctx, s.TaskID, s.NewTitle, s.NewDeadline, change)
	switch {
	case errors.Is(err, db.ErrNotFound):
		b.reply(t, textTaskGone)
		return false
	case err != nil:
		b.log.Error("failed to update task", zap.Uint("task_id", s.TaskID), zap.Error(err))
		b.reply(t, textEditFailed)
		return false
	}
	return true
}

func (b *Bot) finishEdit(t *turn, text string) {
	b.reply(t, text)
	b.reply(t, format.MainMenu(t.role()))
}

func nonEmpty(paths ...string) []string {
	out := paths[:0]
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
