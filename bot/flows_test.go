package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqbalri06/bot-jadwal/conversation"
	"github.com/iqbalri06/bot-jadwal/db"
	"github.com/iqbalri06/bot-jadwal/format"
	"github.com/iqbalri06/bot-jadwal/media"
	"github.com/iqbalri06/bot-jadwal/permission"
)

const (
	adminPhone = "628100000001"
	superPhone = "6281234567890"
	userPhone  = "628111111111"
)

func TestAddTask_SkipPhotos(t *testing.T) {
	h := newHarness(t, Options{})
	admin := h.user(adminPhone, "Pak Admin", permission.RoleAdmin)
	h.user(userPhone, "Ani", permission.RoleUser)

	h.say(adminPhone, "4")
	assert.Equal(t, textTitlePrompt, h.out.last(adminPhone))
	h.say(adminPhone, "Essay")
	assert.Equal(t, textDeadlinePrompt, h.out.last(adminPhone))

	h.say(adminPhone, "2099-12-31")
	assert.Equal(t, textDeadlineInvalid, h.out.last(adminPhone))
	s, ok := h.state(adminPhone)
	require.True(t, ok)
	assert.Equal(t, conversation.StepWaitingForDeadline, s.CurrentStep())

	h.say(adminPhone, "31-12-2099")
	assert.Equal(t, textPhotoPrompt, h.out.last(adminPhone))
	h.say(adminPhone, "nanti")
	assert.Equal(t, textPhotoReprompt, h.out.last(adminPhone))

	h.say(adminPhone, "skip")
	texts := h.out.texts(adminPhone)
	assert.Equal(t, fmt.Sprintf(textTaskCreated, "Essay"), texts[len(texts)-2])
	assert.Equal(t, format.MainMenu(permission.RoleAdmin), texts[len(texts)-1])
	_, ok = h.state(adminPhone)
	assert.False(t, ok)

	tasks, err := h.gw.ListAllTasks(h.ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Essay", tasks[0].Title)
	assert.Equal(t, "2099-12-31", tasks[0].Deadline)
	assert.Nil(t, tasks[0].PhotoPath)
	assert.Equal(t, admin.ID, tasks[0].CreatedBy)

	statuses, err := h.gw.GetCompletionStatus(h.ctx, tasks[0].ID)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].Completed)
}

func TestAddTask_WithPhotos(t *testing.T) {
	h := newHarness(t, Options{})
	h.user(adminPhone, "Pak Admin", permission.RoleAdmin)

	h.say(adminPhone, "/add")
	h.say(adminPhone, "Poster")
	h.say(adminPhone, "01-02-2100")
	h.sendImage(adminPhone, imageBytes([]byte("first")))
	assert.Equal(t, fmt.Sprintf(textPhotoAdded, 1), h.out.last(adminPhone))
	h.sendImage(adminPhone, imageBytes([]byte("second")))
	assert.Equal(t, fmt.Sprintf(textPhotoAdded, 2), h.out.last(adminPhone))

	h.say(adminPhone, "SELESAI")
	texts := h.out.texts(adminPhone)
	assert.Equal(t, fmt.Sprintf(textTaskCreatedPhoto, "Poster", 2), texts[len(texts)-2])

	tasks, err := h.gw.ListAllTasks(h.ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	photos, err := h.gw.ListTaskPhotos(h.ctx, tasks[0].ID)
	require.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Equal(t, []byte("first"), h.files.Load(photos[0].PhotoPath))
	assert.Equal(t, []byte("second"), h.files.Load(photos[1].PhotoPath))
}

func TestAddTask_SkipDiscardsUploadedPhotos(t *testing.T) {
	h := newHarness(t, Options{})
	h.user(adminPhone, "Pak Admin", permission.RoleAdmin)

	h.say(adminPhone, "4")
	h.say(adminPhone, "Poster")
	h.say(adminPhone, "01-02-2100")
	h.sendImage(adminPhone, imageBytes([]byte("first")))
	s, ok := h.state(adminPhone)
	require.True(t, ok)
	path := s.(conversation.AddingTask).Photos[0]
	require.NotNil(t, h.files.Load(path))

	h.say(adminPhone, "skip")
	assert.Nil(t, h.files.Load(path))
	tasks, err := h.gw.ListAllTasks(h.ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	photos, err := h.gw.ListTaskPhotos(h.ctx, tasks[0].ID)
	require.NoError(t, err)
	assert.Empty(t, photos)
}

func TestAddTask_PhotoFailuresKeepState(t *testing.T) {
	h := newHarness(t, Options{MaxImageBytes: 8, DownloadTimeout: 20 * time.Millisecond})
	h.user(adminPhone, "Pak Admin", permission.RoleAdmin)

	h.say(adminPhone, "4")
	h.say(adminPhone, "Poster")
	h.say(adminPhone, "01-02-2100")

	h.sendImage(adminPhone, imageBytes([]byte("0123456789abcdef")))
	assert.True(t, strings.HasPrefix(h.out.last(adminPhone), "❌ Ukuran gambar terlalu besar"))

	h.sendImage(adminPhone, imageBytes(nil))
	assert.Equal(t, textImageInvalid, h.out.last(adminPhone))

	h.sendImage(adminPhone, func(ctx context.Context) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	assert.Equal(t, fmt.Sprintf(textDownloadFailed, media.ErrTimeout), h.out.last(adminPhone))

	h.sendImage(adminPhone, func(context.Context) ([]byte, error) {
		return nil, errors.New("connection reset")
	})
	assert.Contains(t, h.out.last(adminPhone), "connection reset")

	s, ok := h.state(adminPhone)
	require.True(t, ok)
	assert.Equal(t, conversation.StepWaitingForImage, s.CurrentStep())
	assert.Empty(t, s.(conversation.AddingTask).Photos)
}

func TestAddTask_DemotedMidFlow(t *testing.T) {
	h := newHarness(t, Options{})
	h.user(adminPhone, "Pak Admin", permission.RoleAdmin)

	h.say(adminPhone, "4")
	require.NoError(t, h.gw.UpdateUserRole(h.ctx, adminPhone, permission.RoleUser))
	h.say(adminPhone, "Essay")

	assert.Equal(t, textPermissionDenied, h.out.last(adminPhone))
	_, ok := h.state(adminPhone)
	assert.False(t, ok)
}

func TestShortcut_TaskOutOfRange(t *testing.T) {
	h := newHarness(t, Options{})
	admin := h.user(adminPhone, "Pak Admin", permission.RoleAdmin)
	_, err := h.gw.CreateTask(h.ctx, "Essay", "2099-12-31", nil, admin.ID)
	require.NoError(t, err)

	h.say(adminPhone, "hapus.2")
	assert.Equal(t, fmt.Sprintf(textTaskOutOfRange, 1), h.out.last(adminPhone))

	h.say(adminPhone, "detail.x")
	assert.Equal(t, textInvalidTaskNumber, h.out.last(adminPhone))

	h.say(adminPhone, "hapus.1")
	assert.Equal(t, fmt.Sprintf(textTaskDeleted, "Essay"), h.out.last(adminPhone))
	tasks, err := h.gw.ListAllTasks(h.ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	_, ok := h.state(adminPhone)
	assert.False(t, ok)
}

func TestShortcut_PermissionDenied(t *testing.T) {
	h := newHarness(t, Options{})
	h.user(userPhone, "Ani", permission.RoleUser)

	for _, text := range []string{"edit.1", "hapus.1", "tambah.user", "role.628100000001", "hapus.0812345678"} {
		h.out.reset()
		h.say(userPhone, text)
		assert.Equal(t, []string{textPermissionDenied}, h.out.texts(userPhone), text)
	}
	assert.Zero(t, h.states.Len())
}

func TestShortcut_DetailAndComplete(t *testing.T) {
	h := newHarness(t, Options{})
	admin := h.user(adminPhone, "Pak Admin", permission.RoleAdmin)
	h.user(userPhone, "Ani", permission.RoleUser)

	path, err := h.files.Save([]byte("jpeg"), media.NewName("task"))
	require.NoError(t, err)
	_, err = h.gw.CreateTaskWithPhotos(h.ctx, "Essay", "2099-12-31", []string{path}, admin.ID)
	require.NoError(t, err)

	h.say(userPhone, "detail.1")
	texts := h.out.texts(userPhone)
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "Essay")
	assert.NotContains(t, texts[0], "STATUS PENYELESAIAN")
	assert.Equal(t, []string{fmt.Sprintf(textPhotoCaption, "Essay")}, h.out.captions(userPhone))

	h.say(userPhone, "selesai.1")
	assert.Equal(t, fmt.Sprintf(textTaskMarked, "Essay"), h.out.last(userPhone))
	h.say(userPhone, "selesai.1")
	assert.Equal(t, fmt.Sprintf(textTaskAlreadyMarked, "Essay"), h.out.last(userPhone))

	h.say(adminPhone, "detail.1")
	assert.Contains(t, h.out.texts(adminPhone)[0], "✅ Selesai: 1 dari 1 pengguna")
}

func TestEditTask_KeepAndClearPhoto(t *testing.T) {
	h := newHarness(t, Options{})
	admin := h.user(adminPhone, "Pak Admin", permission.RoleAdmin)
	path, err := h.files.Save([]byte("jpeg"), media.NewName("task"))
	require.NoError(t, err)
	task, err := h.gw.CreateTaskWithPhotos(h.ctx, "Essay", "2099-12-31", []string{path}, admin.ID)
	require.NoError(t, err)

	h.say(adminPhone, "edit.1")
	assert.Equal(t, fmt.Sprintf(textEditTitlePrompt, "Essay"), h.out.last(adminPhone))
	h.say(adminPhone, "Essay v2")
	h.say(adminPhone, "31-13-2099")
	assert.Equal(t, textEditDeadlineInvalid, h.out.last(adminPhone))
	h.say(adminPhone, "01-01-2100")
	assert.Equal(t, textEditPhotoDecision, h.out.last(adminPhone))
	h.say(adminPhone, "mungkin")
	assert.Equal(t, textEditDecisionInvalid, h.out.last(adminPhone))
	h.say(adminPhone, "tidak")

	got, err := h.gw.GetTaskByID(h.ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Essay v2", got.Title)
	assert.Equal(t, "2100-01-01", got.Deadline)
	photos, err := h.gw.ListTaskPhotos(h.ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, photos, 1)
	_, ok := h.state(adminPhone)
	assert.False(t, ok)

	h.say(adminPhone, "edit.1")
	h.say(adminPhone, "Essay v3")
	h.say(adminPhone, "02-01-2100")
	h.say(adminPhone, "hapus")
	texts := h.out.texts(adminPhone)
	assert.Equal(t, textEditPhotoRemoved, texts[len(texts)-2])

	photos, err = h.gw.ListTaskPhotos(h.ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, photos)
	assert.Nil(t, h.files.Load(path))
	got, err = h.gw.GetTaskByID(h.ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PhotoPath)
}

func TestEditTask_ReplacePhoto(t *testing.T) {
	h := newHarness(t, Options{})
	admin := h.user(adminPhone, "Pak Admin", permission.RoleAdmin)
	old, err := h.files.Save([]byte("old"), media.NewName("task"))
	require.NoError(t, err)
	task, err := h.gw.CreateTask(h.ctx, "Essay", "2099-12-31", &old, admin.ID)
	require.NoError(t, err)

	h.say(adminPhone, "/edit 1")
	h.say(adminPhone, "Essay")
	h.say(adminPhone, "31-12-2099")
	h.say(adminPhone, "ya")
	assert.Equal(t, textEditPhotoPrompt, h.out.last(adminPhone))
	h.say(adminPhone, "sebentar")
	assert.Equal(t, textEditPhotoReprompt, h.out.last(adminPhone))
	h.sendImage(adminPhone, imageBytes([]byte("new")))

	texts := h.out.texts(adminPhone)
	assert.Equal(t, textEditPhotoReplaced, texts[len(texts)-2])
	got, err := h.gw.GetTaskByID(h.ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PhotoPath)
	assert.Equal(t, []byte("new"), h.files.Load(*got.PhotoPath))
	assert.Nil(t, h.files.Load(old))
}

func TestEditTask_ReplacePhotoKeepsGallery(t *testing.T) {
	h := newHarness(t, Options{})
	admin := h.user(adminPhone, "Pak Admin", permission.RoleAdmin)
	var paths []string
	for i := range 3 {
		p, err := h.files.Save([]byte(fmt.Sprintf("photo-%d", i)), media.NewName("task"))
		require.NoError(t, err)
		paths = append(paths, p)
	}
	task, err := h.gw.CreateTaskWithPhotos(h.ctx, "Essay", "2099-12-31", paths, admin.ID)
	require.NoError(t, err)

	h.say(adminPhone, "edit.1")
	h.say(adminPhone, "Essay")
	h.say(adminPhone, "31-12-2099")
	h.say(adminPhone, "ya")
	h.sendImage(adminPhone, imageBytes([]byte("new")))

	texts := h.out.texts(adminPhone)
	assert.Equal(t, textEditPhotoReplaced, texts[len(texts)-2])

	photos, err := h.gw.ListTaskPhotos(h.ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, photos, 3)
	for i, p := range paths {
		assert.Equal(t, []byte(fmt.Sprintf("photo-%d", i)), h.files.Load(p))
	}
	got, err := h.gw.GetTaskByID(h.ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PhotoPath)
	assert.Equal(t, []byte("new"), h.files.Load(*got.PhotoPath))
}

func TestEditTask_PhotoFailureDegrades(t *testing.T) {
	h := newHarness(t, Options{MaxImageBytes: 4})
	admin := h.user(adminPhone, "Pak Admin", permission.RoleAdmin)
	old := "old.jpg"
	task, err := h.gw.CreateTask(h.ctx, "Essay", "2099-12-31", &old, admin.ID)
	require.NoError(t, err)

	h.say(adminPhone, "edit.1")
	h.say(adminPhone, "Essay v2")
	h.say(adminPhone, "31-12-2099")
	h.say(adminPhone, "ya")
	h.sendImage(adminPhone, imageBytes([]byte("too large")))

	texts := h.out.texts(adminPhone)
	assert.Contains(t, texts[len(texts)-2], "Tugas diperbarui tanpa mengubah foto.")
	assert.Contains(t, texts[len(texts)-2], "Ukuran gambar terlalu besar")
	got, err := h.gw.GetTaskByID(h.ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Essay v2", got.Title)
	require.NotNil(t, got.PhotoPath)
	assert.Equal(t, "old.jpg", *got.PhotoPath)
	_, ok := h.state(adminPhone)
	assert.False(t, ok)
}

func TestEditTask_TaskVanished(t *testing.T) {
	h := newHarness(t, Options{})
	admin := h.user(adminPhone, "Pak Admin", permission.RoleAdmin)
	task, err := h.gw.CreateTask(h.ctx, "Essay", "2099-12-31", nil, admin.ID)
	require.NoError(t, err)

	h.say(adminPhone, "edit.1")
	h.say(adminPhone, "Essay v2")
	h.say(adminPhone, "31-12-2099")
	_, err = h.gw.DeleteTask(h.ctx, task.ID)
	require.NoError(t, err)
	h.say(adminPhone, "tidak")

	assert.Equal(t, textTaskGone, h.out.last(adminPhone))
	_, ok := h.state(adminPhone)
	assert.False(t, ok)
}

func TestDeleteUser_Guards(t *testing.T) {
	h := newHarness(t, Options{})
	h.user(superPhone, "Boss", permission.RoleSuperAdmin)
	h.user("628999999999", "Other Boss", permission.RoleSuperAdmin)

	h.say(superPhone, "hapus.0812345678")
	assert.Equal(t, fmt.Sprintf(textUserNotFound, "0812345678"), h.out.last(superPhone))

	h.say(superPhone, "hapus.081234567890")
	assert.Equal(t, textDeleteSelf, h.out.last(superPhone))

	h.say(superPhone, "hapus.628999999999")
	assert.Equal(t, textDeleteSuperAdmin, h.out.last(superPhone))

	h.say(superPhone, "/remove 6281234567890")
	assert.Equal(t, textDeleteSelf, h.out.last(superPhone))

	assert.Zero(t, h.states.Len())
}

func TestDeleteUser_ConfirmAndCancel(t *testing.T) {
	h := newHarness(t, Options{})
	h.user(superPhone, "Boss", permission.RoleSuperAdmin)
	h.user(userPhone, "Ani", permission.RoleUser)

	h.say(superPhone, "hapus.0"+userPhone[2:])
	assert.Equal(t, fmt.Sprintf(textDeleteConfirm, "Ani", userPhone), h.out.last(superPhone))
	h.say(superPhone, "nggak")
	texts := h.out.texts(superPhone)
	assert.Equal(t, textUserDeleteCancelled, texts[len(texts)-2])
	_, err := h.gw.GetUserByPhone(h.ctx, userPhone)
	require.NoError(t, err)

	h.say(superPhone, "hapus."+userPhone)
	h.say(superPhone, "YA")
	texts = h.out.texts(superPhone)
	assert.Equal(t, fmt.Sprintf(textUserDeleted, "Ani", userPhone), texts[len(texts)-2])
	assert.Equal(t, format.MainMenu(permission.RoleSuperAdmin), texts[len(texts)-1])
	_, err = h.gw.GetUserByPhone(h.ctx, userPhone)
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.Zero(t, h.states.Len())
}

func TestUserMenu_AddUser(t *testing.T) {
	h := newHarness(t, Options{})
	h.user(superPhone, "Boss", permission.RoleSuperAdmin)
	h.user(userPhone, "Ani", permission.RoleUser)

	h.say(superPhone, "8")
	assert.Equal(t, format.UserMenu(), h.out.last(superPhone))

	h.say(superPhone, "1")
	assert.Contains(t, h.out.last(superPhone), "- Ani ("+userPhone+")")
	s, ok := h.state(superPhone)
	require.True(t, ok)
	assert.Equal(t, conversation.FlowUserMenu, s.Flow())

	h.say(superPhone, "selesai.1")
	texts := h.out.texts(superPhone)
	assert.Equal(t, []string{textInvalidChoice, format.UserMenu()}, texts[len(texts)-2:])

	h.say(superPhone, "2")
	assert.Equal(t, textNewUserPhonePrompt, h.out.last(superPhone))
	h.say(superPhone, "12345")
	assert.Equal(t, textPhoneInvalid, h.out.last(superPhone))
	h.say(superPhone, "0"+userPhone[2:])
	assert.Equal(t, textPhoneTaken, h.out.last(superPhone))
	h.say(superPhone, "0812345678901")
	assert.Equal(t, textNewUserNamePrompt, h.out.last(superPhone))
	h.say(superPhone, "Budi")
	assert.Equal(t, textRolePrompt, h.out.last(superPhone))
	h.say(superPhone, "3")
	assert.Equal(t, textRoleChoiceInvalid, h.out.last(superPhone))
	h.say(superPhone, "1")

	u, err := h.gw.GetUserByPhone(h.ctx, "62812345678901")
	require.NoError(t, err)
	assert.Equal(t, "Budi", u.Name)
	assert.Equal(t, permission.RoleAdmin, u.Role)
	_, ok = h.state(superPhone)
	assert.False(t, ok)
}

func TestUserMenu_Exit(t *testing.T) {
	h := newHarness(t, Options{})
	h.user(superPhone, "Boss", permission.RoleSuperAdmin)

	h.say(superPhone, "8")
	h.say(superPhone, "4")
	texts := h.out.texts(superPhone)
	assert.Equal(t, textHintRemoveUser, texts[len(texts)-2])
	h.say(superPhone, "0")
	assert.Equal(t, format.MainMenu(permission.RoleSuperAdmin), h.out.last(superPhone))
	_, ok := h.state(superPhone)
	assert.False(t, ok)
}

func TestChangeRole(t *testing.T) {
	h := newHarness(t, Options{})
	h.user(superPhone, "Boss", permission.RoleSuperAdmin)
	h.user(userPhone, "Ani", permission.RoleUser)

	h.say(superPhone, "role.0812345678")
	assert.Equal(t, fmt.Sprintf(textUserNotFound, "0812345678"), h.out.last(superPhone))

	h.say(superPhone, "role."+superPhone)
	assert.Equal(t, textRoleSelf, h.out.last(superPhone))

	h.say(superPhone, "role.0"+userPhone[2:])
	assert.Equal(t, fmt.Sprintf(textChangeRolePrompt, "Ani", userPhone), h.out.last(superPhone))
	h.say(superPhone, "owner")
	assert.Equal(t, textRoleChoiceInvalid, h.out.last(superPhone))
	h.say(superPhone, "Admin")

	texts := h.out.texts(superPhone)
	assert.Equal(t, fmt.Sprintf(textRoleChanged, "Ani", permission.RoleAdmin), texts[len(texts)-2])
	u, err := h.gw.GetUserByPhone(h.ctx, userPhone)
	require.NoError(t, err)
	assert.Equal(t, permission.RoleAdmin, u.Role)
}

func TestLegacyCommands(t *testing.T) {
	h := newHarness(t, Options{})
	boss := h.user(superPhone, "Boss", permission.RoleSuperAdmin)
	h.user(userPhone, "Ani", permission.RoleUser)
	_, err := h.gw.CreateTask(h.ctx, "Essay", "2099-12-31", nil, boss.ID)
	require.NoError(t, err)

	h.say(superPhone, "/task")
	assert.Equal(t, "❌ Parameter nomor wajib diisi.", h.out.last(superPhone))

	h.say(superPhone, "/register 0812")
	assert.Equal(t, "❌ Parameter nama wajib diisi.\nParameter role wajib diisi.", h.out.last(superPhone))

	h.say(superPhone, "/register 0812345678901 Budi Santoso owner")
	assert.Equal(t, textLegacyRoleInvalid, h.out.last(superPhone))

	h.say(superPhone, "/register 0812345678901 Budi Santoso admin")
	assert.Equal(t, fmt.Sprintf(textUserAdded, "Budi Santoso", "62812345678901", permission.RoleAdmin), h.out.last(superPhone))

	h.say(superPhone, "/register 62812345678901 Budi admin")
	assert.Equal(t, textUserExists, h.out.last(superPhone))

	h.say(superPhone, "/task 2")
	assert.Equal(t, textInvalidTaskNumber, h.out.last(superPhone))

	h.say(superPhone, "/status 1")
	assert.Contains(t, h.out.last(superPhone), "STATUS PENYELESAIAN")

	h.say(userPhone, "/status 1")
	assert.Equal(t, textPermissionDenied, h.out.last(userPhone))

	h.say(userPhone, "/done 1")
	assert.Equal(t, fmt.Sprintf(textTaskMarked, "Essay"), h.out.last(userPhone))

	h.say(userPhone, "/tasks")
	assert.Contains(t, h.out.last(userPhone), "✅ Selesai")

	h.say(superPhone, "/role 0812345678901 user")
	assert.Equal(t, fmt.Sprintf(textRoleChanged, "62812345678901", permission.RoleUser), h.out.last(superPhone))

	h.say(superPhone, "/remove 0812345678901")
	assert.Equal(t, fmt.Sprintf(textUserDeleted, "Budi Santoso", "62812345678901"), h.out.last(superPhone))
}

func TestParseCommand(t *testing.T) {
	name, args := parseCommand("/Register  0812  Ali   user")
	assert.Equal(t, "register", name)
	assert.Equal(t, []string{"0812", "Ali", "user"}, args)

	name, args = parseCommand("hello")
	assert.Empty(t, name)
	assert.Nil(t, args)
}

func TestParseAssignableRole(t *testing.T) {
	for in, want := range map[string]permission.Role{"1": permission.RoleAdmin, "ADMIN": permission.RoleAdmin, "2": permission.RoleUser, " user ": permission.RoleUser} {
		got, ok := parseAssignableRole(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := parseAssignableRole("superadmin")
	assert.False(t, ok)
}
