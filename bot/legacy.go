package bot

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/iqbalri06/bot-jadwal/db"
	"github.com/iqbalri06/bot-jadwal/format"
	"github.com/iqbalri06/bot-jadwal/permission"
)

// legacyArgs names the required positional arguments of each slash command.
var legacyArgs = map[string][]string{
	"task":     {"nomor"},
	"done":     {"nomor"},
	"edit":     {"nomor"},
	"delete":   {"nomor"},
	"status":   {"nomor"},
	"register": {"nomor", "nama", "role"},
	"role":     {"nomor", "role"},
	"remove":   {"nomor"},
}

// parseCommand splits "/name arg..." into the lower-cased name and its
// arguments.
func parseCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}
	return strings.ToLower(strings.TrimPrefix(fields[0], "/")), fields[1:]
}

// missingArgs returns one line per required argument that was not given.
func missingArgs(command string, args []string) []string {
	var missing []string
	for i, name := range legacyArgs[command] {
		if i >= len(args) || args[i] == "" {
			missing = append(missing, fmt.Sprintf("Parameter %s wajib diisi.", name))
		}
	}
	return missing
}

// legacy runs a slash command. Task numbers refer to the list of all tasks,
// except /tasks which shows the sender's own list.
func (b *Bot) legacy(t *turn) error {
	command, args := parseCommand(t.text)

	if guard, ok := legacyGuards[command]; ok {
		if !b.allowed(t, guard) {
			return nil
		}
	}
	if missing := missingArgs(command, args); len(missing) > 0 {
		b.reply(t, "❌ "+strings.Join(missing, "\n"))
		return nil
	}

	switch command {
	case "help":
		b.reply(t, format.Help(t.role()))
		return nil
	case "tasks":
		return b.sendUserTaskList(t)
	case "task":
		task, ok, err := b.resolveGlobalTask(t, args[0])
		if err != nil || !ok {
			return err
		}
		return b.sendTaskDetail(t, task)
	case "done":
		task, ok, err := b.resolveGlobalTask(t, args[0])
		if err != nil || !ok {
			return err
		}
		return b.markDone(t, task)
	case "add":
		return b.startAddingTask(t)
	case "edit":
		task, ok, err := b.resolveGlobalTask(t, args[0])
		if err != nil || !ok {
			return err
		}
		return b.startEditing(t, task)
	case "delete":
		task, ok, err := b.resolveGlobalTask(t, args[0])
		if err != nil || !ok {
			return err
		}
		return b.deleteTask(t, task)
	case "status":
		task, ok, err := b.resolveGlobalTask(t, args[0])
		if err != nil || !ok {
			return err
		}
		statuses, err := b.store.GetCompletionStatus(t.ctx, task.ID)
		if err != nil {
			return err
		}
		if statuses == nil {
			statuses = []db.CompletionEntry{}
		}
		b.reply(t, format.TaskDetail(task, statuses, t.role()))
		return nil
	case "users":
		return b.sendUserList(t)
	case "register":
		return b.legacyRegister(t, args)
	case "role":
		return b.legacyRole(t, args)
	case "remove":
		return b.legacyRemove(t, args[0])
	}

	b.reply(t, textUnknownLegacy)
	return nil
}

var legacyGuards = map[string]permission.Action{
	"tasks":    permission.ViewTasks,
	"task":     permission.ViewTasks,
	"done":     permission.MarkTaskDone,
	"add":      permission.CreateTask,
	"edit":     permission.UpdateTask,
	"delete":   permission.DeleteTask,
	"status":   permission.ViewTaskStatus,
	"users":    permission.ViewUsers,
	"register": permission.CreateUser,
	"role":     permission.UpdateUserRole,
	"remove":   permission.DeleteUser,
}

func (b *Bot) sendUserList(t *turn) error {
	users, err := b.store.ListUsers(t.ctx)
	if err != nil {
		return err
	}
	b.reply(t, format.UserList(users))
	return nil
}

// legacyRegister handles "/register <phone> <name...> <role>". The name may
// span several words.
func (b *Bot) legacyRegister(t *turn, args []string) error {
	phone := args[0]
	if !isPhoneShape(phone) {
		b.reply(t, textLegacyPhoneInvalid)
		return nil
	}
	phone = db.NormalizePhone(phone)
	role, ok := parseAssignableRole(args[len(args)-1])
	if !ok {
		b.reply(t, textLegacyRoleInvalid)
		return nil
	}
	name := strings.Join(args[1:len(args)-1], " ")

	_, err := b.store.CreateUser(t.ctx, phone, name, role)
	switch {
	case errors.Is(err, db.ErrDuplicatePhone):
		b.reply(t, textUserExists)
		return nil
	case err != nil:
		b.log.Error("failed to register user", zap.String("phone", phone), zap.Error(err))
		b.reply(t, textUserAddFailed)
		return nil
	}
	b.replyf(t, textUserAdded, name, phone, role)
	return nil
}

func (b *Bot) legacyRole(t *turn, args []string) error {
	role, ok := parseAssignableRole(args[1])
	if !ok {
		b.reply(t, textLegacyRoleInvalid)
		return nil
	}
	phone := db.NormalizePhone(args[0])
	if phone == t.user.PhoneNumber {
		b.reply(t, textRoleSelf)
		return nil
	}

	err := b.store.UpdateUserRole(t.ctx, phone, role)
	if errors.Is(err, db.ErrNotFound) {
		b.replyf(t, textUserNotFound, args[0])
		return nil
	}
	if err != nil {
		return err
	}
	b.replyf(t, textRoleChanged, phone, role)
	return nil
}

// legacyRemove deletes a user without confirmation, with the same guards
// as hapus.<phone>.
func (b *Bot) legacyRemove(t *turn, target string) error {
	phone := db.NormalizePhone(target)
	victim, err := b.store.GetUserByPhone(t.ctx, phone)
	if errors.Is(err, db.ErrNotFound) {
		b.replyf(t, textUserNotFound, target)
		return nil
	}
	if err != nil {
		return err
	}
	if !b.deletionAllowed(t, victim) {
		return nil
	}
	return b.removeUser(t, victim.PhoneNumber, victim.Name)
}

func (b *Bot) removeUser(t *turn, phone, name string) error {
	err := b.store.DeleteUser(t.ctx, phone)
	if errors.Is(err, db.ErrNotFound) {
		b.replyf(t, textUserNotFound, phone)
		return nil
	}
	if err != nil {
		return err
	}
	b.replyf(t, textUserDeleted, name, phone)
	return nil
}

// parseAssignableRole accepts the roles a superadmin may hand out.
func parseAssignableRole(s string) (permission.Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", string(permission.RoleAdmin):
		return permission.RoleAdmin, true
	case "2", string(permission.RoleUser):
		return permission.RoleUser, true
	}
	return "", false
}
