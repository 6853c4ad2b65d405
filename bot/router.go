package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/iqbalri06/bot-jadwal/conversation"
	"github.com/iqbalri06/bot-jadwal/db"
	"github.com/iqbalri06/bot-jadwal/format"
	"github.com/iqbalri06/bot-jadwal/permission"
)

func (b *Bot) route(ctx context.Context, evt Event) error {
	if strings.TrimSpace(evt.Text) == "" && !evt.HasImage {
		return nil
	}

	user, err := b.store.GetUserByPhone(ctx, evt.Sender)
	if errors.Is(err, db.ErrNotFound) {
		return b.register(newTurn(ctx, evt, nil))
	}
	if err != nil {
		return err
	}

	t := newTurn(ctx, evt, user)
	state, ok, err := b.states.Get(ctx, evt.Sender)
	if err != nil {
		return err
	}
	if ok {
		return b.advance(t, state)
	}
	return b.command(t)
}

// command classifies input from a sender with no open conversation.
func (b *Bot) command(t *turn) error {
	switch {
	case t.lower == "menu" || t.lower == "0":
		b.reply(t, format.MainMenu(t.role()))
		return nil
	case isDigits(t.lower):
		return b.menuSelection(t)
	case strings.Contains(t.lower, "."):
		action, target, _ := strings.Cut(t.lower, ".")
		return b.shortcut(t, action, strings.TrimSpace(target))
	case strings.HasPrefix(t.text, "/"):
		return b.legacy(t)
	default:
		b.reply(t, textUnknownCommand)
		b.reply(t, format.MainMenu(t.role()))
		return nil
	}
}

// advance hands the event to the open flow and stores whatever state the
// flow returns. An error leaves the stored state untouched.
func (b *Bot) advance(t *turn, state conversation.State) error {
	var (
		next conversation.State
		err  error
	)
	switch s := state.(type) {
	case conversation.Registering:
		// The sender registered some other way while this prompt was open.
		if err := b.states.Delete(t.ctx, t.evt.Sender); err != nil {
			return err
		}
		return b.command(t)
	case conversation.AddingTask:
		next, err = b.addingTask(t, s)
	case conversation.EditingTask:
		next, err = b.editingTask(t, s)
	case conversation.AddingUser:
		next, err = b.addingUser(t, s)
	case conversation.ChangingRole:
		next, err = b.changingRole(t, s)
	case conversation.DeletingUser:
		next, err = b.deletingUser(t, s)
	case conversation.UserMenu:
		next, err = b.userMenu(t, s)
	default:
		b.log.Warn("dropping unsupported conversation state",
			zap.String("sender", t.evt.Sender),
			zap.String("flow", string(state.Flow())))
		return b.states.Delete(t.ctx, t.evt.Sender)
	}
	if err != nil {
		return err
	}
	return b.save(t, next)
}

// register walks an unknown sender through picking a display name.
func (b *Bot) register(t *turn) error {
	state, ok, err := b.states.Get(t.ctx, t.evt.Sender)
	if err != nil {
		return err
	}
	if reg, isReg := state.(conversation.Registering); ok && isReg && reg.Step == conversation.StepWaitingForName {
		next, err := b.registering(t, reg)
		if err != nil {
			return err
		}
		return b.save(t, next)
	}

	b.reply(t, textRegisterPrompt)
	return b.save(t, conversation.NewRegistering())
}

func (b *Bot) registering(t *turn, s conversation.Registering) (conversation.State, error) {
	name := t.text
	if utf8.RuneCountInString(name) < 3 {
		b.reply(t, textNameTooShort)
		return s, nil
	}

	user, err := b.store.CreateUser(t.ctx, t.evt.Sender, name, permission.RoleUser)
	if err != nil {
		b.log.Error("failed to register user", zap.String("sender", t.evt.Sender), zap.Error(err))
		b.reply(t, textRegisterFailure)
		return nil, nil
	}
	b.log.Info("user registered", zap.String("sender", t.evt.Sender), zap.Uint("user_id", user.ID))
	b.replyf(t, textRegistered, name)
	b.reply(t, format.MainMenu(user.Role))
	return nil, nil
}

// menuSelection answers a numeric main-menu choice. Choices above the
// sender's role are treated as unknown.
func (b *Bot) menuSelection(t *turn) error {
	n, err := strconv.Atoi(t.lower)
	if err != nil {
		n = -1
	}
	role := t.role()

	switch {
	case n == 1:
		return b.sendUserTaskList(t)
	case n == 2:
		b.reply(t, format.Help(role))
		return nil
	case n == 3:
		b.reply(t, textHintComplete)
		return nil
	case n == 4 && role.AtLeast(permission.RoleAdmin):
		return b.startAddingTask(t)
	case n == 5 && role.AtLeast(permission.RoleAdmin):
		b.reply(t, textHintEdit)
		return nil
	case n == 6 && role.AtLeast(permission.RoleAdmin):
		b.reply(t, textHintDelete)
		return nil
	case n == 7 && role.AtLeast(permission.RoleAdmin):
		b.reply(t, textHintStatus)
		return nil
	case n == 8 && role == permission.RoleSuperAdmin:
		b.reply(t, format.UserMenu())
		return b.save(t, conversation.NewUserMenu())
	}

	b.reply(t, textInvalidChoice)
	b.reply(t, format.MainMenu(role))
	return nil
}

func (b *Bot) sendUserTaskList(t *turn) error {
	tasks, err := b.store.ListTasksForUser(t.ctx, t.user.ID)
	if err != nil {
		return err
	}
	b.reply(t, format.TaskList(tasks))
	return nil
}

func (b *Bot) startAddingTask(t *turn) error {
	b.reply(t, textTitlePrompt)
	return b.save(t, conversation.NewAddingTask())
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isPhoneShape reports whether s is 10 to 15 digits.
func isPhoneShape(s string) bool {
	return len(s) >= 10 && len(s) <= 15 && isDigits(s)
}
