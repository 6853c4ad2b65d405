package bot

import (
	"errors"

	"go.uber.org/zap"

	"github.com/iqbalri06/bot-jadwal/conversation"
	"github.com/iqbalri06/bot-jadwal/db"
	"github.com/iqbalri06/bot-jadwal/format"
	"github.com/iqbalri06/bot-jadwal/permission"
)

func (b *Bot) userMenu(t *turn, s conversation.UserMenu) (conversation.State, error) {
	if !b.allowed(t, permission.ViewUsers) {
		return nil, nil
	}

	switch t.lower {
	case "1":
		if err := b.sendUserList(t); err != nil {
			return s, err
		}
		return s, nil
	case "2":
		b.reply(t, textNewUserPhonePrompt)
		return conversation.NewAddingUser(), nil
	case "3", "4":
		hint := textHintRole
		if t.lower == "4" {
			hint = textHintRemoveUser
		}
		b.reply(t, hint)
		if err := b.sendUserList(t); err != nil {
			b.log.Warn("failed to list users", zap.Error(err))
		}
		return s, nil
	case "0":
		b.reply(t, format.MainMenu(t.role()))
		return nil, nil
	}

	b.reply(t, textInvalidChoice)
	b.reply(t, format.UserMenu())
	return s, nil
}

func (b *Bot) addingUser(t *turn, s conversation.AddingUser) (conversation.State, error) {
	if !b.allowed(t, permission.CreateUser) {
		return nil, nil
	}

	switch s.Step {
	case conversation.StepWaitingForNumber:
		if !isPhoneShape(t.text) {
			b.reply(t, textPhoneInvalid)
			return s, nil
		}
		phone := db.NormalizePhone(t.text)
		_, err := b.store.GetUserByPhone(t.ctx, phone)
		switch {
		case err == nil:
			b.reply(t, textPhoneTaken)
			return s, nil
		case !errors.Is(err, db.ErrNotFound):
			return s, err
		}
		s.Phone = phone
		s.Step = conversation.StepWaitingForName
		b.reply(t, textNewUserNamePrompt)
		return s, nil

	case conversation.StepWaitingForName:
		if t.text == "" {
			b.reply(t, textNewUserNameEmpty)
			return s, nil
		}
		s.Name = t.text
		s.Step = conversation.StepWaitingForRole
		b.reply(t, textRolePrompt)
		return s, nil

	case conversation.StepWaitingForRole:
		role, ok := parseAssignableRole(t.text)
		if !ok {
			b.reply(t, textRoleChoiceInvalid)
			return s, nil
		}
		if _, err := b.store.CreateUser(t.ctx, s.Phone, s.Name, role); err != nil {
			b.log.Error("failed to add user", zap.String("phone", s.Phone), zap.Error(err))
			if errors.Is(err, db.ErrDuplicatePhone) {
				b.reply(t, textUserExists)
			} else {
				b.reply(t, textUserAddFailed)
			}
			return nil, nil
		}
		b.replyf(t, textUserAdded, s.Name, s.Phone, role)
		b.reply(t, format.MainMenu(t.role()))
		return nil, nil
	}

	b.log.Warn("unexpected step", zap.String("flow", string(s.Flow())), zap.String("step", string(s.Step)))
	return nil, nil
}

func (b *Bot) changingRole(t *turn, s conversation.ChangingRole) (conversation.State, error) {
	if !b.allowed(t, permission.UpdateUserRole) {
		return nil, nil
	}
	if s.Step != conversation.StepWaitingForRole {
		b.log.Warn("unexpected step", zap.String("flow", string(s.Flow())), zap.String("step", string(s.Step)))
		return nil, nil
	}

	role, ok := parseAssignableRole(t.text)
	if !ok {
		b.reply(t, textRoleChoiceInvalid)
		return s, nil
	}
	err := b.store.UpdateUserRole(t.ctx, s.TargetPhone, role)
	switch {
	case errors.Is(err, db.ErrNotFound):
		b.replyf(t, textUserNotFound, s.TargetPhone)
		return nil, nil
	case err != nil:
		b.log.Error("failed to change role", zap.String("phone", s.TargetPhone), zap.Error(err))
		b.reply(t, textRoleChangeFailed)
		return nil, nil
	}

	name := s.TargetName
	if name == "" {
		name = s.TargetPhone
	}
	b.replyf(t, textRoleChanged, name, role)
	b.reply(t, format.MainMenu(t.role()))
	return nil, nil
}

// deletingUser deletes the target on "ya" and cancels on anything else.
// The flow ends either way.
func (b *Bot) deletingUser(t *turn, s conversation.DeletingUser) (conversation.State, error) {
	if !b.allowed(t, permission.DeleteUser) {
		return nil, nil
	}
	if s.Step != conversation.StepConfirmDelete {
		b.log.Warn("unexpected step", zap.String("flow", string(s.Flow())), zap.String("step", string(s.Step)))
		return nil, nil
	}

	if t.lower != "ya" {
		b.reply(t, textUserDeleteCancelled)
		b.reply(t, format.MainMenu(t.role()))
		return nil, nil
	}

	victim, err := b.store.GetUserByPhone(t.ctx, s.TargetPhone)
	switch {
	case errors.Is(err, db.ErrNotFound):
		b.replyf(t, textUserNotFound, s.TargetPhone)
	case err != nil:
		b.log.Error("failed to look up user", zap.String("phone", s.TargetPhone), zap.Error(err))
		b.reply(t, textUserDeleteFailed)
	case b.deletionAllowed(t, victim):
		name := s.TargetName
		if name == "" {
			name = victim.Name
		}
		if err := b.removeUser(t, victim.PhoneNumber, name); err != nil {
			b.log.Error("failed to delete user", zap.String("phone", s.TargetPhone), zap.Error(err))
			b.reply(t, textUserDeleteFailed)
		}
	}
	b.reply(t, format.MainMenu(t.role()))
	return nil, nil
}
