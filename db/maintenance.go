package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CleanupReport summarizes a CleanupDuplicateUsers run.
type CleanupReport struct {
	Scanned    int
	Normalized int
	Merged     int
}

// CleanupDuplicateUsers rewrites every phone number to its canonical form and
// merges accounts that collide. The surviving account is the one with the
// higher role, or the older one on a tie. Completion rows move to the
// survivor unless it already has a row for the same task.
func (g *Gateway) CleanupDuplicateUsers(ctx context.Context) (CleanupReport, error) {
	var report CleanupReport
	err := g.transaction(ctx, func(tx *Gateway) error {
		var users []User
		if err := tx.db.Order("id").Find(&users).Error; err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		report.Scanned = len(users)

		keepers := make(map[string]*User)
		var order []string
		for i := range users {
			u := &users[i]
			canon := CanonicalPhone(u.PhoneNumber)
			if canon == "" {
				continue
			}
			kept, ok := keepers[canon]
			if !ok {
				keepers[canon] = u
				order = append(order, canon)
				continue
			}
			winner, loser := kept, u
			if u.Role.Rank() > kept.Role.Rank() {
				winner, loser = u, kept
			}
			if err := tx.mergeUser(loser, winner); err != nil {
				return err
			}
			keepers[canon] = winner
			report.Merged++
		}

		for _, canon := range order {
			u := keepers[canon]
			if u.PhoneNumber == canon {
				continue
			}
			if err := tx.db.Model(&User{}).Where("id = ?", u.ID).Update("phone_number", canon).Error; err != nil {
				return fmt.Errorf("normalize phone of user %d: %w", u.ID, err)
			}
			report.Normalized++
		}
		return nil
	})
	if err != nil {
		return CleanupReport{}, err
	}
	g.log.Info("user cleanup finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("normalized", report.Normalized),
		zap.Int("merged", report.Merged))
	return report, nil
}

func (g *Gateway) mergeUser(from, into *User) error {
	var statuses []TaskStatus
	if err := g.db.Where("user_id = ?", from.ID).Find(&statuses).Error; err != nil {
		return fmt.Errorf("statuses of user %d: %w", from.ID, err)
	}
	for _, st := range statuses {
		var existing TaskStatus
		err := g.db.Where("task_id = ? AND user_id = ?", st.TaskID, into.ID).Limit(1).Find(&existing).Error
		if err != nil {
			return fmt.Errorf("status of user %d: %w", into.ID, err)
		}
		if existing.ID == 0 {
			if err := g.db.Model(&TaskStatus{}).Where("id = ?", st.ID).Update("user_id", into.ID).Error; err != nil {
				return fmt.Errorf("move status %d: %w", st.ID, err)
			}
			continue
		}
		if st.Completed && !existing.Completed {
			err := g.db.Model(&existing).Updates(map[string]any{"completed": true, "completed_at": st.CompletedAt}).Error
			if err != nil {
				return fmt.Errorf("merge status %d: %w", existing.ID, err)
			}
		}
		if err := g.db.Delete(&TaskStatus{}, st.ID).Error; err != nil {
			return fmt.Errorf("drop status %d: %w", st.ID, err)
		}
	}
	if err := g.db.Model(&Task{}).Where("created_by = ?", from.ID).Update("created_by", into.ID).Error; err != nil {
		return fmt.Errorf("reassign tasks of user %d: %w", from.ID, err)
	}
	if err := g.db.Delete(&User{}, from.ID).Error; err != nil {
		return fmt.Errorf("delete duplicate user %d: %w", from.ID, err)
	}
	return nil
}

// ResetReport summarizes a Reset run.
type ResetReport struct {
	Tasks      int64
	Users      int64
	PhotoPaths []string
	Kept       *User
}

// Reset deletes every task, status and photo row and every user except the
// superadmin identified by keepPhone, which is recreated if missing.
func (g *Gateway) Reset(ctx context.Context, keepPhone, keepName string) (ResetReport, error) {
	var report ResetReport
	err := g.transaction(ctx, func(tx *Gateway) error {
		var legacy []string
		if err := tx.db.Model(&Task{}).Where("photo_path IS NOT NULL AND photo_path <> ''").Pluck("photo_path", &legacy).Error; err != nil {
			return fmt.Errorf("list task photos: %w", err)
		}
		var gallery []string
		if err := tx.db.Model(&TaskPhoto{}).Pluck("photo_path", &gallery).Error; err != nil {
			return fmt.Errorf("list gallery photos: %w", err)
		}
		report.PhotoPaths = append(legacy, gallery...)

		if err := tx.db.Where("1 = 1").Delete(&TaskStatus{}).Error; err != nil {
			return fmt.Errorf("delete statuses: %w", err)
		}
		if err := tx.db.Where("1 = 1").Delete(&TaskPhoto{}).Error; err != nil {
			return fmt.Errorf("delete photos: %w", err)
		}
		res := tx.db.Where("1 = 1").Delete(&Task{})
		if res.Error != nil {
			return fmt.Errorf("delete tasks: %w", res.Error)
		}
		report.Tasks = res.RowsAffected

		keep := []string{NormalizePhone(keepPhone)}
		if keepPhone == "" {
			keep = []string{PlaceholderPhone}
		} else if keepPhone != keep[0] {
			keep = append(keep, keepPhone)
		}
		res = tx.db.Where("phone_number NOT IN ?", keep).Delete(&User{})
		if res.Error != nil {
			return fmt.Errorf("delete users: %w", res.Error)
		}
		report.Users = res.RowsAffected

		kept, err := tx.ensureSuperAdmin(ctx, keepPhone, keepName)
		if err != nil {
			return err
		}
		report.Kept = kept
		return nil
	})
	if err != nil {
		return ResetReport{}, err
	}
	g.log.Warn("database reset",
		zap.Int64("tasks", report.Tasks),
		zap.Int64("users", report.Users),
		zap.String("kept", report.Kept.PhoneNumber))
	return report, nil
}
