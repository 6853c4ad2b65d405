package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqbalri06/bot-jadwal/permission"
)

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "628123456789", NormalizePhone("08123456789"))
	assert.Equal(t, "628123456789", NormalizePhone(" 628123456789 "))
	assert.Equal(t, "admin", NormalizePhone("admin"))
}

func TestCanonicalPhone(t *testing.T) {
	assert.Equal(t, "628123", CanonicalPhone("+62 812-3"))
	assert.Equal(t, "628123", CanonicalPhone("08123"))
	assert.Equal(t, "628123", CanonicalPhone("8123"))
	assert.Equal(t, "", CanonicalPhone("admin"))
}

func TestEnsureSuperAdmin_CreatesPromotesAndNormalizes(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	created, err := g.EnsureSuperAdmin(ctx, "08100", "Boss")
	require.NoError(t, err)
	assert.Equal(t, "628100", created.PhoneNumber)
	assert.Equal(t, permission.RoleSuperAdmin, created.Role)

	again, err := g.EnsureSuperAdmin(ctx, "08100", "Boss")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	legacy := mustUser(t, g, "08200", "Old", permission.RoleUser)
	promoted, err := g.EnsureSuperAdmin(ctx, "08200", "Old")
	require.NoError(t, err)
	assert.Equal(t, legacy.ID, promoted.ID)
	assert.Equal(t, "628200", promoted.PhoneNumber)

	stored, err := g.GetUserByPhone(ctx, "628200")
	require.NoError(t, err)
	assert.Equal(t, permission.RoleSuperAdmin, stored.Role)
}

func TestEnsureSuperAdmin_PlaceholderWhenUnconfigured(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	u, err := g.EnsureSuperAdmin(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, PlaceholderPhone, u.PhoneNumber)

	again, err := g.EnsureSuperAdmin(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
}

func TestEnsureSuperAdmin_NeverCreatesASecondSuperAdmin(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	placeholder, err := g.EnsureSuperAdmin(ctx, "", "")
	require.NoError(t, err)

	claimed, err := g.EnsureSuperAdmin(ctx, "085155349970", "Bu Dosen")
	require.NoError(t, err)
	assert.Equal(t, placeholder.ID, claimed.ID)
	assert.Equal(t, "6285155349970", claimed.PhoneNumber)
	assert.Equal(t, "Bu Dosen", claimed.Name)
	_, err = g.GetUserByPhone(ctx, PlaceholderPhone)
	assert.ErrorIs(t, err, ErrNotFound)

	other, err := g.EnsureSuperAdmin(ctx, "08999", "Lain")
	require.NoError(t, err)
	assert.Equal(t, claimed.ID, other.ID)
	_, err = g.GetUserByPhone(ctx, "628999")
	assert.ErrorIs(t, err, ErrNotFound)

	var supers int64
	require.NoError(t, g.db.Model(&User{}).Where("role = ?", permission.RoleSuperAdmin).Count(&supers).Error)
	assert.Equal(t, int64(1), supers)
}

func TestCleanupDuplicateUsers_MergesKeepingHigherRole(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	plain := mustUser(t, g, "08111", "Ani", permission.RoleUser)
	admin := mustUser(t, g, "628111", "Ani Admin", permission.RoleAdmin)
	loner := mustUser(t, g, "8222", "Budi", permission.RoleUser)

	task, err := g.CreateTask(ctx, "Laporan", "2024-05-01", nil, admin.ID)
	require.NoError(t, err)
	_, err = g.MarkCompleted(ctx, task.ID, plain.ID)
	require.NoError(t, err)

	report, err := g.CleanupDuplicateUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 1, report.Merged)
	assert.Equal(t, 1, report.Normalized)

	users, err := g.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, admin.ID, users[0].ID)
	assert.Equal(t, loner.ID, users[1].ID)
	assert.Equal(t, "628222", users[1].PhoneNumber)

	tasks, err := g.ListTasksForUser(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed, "completion carried over from the merged account")
}

func TestReset_KeepsOnlySuperAdmin(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	boss, err := g.EnsureSuperAdmin(ctx, "628100", "Boss")
	require.NoError(t, err)
	mustUser(t, g, "628111", "Ani", permission.RoleUser)
	old := "legacy.jpg"
	_, err = g.CreateTask(ctx, "A", "2024-01-01", &old, boss.ID)
	require.NoError(t, err)
	_, err = g.CreateTaskWithPhotos(ctx, "B", "2024-01-02", []string{"g.jpg"}, boss.ID)
	require.NoError(t, err)

	report, err := g.Reset(ctx, "08100", "Boss")
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Tasks)
	assert.Equal(t, int64(1), report.Users)
	assert.ElementsMatch(t, []string{"legacy.jpg", "g.jpg"}, report.PhotoPaths)
	assert.Equal(t, boss.ID, report.Kept.ID)

	assert.Zero(t, count(t, g, &Task{}))
	assert.Zero(t, count(t, g, &TaskStatus{}))
	assert.Zero(t, count(t, g, &TaskPhoto{}))
	assert.Equal(t, int64(1), count(t, g, &User{}))
}
