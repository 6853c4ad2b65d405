package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqbalri06/bot-jadwal/db"
	"github.com/iqbalri06/bot-jadwal/permission"
)

func TestDateRoundTrip(t *testing.T) {
	stored, err := ParseDate("05-03-2026")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-05", stored)
	assert.Equal(t, "05-03-2026", DisplayDate(stored))
}

func TestParseDate_AcceptsUnpaddedDayAndMonth(t *testing.T) {
	stored, err := ParseDate(" 5-3-2026 ")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-05", stored)
	assert.Equal(t, "05-03-2026", DisplayDate(stored))
}

func TestParseDate_Rejects(t *testing.T) {
	for _, in := range []string{"2026-03-05", "31-02-2026", "05/03/2026", "5-3-26", "besok", ""} {
		_, err := ParseDate(in)
		assert.Error(t, err, in)
	}
}

func TestDisplayDate_PassesThroughGarbage(t *testing.T) {
	assert.Equal(t, "soon", DisplayDate("soon"))
}

func TestMainMenu_RoleGated(t *testing.T) {
	user := MainMenu(permission.RoleUser)
	assert.Contains(t, user, "3️⃣")
	assert.NotContains(t, user, "4️⃣")
	assert.NotContains(t, user, "8️⃣")

	admin := MainMenu(permission.RoleAdmin)
	assert.Contains(t, admin, "7️⃣ *Lihat Status Tugas*")
	assert.NotContains(t, admin, "8️⃣")

	assert.Contains(t, MainMenu(permission.RoleSuperAdmin), "8️⃣ *Kelola Pengguna*")
}

func TestTaskList(t *testing.T) {
	assert.Contains(t, TaskList(nil), "Belum ada tugas")

	out := TaskList([]db.UserTask{
		{Task: db.Task{Title: "Essay", Deadline: "2099-12-31"}},
		{Task: db.Task{Title: "Quiz", Deadline: "2100-01-01"}, Completed: true},
	})
	assert.Contains(t, out, "*1. Essay*\n📅 Deadline: 31-12-2099\n📊 Status: ⏳ Belum selesai")
	assert.Contains(t, out, "*2. Quiz*")
	assert.Contains(t, out, "✅ Selesai")
}

func TestTaskDetail(t *testing.T) {
	assert.Contains(t, TaskDetail(nil, nil, permission.RoleUser), "Tugas tidak ditemukan")

	task := &db.Task{Title: "Essay", Deadline: "2099-12-31", CreatorName: "Pak Guru"}
	plain := TaskDetail(task, nil, permission.RoleUser)
	assert.Contains(t, plain, "👤 Dibuat oleh: Pak Guru")
	assert.NotContains(t, plain, "STATUS PENYELESAIAN")
	assert.NotContains(t, plain, "edit.N")

	at := time.Date(2099, 12, 1, 10, 30, 0, 0, time.Local)
	full := TaskDetail(task, []db.CompletionEntry{
		{Name: "Ani", Completed: true, CompletedAt: &at},
		{Name: "Budi"},
	}, permission.RoleAdmin)
	assert.Contains(t, full, "✅ Selesai: 1 dari 2 pengguna")
	assert.Contains(t, full, "- Ani (01-12-2099 10:30)")
	assert.Contains(t, full, "*Pengguna yang belum menyelesaikan:*\n- Budi")
	assert.Contains(t, full, "hapus.N")
}

func TestUserList_GroupsByRole(t *testing.T) {
	out := UserList([]db.User{
		{Name: "Ani", PhoneNumber: "628111", Role: permission.RoleUser},
		{Name: "Boss", PhoneNumber: "628100", Role: permission.RoleSuperAdmin},
	})
	assert.Less(t, strings.Index(out, "*Super Admin:*"), strings.Index(out, "*User:*"))
	assert.NotContains(t, out, "*Admin:*")
	assert.Contains(t, out, "- Ani (628111)")
}

func TestHelp_RoleSections(t *testing.T) {
	assert.NotContains(t, Help(permission.RoleUser), "Menu Admin")
	assert.Contains(t, Help(permission.RoleAdmin), "Menu Admin")
	assert.Contains(t, Help(permission.RoleSuperAdmin), "Menu Super Admin")
}

