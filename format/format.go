// Package format renders bot replies. Every function is pure.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/iqbalri06/bot-jadwal/db"
	"github.com/iqbalri06/bot-jadwal/permission"
)

const (
	inputDate   = "02-01-2006"
	entryDate   = "2-1-2006"
	storedDate  = "2006-01-02"
	stampLayout = "02-01-2006 15:04"

	backHint = "_Ketik *0* untuk kembali ke menu utama._"
)

// ParseDate converts a DD-MM-YYYY date to the stored YYYY-MM-DD form. Day
// and month may omit the leading zero.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(entryDate, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", s, err)
	}
	return t.Format(storedDate), nil
}

// DisplayDate converts a stored YYYY-MM-DD date back to DD-MM-YYYY. Values
// that do not parse are returned unchanged.
func DisplayDate(stored string) string {
	t, err := time.Parse(storedDate, stored)
	if err != nil {
		return stored
	}
	return t.Format(inputDate)
}

func isAdmin(role permission.Role) bool {
	return role.AtLeast(permission.RoleAdmin)
}

func MainMenu(role permission.Role) string {
	var b strings.Builder
	b.WriteString("🤖 *MENU UTAMA*\n\n")
	b.WriteString("*Pilih menu dengan mengetik angka:*\n\n")
	b.WriteString("1️⃣ *Lihat Daftar Tugas*\n")
	b.WriteString("2️⃣ *Bantuan*\n")
	b.WriteString("3️⃣ *Tandai Tugas Selesai*\n")
	if isAdmin(role) {
		b.WriteString("4️⃣ *Tambah Tugas Baru*\n")
		b.WriteString("5️⃣ *Edit Tugas*\n")
		b.WriteString("6️⃣ *Hapus Tugas*\n")
		b.WriteString("7️⃣ *Lihat Status Tugas*\n")
	}
	if role == permission.RoleSuperAdmin {
		b.WriteString("8️⃣ *Kelola Pengguna*\n")
	}
	b.WriteString("\n_Ketik *menu* untuk menampilkan menu ini kembali._")
	return b.String()
}

func UserMenu() string {
	return "👥 *MENU PENGELOLAAN PENGGUNA*\n\n" +
		"*Pilih menu dengan mengetik angka:*\n\n" +
		"1️⃣ *Lihat Daftar Pengguna*\n" +
		"2️⃣ *Tambah Pengguna Baru*\n" +
		"3️⃣ *Ubah Role Pengguna*\n" +
		"4️⃣ *Hapus Pengguna*\n" +
		"0️⃣ *Kembali ke Menu Utama*\n"
}

// TaskList renders the numbered task list that dotted shortcuts index into.
func TaskList(tasks []db.UserTask) string {
	if len(tasks) == 0 {
		return "📋 *DAFTAR TUGAS*\n\nBelum ada tugas yang tersedia.\n\n" + backHint
	}
	var b strings.Builder
	b.WriteString("📋 *DAFTAR TUGAS*\n\n")
	for i, t := range tasks {
		status := "⏳ Belum selesai"
		if t.Completed {
			status = "✅ Selesai"
		}
		fmt.Fprintf(&b, "*%d. %s*\n", i+1, t.Title)
		fmt.Fprintf(&b, "📅 Deadline: %s\n", DisplayDate(t.Deadline))
		fmt.Fprintf(&b, "📊 Status: %s\n\n", status)
	}
	b.WriteString("_Ketik *detail.N* untuk melihat detail tugas (contoh: detail.3 untuk tugas no.3)_\n")
	b.WriteString(backHint)
	return b.String()
}

// TaskDetail renders one task. A nil statuses slice omits the completion
// section.
func TaskDetail(task *db.Task, statuses []db.CompletionEntry, role permission.Role) string {
	if task == nil {
		return "❌ Tugas tidak ditemukan.\n\n" + backHint
	}
	creator := task.CreatorName
	if creator == "" {
		creator = "Unknown"
	}

	var b strings.Builder
	b.WriteString("📝 *DETAIL TUGAS*\n\n")
	fmt.Fprintf(&b, "*%s*\n", task.Title)
	fmt.Fprintf(&b, "📅 Deadline: %s\n", DisplayDate(task.Deadline))
	fmt.Fprintf(&b, "👤 Dibuat oleh: %s\n", creator)

	if statuses != nil {
		var done, pending []db.CompletionEntry
		for _, s := range statuses {
			if s.Completed {
				done = append(done, s)
			} else {
				pending = append(pending, s)
			}
		}
		b.WriteString("\n📊 *STATUS PENYELESAIAN*\n")
		fmt.Fprintf(&b, "✅ Selesai: %d dari %d pengguna\n\n", len(done), len(statuses))
		if len(done) > 0 {
			b.WriteString("*Pengguna yang telah menyelesaikan:*\n")
			for _, s := range done {
				stamp := "-"
				if s.CompletedAt != nil {
					stamp = s.CompletedAt.Local().Format(stampLayout)
				}
				fmt.Fprintf(&b, "- %s (%s)\n", s.Name, stamp)
			}
		}
		if len(pending) > 0 {
			b.WriteString("\n*Pengguna yang belum menyelesaikan:*\n")
			for _, s := range pending {
				fmt.Fprintf(&b, "- %s\n", s.Name)
			}
		}
	}

	b.WriteString("\n*Pilihan:*\n")
	b.WriteString("_Ketik *selesai.N* untuk menandai tugas selesai (sesuai nomor tugas di daftar)_\n")
	if isAdmin(role) {
		b.WriteString("_Ketik *edit.N* untuk mengedit tugas ini (sesuai nomor tugas di daftar)_\n")
		b.WriteString("_Ketik *hapus.N* untuk menghapus tugas ini (sesuai nomor tugas di daftar)_\n")
	}
	b.WriteString(backHint)
	return b.String()
}

// UserList renders every account grouped by role.
func UserList(users []db.User) string {
	if len(users) == 0 {
		return "👥 *DAFTAR PENGGUNA*\n\nBelum ada pengguna yang terdaftar.\n\n" + backHint
	}

	var b strings.Builder
	b.WriteString("👥 *DAFTAR PENGGUNA*\n\n")
	groups := []struct {
		role  permission.Role
		label string
	}{
		{permission.RoleSuperAdmin, "*Super Admin:*\n"},
		{permission.RoleAdmin, "*Admin:*\n"},
		{permission.RoleUser, "*User:*\n"},
	}
	for _, g := range groups {
		var members []db.User
		for _, u := range users {
			if u.Role == g.role {
				members = append(members, u)
			}
		}
		if len(members) == 0 {
			continue
		}
		b.WriteString(g.label)
		for _, u := range members {
			fmt.Fprintf(&b, "- %s (%s)\n", u.Name, u.PhoneNumber)
		}
		b.WriteString("\n")
	}

	b.WriteString("*Pilihan:*\n")
	b.WriteString("_Ketik *tambah.user* untuk menambah pengguna baru_\n")
	b.WriteString("_Ketik *role.nomor* untuk mengubah role pengguna (contoh: role.628123456789)_\n")
	b.WriteString("_Ketik *hapus.nomor* untuk menghapus pengguna (contoh: hapus.628123456789)_\n")
	b.WriteString(backHint)
	return b.String()
}

func Help(role permission.Role) string {
	var b strings.Builder
	b.WriteString("🤖 *BOT MANAJEMEN TUGAS KULIAH*\n\n")
	b.WriteString("*Cara Penggunaan:*\n")
	b.WriteString("- Ketik *menu* untuk menampilkan menu utama\n")
	b.WriteString("- Pilih opsi dengan mengetik angka yang sesuai\n")
	b.WriteString("- Ketik *0* untuk kembali ke menu utama\n\n")

	b.WriteString("*Menu Semua Pengguna:*\n")
	b.WriteString("- *1* - Lihat daftar tugas\n")
	b.WriteString("- *2* - Bantuan\n")
	b.WriteString("- *3* - Tandai tugas selesai\n")
	b.WriteString("- *detail.N* - Lihat detail tugas (contoh: detail.1 untuk tugas no.1)\n")
	b.WriteString("- *selesai.N* - Menandai tugas selesai (contoh: selesai.1 untuk tugas no.1)\n\n")

	if isAdmin(role) {
		b.WriteString("*Menu Admin:*\n")
		b.WriteString("- *4* - Tambah tugas baru\n")
		b.WriteString("- *5* - Edit tugas\n")
		b.WriteString("- *6* - Hapus tugas\n")
		b.WriteString("- *7* - Lihat status tugas\n\n")
	}
	if role == permission.RoleSuperAdmin {
		b.WriteString("*Menu Super Admin:*\n")
		b.WriteString("- *8* - Kelola pengguna\n")
		b.WriteString("  - *tambah.user* - Tambah pengguna baru\n")
		b.WriteString("  - *role.nomor* - Ubah role pengguna\n")
		b.WriteString("  - *hapus.nomor* - Hapus pengguna\n\n")
	}
	b.WriteString(backHint)
	return b.String()
}
