package bot

const (
	textGenericError     = "Terjadi kesalahan. Silakan coba lagi."
	textPermissionDenied = "❌ Anda tidak memiliki izin untuk melakukan tindakan ini."
	textUnknownCommand   = "❌ Perintah tidak dikenali."
	textUnknownLegacy    = "❌ Perintah tidak dikenali. Ketik /help untuk melihat daftar perintah."
	textInvalidChoice    = "❌ Pilihan tidak valid. Silakan pilih menu yang tersedia."

	textRegisterPrompt  = "Selamat datang! Anda belum terdaftar.\n\nSilakan masukkan nama Anda untuk mendaftar:"
	textNameTooShort    = "Nama terlalu pendek. Silakan masukkan nama yang valid (minimal 3 karakter):"
	textRegistered      = "✅ Selamat datang, %s! Anda telah berhasil terdaftar sebagai pengguna bot."
	textRegisterFailure = "❌ Terjadi kesalahan saat mendaftarkan Anda. Silakan coba lagi nanti."

	textHintComplete = "Untuk menandai tugas sebagai selesai, lihat daftar tugas terlebih dahulu dengan ketik *1*, " +
		"lalu tandai dengan mengetik *selesai.nomor* (contoh: selesai.1)"
	textHintEdit = "Untuk mengedit tugas, lihat daftar tugas terlebih dahulu dengan ketik *1*, " +
		"lalu edit dengan mengetik *edit.nomor* (contoh: edit.1)"
	textHintDelete = "Untuk menghapus tugas, lihat daftar tugas terlebih dahulu dengan ketik *1*, " +
		"lalu hapus dengan mengetik *hapus.nomor* (contoh: hapus.1)"
	textHintStatus = "Untuk melihat status penyelesaian tugas, lihat daftar tugas terlebih dahulu dengan ketik *1*, " +
		"lalu lihat detail dengan mengetik *detail.nomor* (contoh: detail.1)"
	textHintRole       = "Untuk mengubah role pengguna, silakan ketik *role.nomor* (contoh: role.628123456789)"
	textHintRemoveUser = "Untuk menghapus pengguna, silakan ketik *hapus.nomor* (contoh: hapus.628123456789)"

	textInvalidTaskNumber = "❌ Nomor tugas tidak valid."
	textTaskOutOfRange    = "❌ Nomor tugas tidak valid. Daftar tugas hanya memiliki %d item."
	textTaskGone          = "❌ Tugas tidak ditemukan. Mungkin sudah dihapus."
	textTaskMarked        = "✅ Tugas \"%s\" telah ditandai sebagai selesai."
	textTaskAlreadyMarked = "⚠️ Tugas \"%s\" sudah ditandai sebagai selesai sebelumnya."
	textTaskDeleted       = "✅ Tugas \"%s\" telah dihapus."

	textTitlePrompt     = "Masukkan judul tugas:"
	textTitleEmpty      = "❌ Judul tidak boleh kosong. Silakan masukkan judul tugas:"
	textDeadlinePrompt  = "Masukkan deadline tugas (format: DD-MM-YYYY):"
	textDeadlineInvalid = "❌ Format tanggal tidak valid. Gunakan format DD-MM-YYYY, contoh: 05-03-2026. Silakan coba lagi:"
	textPhotoPrompt     = "Silakan kirim foto tugas. Anda dapat mengirimkan beberapa foto secara bergantian.\n\n" +
		"Ketik \"selesai\" jika sudah selesai mengirim foto atau \"skip\" untuk melanjutkan tanpa foto."
	textPhotoReprompt    = "Silakan kirim foto tugas, ketik \"selesai\" untuk menyelesaikan, atau ketik \"skip\" untuk melanjutkan tanpa foto."
	textPhotoAdded       = "✅ Foto #%d berhasil ditambahkan.\n\nKirim foto lainnya atau ketik \"selesai\" jika sudah selesai."
	textPhotoSaveFailed  = "❌ Gagal menyimpan gambar.\n\nSilakan kirim foto lagi, atau ketik \"selesai\" untuk membuat tugas dengan foto yang sudah ada, atau ketik \"skip\" untuk melanjutkan tanpa foto."
	textTaskCreatedPhoto = "✅ Tugas \"%s\" berhasil dibuat dengan %d foto."
	textTaskCreated      = "✅ Tugas \"%s\" berhasil dibuat tanpa foto."
	textTaskCreateFailed = "❌ Gagal membuat tugas.\n\nSilakan coba lagi."

	textDownloadFailed = "❌ Gagal mengunduh gambar: %s.\n\nSilakan coba kirim ulang dengan ukuran file yang lebih kecil."
	textImageInvalid   = "❌ Format gambar tidak valid. Silakan coba kirim ulang dengan format JPG/PNG."
	textImageTooLarge  = "❌ Ukuran gambar terlalu besar (%.2fMB). Maksimal %gMB.\n\nSilakan kompres gambar dan coba lagi."

	problemDownload = "Gagal mengunduh gambar: %s."
	problemInvalid  = "Format gambar tidak valid."
	problemTooLarge = "Ukuran gambar terlalu besar (%.2fMB). Maksimal %gMB."
	problemSave     = "Gagal menyimpan foto."

	textEditTitlePrompt     = "Masukkan judul baru untuk tugas \"%s\":"
	textEditDeadlinePrompt  = "Masukkan deadline baru untuk tugas (format: DD-MM-YYYY):"
	textEditDeadlineInvalid = "❌ Format tanggal tidak valid. Gunakan format DD-MM-YYYY, contoh: 05-03-2026. Silakan coba lagi."
	textEditPhotoDecision   = "Apakah Anda ingin mengubah foto? Ketik \"ya\" untuk mengubah, \"tidak\" untuk tetap menggunakan foto yang ada, atau \"hapus\" untuk menghapus foto."
	textEditDecisionInvalid = "Pilihan tidak valid. Ketik \"ya\", \"tidak\", atau \"hapus\"."
	textEditPhotoPrompt     = "Silakan kirim foto baru untuk tugas ini:"
	textEditPhotoReprompt   = "Silakan kirim foto untuk tugas ini:"
	textEditSaved           = "✅ Tugas berhasil diperbarui."
	textEditPhotoRemoved    = "✅ Tugas berhasil diperbarui dan foto dihapus."
	textEditPhotoReplaced   = "✅ Tugas berhasil diperbarui dengan foto baru."
	textEditPhotoDegraded   = "❌ %s Tugas diperbarui tanpa mengubah foto."
	textEditFailed          = "❌ Gagal memperbarui tugas. Silakan coba lagi."

	textPhoneInvalid        = "❌ Format nomor telepon tidak valid. Silakan coba lagi:"
	textPhoneTaken          = "❌ Pengguna dengan nomor tersebut sudah terdaftar. Silakan coba nomor lain:"
	textNewUserPhonePrompt  = "Masukkan nomor telepon pengguna baru:"
	textNewUserNamePrompt   = "Masukkan nama pengguna:"
	textNewUserNameEmpty    = "❌ Nama tidak boleh kosong. Silakan masukkan nama:"
	textRolePrompt          = "Pilih role pengguna:\n1. Admin\n2. User"
	textRoleChoiceInvalid   = "❌ Pilihan tidak valid. Pilih 1 untuk Admin atau 2 untuk User:"
	textUserAdded           = "✅ Pengguna %s (%s) berhasil ditambahkan sebagai %s."
	textUserAddFailed       = "❌ Terjadi kesalahan saat mendaftarkan pengguna baru."
	textUserExists          = "❌ Pengguna dengan nomor tersebut sudah terdaftar."
	textUserNotFound        = "❌ Pengguna dengan nomor %s tidak ditemukan."
	textChangeRolePrompt    = "Pilih role baru untuk %s (%s):\n1. Admin\n2. User"
	textRoleChanged         = "✅ Role pengguna %s berhasil diubah menjadi %s."
	textRoleChangeFailed    = "❌ Terjadi kesalahan saat mengubah role pengguna."
	textRoleSelf            = "❌ Anda tidak dapat mengubah role Anda sendiri."
	textDeleteSelf          = "❌ Anda tidak dapat menghapus akun Anda sendiri."
	textDeleteSuperAdmin    = "❌ Anda tidak dapat menghapus pengguna Super Admin lain."
	textDeleteConfirm       = "⚠️ Anda yakin ingin menghapus pengguna %s (%s)?\nSemua data terkait pengguna ini akan dihapus.\n\nKetik *ya* untuk mengkonfirmasi atau ketik apa saja untuk membatalkan."
	textUserDeleted         = "✅ Pengguna %s (%s) berhasil dihapus."
	textUserDeleteCancelled = "❌ Penghapusan pengguna dibatalkan."
	textUserDeleteFailed    = "❌ Terjadi kesalahan saat menghapus pengguna."

	textLegacyPhoneInvalid = "❌ Format nomor telepon tidak valid."
	textLegacyRoleInvalid  = "❌ Role tidak valid. Gunakan \"admin\" atau \"user\"."

	textPhotoCount        = "📷 Tugas ini memiliki %d foto."
	textPhotoCaption      = "📷 Foto tugas: %s"
	textPhotoCaptionNth   = "📷 Foto tugas %d/%d: %s"
	textPhotoSendFailed   = "⚠️ Tidak dapat menampilkan foto tugas %d."
	textPhotoListFailed   = "⚠️ Terjadi kesalahan saat mengambil foto-foto tugas."
)
