// Package whatsapp holds the inbound message model and the fixed
// command texts of the bot.
package whatsapp

import "strings"

// Message is one inbound chat message with its origin context.
type Message struct {
	ChatID   string
	Sender   string
	Body     string
	IsGroup  bool
	Mentions []string
}

// Command is the parsed form of a command message: the prefix token and
// its positional arguments.
type Command struct {
	Name string
	Args []string
	Raw  string
}

// Parse splits text into the command token and positional arguments.
func Parse(text string) Command {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return Command{Raw: text}
	}
	return Command{
		Name: parts[0],
		Args: parts[1:],
		Raw:  text,
	}
}

func HelpText() string {
	return `*Available Commands:*

1. *!all*: Tag all users in the allowed group.
2. *!groupid*: Show the group ID.
3. *!userid*: Show your user ID or the ID of mentioned participants.
4. *!events [query]*: List upcoming events or search events by query.
5. *!jadwalpost [sheet name]*: Show upcoming or last deadlines for a specific sheet.
6. *!detail [sheet name] [code]*: Get detailed information about a specific post by code.
7. *!ingatkan HH:MM [hari]*: Schedule a one-shot reminder.
8. *!quote*: Get a random quote, *!quote sub* / *!quote unsub* for the daily broadcast.

For more information, feel free to ask!`
}

func JadwalpostGuide() string {
	return `*Tracking Client Content*

Berikut perintah yang tersedia untuk *Jadwal Posting*:
1. *!jadwalpost* - Menampilkan daftar perintah jadwal posting.
2. *!jadwalpost klien* - Menampilkan daftar klien yang terdaftar dalam Content Planning.
3. *!jadwalpost [nama_klien]* - Menampilkan jadwal posting mendatang dari klien tertentu.
4. *!jadwalpost [nama_klien] last* - Menampilkan 5 jadwal terakhir dari klien tertentu.
5. *!detail [nama_klien] [kode]* - Menampilkan detail postingan.
6. *!jadwalkan [nama_klien] [kode] [tanggal] [waktu]* - Menjadwalkan postingan ke google calendar

*Contoh Penggunaan:*
- *!jadwalpost klien*
- *!jadwalpost buodeh-1*
- *!jadwalpost buodeh-1 last*`
}

func IngatkanUsage() string {
	return `Format salah. Gunakan:
!ingatkan HH:MM [hari ini|besok|lusa|DD/MM/YYYY]
Judul (opsional)
Detail 1, Detail 2 (opsional)`
}
