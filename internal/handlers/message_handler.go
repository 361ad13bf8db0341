package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/toogather/wabot/internal/config"
	"github.com/toogather/wabot/internal/domain/apperr"
	"github.com/toogather/wabot/internal/domain/contract"
	"github.com/toogather/wabot/internal/domain/entity"
	"github.com/toogather/wabot/internal/domain/service"
	"github.com/toogather/wabot/internal/domain/whatsapp"
	"github.com/toogather/wabot/internal/google"
	"github.com/toogather/wabot/internal/store"
	"github.com/toogather/wabot/internal/wa"
)

const groupOnlyReply = "This command works only in groups!"

type handlerFunc func(ctx context.Context, msg whatsapp.Message)

// rule pairs a body predicate with its handler. Rules live in ordered
// groups: within a group the first match wins, while the groups
// themselves are independent, so one message can satisfy several
// command families and get a reply from each.
type rule struct {
	match  func(body string) bool
	handle handlerFunc
}

type MessageHandler struct {
	transport contract.Transport
	services  *service.Instance

	allowedGroups map[string]bool
	tagAllUserIDs []string
	stickerDir    string
	loc           *time.Location
	now           func() time.Time

	groups [][]rule
}

func New(transport contract.Transport, services *service.Instance, cfg *config.Config, loc *time.Location) *MessageHandler {
	h := &MessageHandler{
		transport:     transport,
		services:      services,
		allowedGroups: make(map[string]bool),
		tagAllUserIDs: cfg.TagAllUserIDs,
		stickerDir:    cfg.StickerDir,
		loc:           loc,
		now:           time.Now,
	}
	for _, id := range cfg.AllowedGroupIDs {
		h.allowedGroups[id] = true
	}

	// Precedence is fixed: exact matches before prefixes, longer
	// prefixes before the shorter ones they extend.
	h.groups = [][]rule{
		{
			{matchExact("!help"), h.handleHelp},
		},
		{
			{matchExact("!all"), h.handleTagAll},
			{matchExact("!groupid"), h.handleGroupID},
			{matchPrefix("!userid"), h.handleUserID},
		},
		{
			{matchExact("!dea"), h.stickerHandler("dea")},
			{matchExact("!dimas"), h.stickerHandler("dimas")},
			{matchExact("!ananta"), h.stickerHandler("ananta")},
		},
		{
			{matchPrefix("!events"), h.handleEvents},
		},
		{
			{matchExactFold("!jadwalpost"), h.handleJadwalpostGuide},
			{matchPrefixFold("!jadwalpost klien"), h.handleClientList},
			{matchPrefixFold("!jadwalpost"), h.handleClientSchedule},
		},
		{
			{matchPrefix("!jadwalkan"), h.handleJadwalkan},
		},
		{
			{matchPrefix("!detail "), h.handleDetail},
		},
		{
			{matchPrefix("!ingatkan"), h.handleIngatkan},
		},
		{
			{matchExact("!quote"), h.handleQuote},
			{matchPrefix("!quote unsub"), h.handleQuoteUnsubscribe},
			{matchPrefix("!quote sub"), h.handleQuoteSubscribe},
		},
	}
	return h
}

// HandleMessage routes one inbound message. It runs synchronously: the
// message is fully handled before the caller dispatches the next one.
func (h *MessageHandler) HandleMessage(ctx context.Context, msg whatsapp.Message) {
	msg.Body = strings.TrimSpace(msg.Body)
	if msg.Body == "" {
		return
	}

	for _, group := range h.groups {
		for _, r := range group {
			if r.match(msg.Body) {
				r.handle(ctx, msg)
				break
			}
		}
	}
}

func matchExact(command string) func(string) bool {
	return func(body string) bool { return body == command }
}

func matchPrefix(command string) func(string) bool {
	return func(body string) bool { return strings.HasPrefix(body, command) }
}

func matchExactFold(command string) func(string) bool {
	return func(body string) bool { return strings.EqualFold(body, command) }
}

func matchPrefixFold(command string) func(string) bool {
	return func(body string) bool {
		return len(body) >= len(command) && strings.EqualFold(body[:len(command)], command)
	}
}

func (h *MessageHandler) handleHelp(ctx context.Context, msg whatsapp.Message) {
	h.reply(ctx, msg, whatsapp.HelpText())
}

func (h *MessageHandler) handleTagAll(ctx context.Context, msg whatsapp.Message) {
	if !msg.IsGroup {
		h.reply(ctx, msg, groupOnlyReply)
		return
	}
	if !h.allowedGroups[msg.ChatID] {
		h.reply(ctx, msg, "You do not have permission to use this command in this group.")
		return
	}

	var text strings.Builder
	for _, userID := range h.tagAllUserIDs {
		phone, _, _ := strings.Cut(userID, "@")
		text.WriteString("@" + phone + " ")
	}

	if err := h.transport.SendMentions(ctx, msg.ChatID, strings.TrimSpace(text.String()), h.tagAllUserIDs); err != nil {
		log.Printf("Failed to send tag-all message: %v", err)
		h.reply(ctx, msg, "An error occurred while sending the tag-all message.")
		return
	}
	log.Println("Tag all message sent successfully!")
}

func (h *MessageHandler) handleGroupID(ctx context.Context, msg whatsapp.Message) {
	if !msg.IsGroup {
		h.reply(ctx, msg, groupOnlyReply)
		return
	}
	h.reply(ctx, msg, fmt.Sprintf("Group ID: %s", msg.ChatID))
}

func (h *MessageHandler) handleUserID(ctx context.Context, msg whatsapp.Message) {
	if !msg.IsGroup {
		h.reply(ctx, msg, fmt.Sprintf("Your User ID: %s", msg.Sender))
		return
	}

	// Group replies always carry the "User IDs:" header, with or
	// without mentions.
	var ids []string
	for _, mention := range msg.Mentions {
		phone, _, _ := strings.Cut(mention, "@")
		ids = append(ids, "@"+phone)
	}

	body := strings.Join(ids, "\n")
	if len(ids) == 0 {
		body = fmt.Sprintf("Your User ID: %s", msg.Sender)
	}
	h.reply(ctx, msg, "User IDs:\n"+body)
}

func (h *MessageHandler) stickerHandler(name string) handlerFunc {
	return func(ctx context.Context, msg whatsapp.Message) {
		path, err := wa.StickerPath(h.stickerDir, name)
		if err != nil {
			log.Printf("Sticker %q not available: %v", name, err)
			return
		}
		if err := h.transport.SendSticker(ctx, msg.ChatID, path); err != nil {
			log.Printf("Failed to send sticker %q: %v", name, err)
			return
		}
		log.Printf("Sticker %q sent successfully!", name)
	}
}

func (h *MessageHandler) handleEvents(ctx context.Context, msg whatsapp.Message) {
	query := strings.TrimSpace(strings.TrimPrefix(msg.Body, "!events"))

	if query != "" {
		detail, err := h.services.Events.Search(ctx, query)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			h.reply(ctx, msg, "Event tidak ditemukan.")
		case err != nil:
			log.Printf("Error fetching events: %v", err)
			h.reply(ctx, msg, "There was an error retrieving events. Please try again later.")
		default:
			h.reply(ctx, msg, formatEventDetail(detail))
		}
		return
	}

	events, err := h.services.Events.Upcoming(ctx)
	if err != nil {
		log.Printf("Error fetching events: %v", err)
		h.reply(ctx, msg, "There was an error retrieving events. Please try again later.")
		return
	}
	if len(events) == 0 {
		h.reply(ctx, msg, "Tidak ada event mendatang.")
		return
	}

	var lines []string
	for _, event := range events {
		lines = append(lines, fmt.Sprintf("• %s - %s - %s", event.Summary, event.StartDate, event.EndDate))
	}
	h.reply(ctx, msg, "*UPCOMING EVENTS:*\n\n"+strings.Join(lines, "\n"))
}

func (h *MessageHandler) handleJadwalpostGuide(ctx context.Context, msg whatsapp.Message) {
	h.reply(ctx, msg, whatsapp.JadwalpostGuide())
}

func (h *MessageHandler) handleClientList(ctx context.Context, msg whatsapp.Message) {
	clients, err := h.services.Content.ListClients(ctx)
	if err != nil {
		log.Printf("Error fetching client list: %v", err)
		h.reply(ctx, msg, "Terjadi kesalahan saat mengambil daftar klien.")
		return
	}
	if len(clients) == 0 {
		h.reply(ctx, msg, "Tidak ada klien yang terdaftar dalam Content Planning.")
		return
	}

	var text strings.Builder
	text.WriteString("*List Klien Content Planning:*\n\n")
	for i, client := range clients {
		fmt.Fprintf(&text, "%d. %s\n", i+1, client)
	}
	h.reply(ctx, msg, strings.TrimSpace(text.String()))
}

func (h *MessageHandler) handleClientSchedule(ctx context.Context, msg whatsapp.Message) {
	cmd := whatsapp.Parse(msg.Body)
	if len(cmd.Args) == 0 {
		h.reply(ctx, msg, whatsapp.JadwalpostGuide())
		return
	}

	client := strings.ToLower(cmd.Args[0])
	last := len(cmd.Args) > 1 && strings.EqualFold(cmd.Args[1], "last")

	rows, err := h.services.Content.Schedule(ctx, client, last)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		h.reply(ctx, msg, fmt.Sprintf("Klien %q tidak ditemukan. Gunakan *!jadwalpost klien* untuk melihat daftar klien.", client))
		return
	case err != nil:
		log.Printf("Error processing client schedule: %v", err)
		h.reply(ctx, msg, "Terjadi kesalahan saat memproses perintah. Pastikan nama klien atau sheet sesuai.")
		return
	}

	if len(rows) == 0 {
		h.reply(ctx, msg, fmt.Sprintf("Tidak ada jadwal yang ditemukan untuk klien %q.", client))
		return
	}

	heading := "MENDATANG"
	if last {
		heading = "TERAKHIR"
	}

	var text strings.Builder
	fmt.Fprintf(&text, "*JADWAL POSTINGAN %s (%s):*\n", heading, strings.ToUpper(client))
	for i, row := range rows {
		status := row.Status
		if status == "" {
			status = "Belum Ditentukan"
		}
		fmt.Fprintf(&text, "\n%d. [%s] - %s\nTanggal: %s\nJenis: %s\nTipe: %s\nStatus: %s\n",
			i+1, row.Code, row.Title, row.Deadline.Format("Monday, January 2, 2006"),
			row.Format, row.Type, status)
	}
	h.reply(ctx, msg, strings.TrimSpace(text.String()))
}

func (h *MessageHandler) handleJadwalkan(ctx context.Context, msg whatsapp.Message) {
	usage := "Format perintah salah. Gunakan: !jadwalkan [sheet name] [code] [tanggal] [waktu], contoh:\n\n!jadwalkan buodeh-1 VD-S10-P1 11/01/2025 12:00-13:00"

	cmd := whatsapp.Parse(msg.Body)
	if len(cmd.Args) < 4 {
		h.reply(ctx, msg, usage)
		return
	}

	link, err := h.services.Events.SchedulePost(ctx, cmd.Args[0], cmd.Args[1], cmd.Args[2], cmd.Args[3])
	switch {
	case errors.Is(err, apperr.ErrFormat):
		h.reply(ctx, msg, usage)
		return
	case err != nil:
		log.Printf("Error scheduling event: %v", err)
		h.reply(ctx, msg, "Terjadi kesalahan saat menjadwalkan acara. Pastikan format sudah benar dan coba lagi.")
		return
	}

	h.reply(ctx, msg, fmt.Sprintf("Event berhasil dijadwalkan di Google Calendar!\n\nLink: %s", link))
}

func (h *MessageHandler) handleDetail(ctx context.Context, msg whatsapp.Message) {
	cmd := whatsapp.Parse(msg.Body)
	if len(cmd.Args) < 2 {
		h.reply(ctx, msg, "Format perintah salah. Gunakan: !detail [sheet name] [code]")
		return
	}

	client := cmd.Args[0]
	code := strings.ToUpper(cmd.Args[1])

	detail, err := h.services.Content.PostDetail(ctx, client, code)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		h.reply(ctx, msg, fmt.Sprintf("Detail untuk kode %q tidak ditemukan di sheet %q.", code, client))
		return
	case err != nil:
		log.Printf("Error fetching post details: %v", err)
		h.reply(ctx, msg, "Terjadi kesalahan saat mengambil detail postingan.")
		return
	}

	h.reply(ctx, msg, formatPostDetail(client, code, detail))
}

func (h *MessageHandler) handleIngatkan(ctx context.Context, msg whatsapp.Message) {
	reminder, err := service.ParseTimedReminder(msg.Body, msg.ChatID, h.loc, h.now())
	if err != nil {
		h.reply(ctx, msg, whatsapp.IngatkanUsage())
		return
	}

	h.services.OneShot.Schedule(reminder)
	h.reply(ctx, msg, fmt.Sprintf("✅ Pengingat *%s* dijadwalkan untuk %s.",
		reminder.Title, reminder.FireAt.Format(google.DisplayDateLayout)))
}

func (h *MessageHandler) handleQuote(ctx context.Context, msg whatsapp.Message) {
	quote, err := h.services.Quotes.RandomQuote()
	if err != nil {
		log.Printf("Error fetching quote: %v", err)
		h.reply(ctx, msg, "Terjadi kesalahan saat mengambil quote.")
		return
	}
	if quote == nil {
		h.reply(ctx, msg, "Belum ada quote tersimpan.")
		return
	}
	h.reply(ctx, msg, service.FormatQuote(quote))
}

func (h *MessageHandler) handleQuoteSubscribe(ctx context.Context, msg whatsapp.Message) {
	added, err := h.services.Quotes.Subscribe(subscriberKind(msg), msg.ChatID)
	if err != nil {
		log.Printf("Error subscribing %s: %v", msg.ChatID, err)
		h.reply(ctx, msg, "Terjadi kesalahan saat menyimpan langganan.")
		return
	}
	if !added {
		h.reply(ctx, msg, "Sudah berlangganan quote harian.")
		return
	}
	h.reply(ctx, msg, "✅ Berlangganan quote harian!")
}

func (h *MessageHandler) handleQuoteUnsubscribe(ctx context.Context, msg whatsapp.Message) {
	if err := h.services.Quotes.Unsubscribe(subscriberKind(msg), msg.ChatID); err != nil {
		log.Printf("Error unsubscribing %s: %v", msg.ChatID, err)
		h.reply(ctx, msg, "Terjadi kesalahan saat menyimpan langganan.")
		return
	}
	h.reply(ctx, msg, "Berhenti berlangganan quote harian.")
}

func (h *MessageHandler) reply(ctx context.Context, msg whatsapp.Message, text string) {
	if err := h.transport.SendText(ctx, msg.ChatID, text); err != nil {
		log.Printf("Failed to reply to %s: %v", msg.ChatID, err)
	}
}

func subscriberKind(msg whatsapp.Message) string {
	if msg.IsGroup {
		return store.KindGroup
	}
	return store.KindUser
}

func formatEventDetail(detail *entity.EventDetail) string {
	description := detail.Description
	if description == "" {
		description = "No description available"
	}
	location := detail.Location
	if location == "" {
		location = "No location available"
	}

	return fmt.Sprintf("*EVENT DETAILS*\n\n*Title*: %s\n*Description*: %s\n*Start*: %s\n*End*: %s\n*Location*: %s",
		detail.Summary, description, detail.Start, detail.End, location)
}

func formatPostDetail(client, code string, detail *entity.PostDetail) string {
	deadline := "Tidak tersedia"
	if detail.HasDeadline {
		deadline = detail.Deadline.Format("Monday, January 2, 2006")
	}

	return fmt.Sprintf(`DETAIL [%s] (Sheet: %s):

*Title:*
%s

*Deadline:*
%s

*Format:*
%s

*Type:*
%s

*Copy:*
%s

*Reference:*
%s

*Caption:*
%s

*Status:*
%s`,
		code, client,
		orUnavailable(detail.Title),
		deadline,
		orUnavailable(detail.Format),
		orUnavailable(detail.Type),
		orUnavailable(detail.Copy),
		orUnavailable(detail.Reference),
		orUnavailable(detail.Caption),
		orUnavailable(detail.Status))
}

func orUnavailable(value string) string {
	if value == "" {
		return "Tidak tersedia"
	}
	return value
}
