// Package bot turns inbound WhatsApp webhook events into order and
// mitra operations. Only the configured administrator identities may
// issue commands; everyone else gets silence.
package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"warung-service/internal/model"
	"warung-service/internal/notify"
	"warung-service/internal/order"
	"warung-service/pkg/config"
	"warung-service/prometheus"
)

const helpText = "🤖 *ADMIN BOT*\n\n" +
	"📦 *KELOLA ORDER*\n" +
	"• *!list* - Cek Pending\n" +
	"• *!list proses* - Cek Diproses\n" +
	"• *!list selesai* - Cek Selesai\n" +
	"• *!detail [id]* - Lihat Detail Item\n\n" +
	"⚙️ *AKSI ORDER*\n" +
	"• *!proses [id]* -> Ubah ke PROCESSED\n" +
	"• *!selesai [id]* -> Ubah ke COMPLETED\n" +
	"• *!batal [id]* -> Ubah ke CANCELLED\n\n" +
	"📢 *INFO*\n" +
	"• *!bc [pesan]* - Broadcast ke mitra\n\n" +
	"Contoh: *!proses 20*"

// listKeywords maps the optional !list argument to an order status.
var listKeywords = map[string]model.OrderStatus{
	"pending": model.OrderPending,
	"proses":  model.OrderProcessed,
	"selesai": model.OrderCompleted,
	"batal":   model.OrderCancelled,
}

// Interpreter parses chat messages into commands and executes them.
type Interpreter struct {
	db          *gorm.DB
	orders      *order.Service
	notifier    notify.Notifier
	adminChatID string
	adminIDs    []string
	log         *zap.Logger
}

// NewInterpreter wires the interpreter. The administrator is recognized
// under the phone-derived chat id plus any configured linked-device
// aliases; all of them refer to the same operator.
func NewInterpreter(db *gorm.DB, orders *order.Service, notifier notify.Notifier, cfg *config.WhatsAppConfig, log *zap.Logger) *Interpreter {
	adminIDs := make([]string, 0, 1+len(cfg.AdminLIDs))
	adminChatID := ""
	if id, ok := notify.ChatID(cfg.AdminNumber); ok {
		adminChatID = id
		adminIDs = append(adminIDs, id)
	}
	adminIDs = append(adminIDs, cfg.AdminLIDs...)

	return &Interpreter{
		db:          db,
		orders:      orders,
		notifier:    notifier,
		adminChatID: adminChatID,
		adminIDs:    adminIDs,
		log:         log,
	}
}

func (i *Interpreter) isAdmin(sender string) bool {
	for _, id := range i.adminIDs {
		if sender == id {
			return true
		}
	}
	return false
}

// Process handles one webhook event. Business-rule misses (unknown
// command, unauthorized sender, missing order) resolve to nil; only
// unexpected storage failures surface as errors.
func (i *Interpreter) Process(ev Event) error {
	msg, ok := Normalize(ev)
	if !ok {
		return nil
	}

	admin := i.isAdmin(msg.From)

	// Self-originated messages are echoes of our own sends, except when
	// the admin commands the bot from a linked device: those arrive
	// flagged fromMe and must still be processed.
	if msg.FromMe && !admin {
		return nil
	}
	if !admin {
		i.log.Debug("Ignoring message from non-admin sender", zap.String("sender", msg.From))
		return nil
	}

	tokens := strings.Fields(strings.TrimSpace(msg.Body))
	if len(tokens) == 0 {
		return nil
	}

	kind := parseCommand(tokens[0])
	args := tokens[1:]

	if kind != cmdUnknown {
		prometheus.RecordWebhookCommand(kind.String())
		i.log.Info("Processing chatbot command",
			zap.String("command", kind.String()),
			zap.String("sender", msg.From))
	}

	switch kind {
	case cmdDaftar:
		return i.handleDaftar(msg.From, args)
	case cmdHelp:
		i.notifier.Send(msg.From, helpText)
		return nil
	case cmdList:
		return i.handleList(msg.From, args)
	case cmdDetail:
		return i.handleDetail(msg.From, args)
	case cmdProses:
		return i.handleStatusUpdate(msg.From, args, model.OrderProcessed, "!proses")
	case cmdSelesai:
		return i.handleStatusUpdate(msg.From, args, model.OrderCompleted, "!selesai")
	case cmdBatal:
		return i.handleStatusUpdate(msg.From, args, model.OrderCancelled, "!batal")
	case cmdBroadcast:
		return i.handleBroadcast(msg.From, args)
	case cmdUnknown:
		// Ordinary chatter, not a command. Stay silent.
		return nil
	}
	return nil
}

// handleDaftar registers the sender as a mitra. Registering twice
// replies with the existing record instead of creating a duplicate.
func (i *Interpreter) handleDaftar(sender string, args []string) error {
	content := strings.TrimSpace(strings.Join(args, " "))
	if content == "" {
		i.notifier.Send(sender, "👋 Halo! Untuk mendaftar ketik:\n*!daftar Nama Toko#Alamat*\n\nContoh:\n*!daftar Toko Berkah#Jl. Kenangan No. 5*")
		return nil
	}

	var existing model.Mitra
	err := i.db.Where("no_hp = ?", sender).First(&existing).Error
	if err == nil {
		i.notifier.Send(sender, fmt.Sprintf("✅ Nomor sudah terdaftar sebagai: *%s*", existing.Nama))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	nama, alamat := splitDaftar(content)
	mitra := model.Mitra{
		Nama:       nama,
		NoHp:       sender,
		Alamat:     alamat,
		PersenBagi: model.DefaultPersenBagi,
	}
	if err := i.db.Create(&mitra).Error; err != nil {
		return err
	}

	i.notifier.Send(sender, fmt.Sprintf("🎉 Pendaftaran BERHASIL!\n\nNama: *%s*\nAlamat: *%s*\n\nAdmin akan memverifikasi data Anda.", mitra.Nama, mitra.Alamat))
	i.notifier.Send(i.adminChatID, fmt.Sprintf("🔔 *PENDAFTARAN BARU*\nNama: %s\nHP: %s", mitra.Nama, sender))
	return nil
}

// splitDaftar parses "Nama Toko#Alamat" with defaults when either part
// is missing.
func splitDaftar(content string) (nama, alamat string) {
	nama, alamat = content, "-"
	if idx := strings.Index(content, "#"); idx >= 0 {
		nama, alamat = content[:idx], content[idx+1:]
	}
	nama = strings.TrimSpace(nama)
	alamat = strings.TrimSpace(alamat)
	if nama == "" {
		nama = "Mitra"
	}
	if alamat == "" {
		alamat = "-"
	}
	return nama, alamat
}

func (i *Interpreter) handleList(sender string, args []string) error {
	status := model.OrderPending
	if len(args) > 0 {
		if mapped, ok := listKeywords[strings.ToLower(args[0])]; ok {
			status = mapped
		}
	}

	orders, err := i.orders.List(&status, 10)
	if err != nil {
		return err
	}

	if len(orders) == 0 {
		i.notifier.Send(sender, fmt.Sprintf("📭 Tidak ada pesanan dengan status *%s*.", status))
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📝 *LIST ORDER: %s* (Max 10)\n", status)
	for _, o := range orders {
		b.WriteString("------------------------------\n")
		fmt.Fprintf(&b, "🆔 *#%d*\n", o.ID)
		fmt.Fprintf(&b, "👤 %s (%s)\n", o.NamaPelanggan, o.NoHp)
		fmt.Fprintf(&b, "💰 Rp %s\n", order.FormatRupiah(o.Total))
		fmt.Fprintf(&b, "📅 %s\n", o.CreatedAt.Format("02/01/2006 15:04"))
	}
	b.WriteString("\n_Ketik !detail [id] untuk rincian._")

	i.notifier.Send(sender, b.String())
	return nil
}

func (i *Interpreter) handleDetail(sender string, args []string) error {
	if len(args) == 0 {
		i.notifier.Send(sender, "⚠️ Masukkan ID. Contoh: *!detail 20*")
		return nil
	}

	id, ok := parseOrderID(args[0])
	if !ok {
		i.notifier.Send(sender, fmt.Sprintf("❌ Order #%s tidak ditemukan.", args[0]))
		return nil
	}

	o, err := i.orders.Get(id)
	if errors.Is(err, order.ErrNotFound) {
		i.notifier.Send(sender, fmt.Sprintf("❌ Order #%d tidak ditemukan.", id))
		return nil
	}
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 *DETAIL ORDER #%d*\n\n", o.ID)
	fmt.Fprintf(&b, "👤 *Pelanggan*: %s\n", o.NamaPelanggan)
	fmt.Fprintf(&b, "📞 *HP*: %s\n", o.NoHp)
	fmt.Fprintf(&b, "📍 *Alamat*: %s\n", o.Alamat)
	fmt.Fprintf(&b, "🏷️ *Status*: %s\n", o.Status)
	fmt.Fprintf(&b, "📅 *Waktu*: %s\n", o.CreatedAt.Format("02/01/2006 15:04"))
	b.WriteString("------------------------------\n📦 *ITEMS*:\n")
	for idx, it := range o.LineItems() {
		fmt.Fprintf(&b, "%d. %s x%d (@Rp %s)\n", idx+1, it.Nama, it.Qty, order.FormatRupiah(it.Harga))
	}
	b.WriteString("------------------------------\n")
	fmt.Fprintf(&b, "💰 *TOTAL*: Rp %s\n", order.FormatRupiah(o.Total))

	i.notifier.Send(sender, b.String())
	return nil
}

// handleStatusUpdate maps !proses/!selesai/!batal onto the lifecycle
// engine. The engine notifies the customer; the admin gets a short
// confirmation here.
func (i *Interpreter) handleStatusUpdate(sender string, args []string, status model.OrderStatus, cmd string) error {
	if len(args) == 0 {
		i.notifier.Send(sender, fmt.Sprintf("⚠️ Masukkan ID. Contoh: *%s 20*", cmd))
		return nil
	}

	id, ok := parseOrderID(args[0])
	if !ok {
		i.notifier.Send(sender, fmt.Sprintf("❌ Order #%s tidak ditemukan.", args[0]))
		return nil
	}

	o, err := i.orders.SetStatus(id, status)
	if errors.Is(err, order.ErrNotFound) {
		i.notifier.Send(sender, fmt.Sprintf("❌ Order #%d tidak ditemukan.", id))
		return nil
	}
	if err != nil {
		return err
	}

	i.notifier.Send(sender, fmt.Sprintf("✅ Order #%d -> %s.", o.ID, o.Status))
	return nil
}

func (i *Interpreter) handleBroadcast(sender string, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		i.notifier.Send(sender, "⚠️ Ketik: !bc [pesan]")
		return nil
	}

	var mitras []model.Mitra
	if err := i.db.Select("no_hp").Find(&mitras).Error; err != nil {
		return err
	}

	i.notifier.Send(sender, fmt.Sprintf("⏳ Mengirim ke %d mitra...", len(mitras)))
	for _, m := range mitras {
		i.notifier.Send(m.NoHp, "📢 *INFO*\n\n"+text)
		prometheus.RecordBroadcast()
	}
	i.notifier.Send(sender, fmt.Sprintf("✅ Selesai. Terkirim ke %d mitra.", len(mitras)))
	return nil
}

// parseOrderID parses a numeric id argument. Unparsable ids are
// reported as not found, never as an error.
func parseOrderID(arg string) (uint, bool) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
