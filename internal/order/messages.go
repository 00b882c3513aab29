package order

import (
	"fmt"
	"strings"

	"warung-service/internal/model"
)

// newOrderAdminMessage is the alert sent to the store operator when a
// checkout comes in.
func newOrderAdminMessage(o *model.Order, items []model.OrderItem) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s x%d", it.Nama, it.Qty))
	}

	return fmt.Sprintf("🔔 *ORDER MASUK BOS!*\n\n"+
		"Pemesan: %s\n"+
		"No HP: %s\n"+
		"Produk: %s\n"+
		"Total: Rp %s\n\n"+
		"Segera cek Dashboard!",
		o.NamaPelanggan, o.NoHp, strings.Join(lines, ", "), FormatRupiah(o.Total))
}

// newOrderCustomerMessage acknowledges the checkout to the customer.
func newOrderCustomerMessage(o *model.Order) string {
	return fmt.Sprintf("Halo Kak %s! 👋\n"+
		"Pesanan kakak sdh kami terima.\n"+
		"Status: *PENDING* (Menunggu Konfirmasi Admin)\n\n"+
		"Kami akan segera mengabari lagi. Terima kasih!", o.NamaPelanggan)
}

// StatusCustomerMessage is the notification paired with a status
// change. PENDING has no message: customers were already acknowledged
// at checkout.
func StatusCustomerMessage(o *model.Order) string {
	switch o.Status {
	case model.OrderProcessed:
		return fmt.Sprintf("Hore! Pesanan Kak %s sedang *DIPROSES* (Dibuat/Dikemas) 👩‍🍳.\nMohon ditunggu ya!", o.NamaPelanggan)
	case model.OrderCompleted:
		return fmt.Sprintf("Pesanan Kak %s sudah *SELESAI/DIKIRIM* 🚀.\nTerima kasih sudah belanja!", o.NamaPelanggan)
	case model.OrderCancelled:
		return fmt.Sprintf("Maaf, pesanan Kak %s *DIBATALKAN* oleh admin.\nSilakan hubungi kami untuk info lebih lanjut.", o.NamaPelanggan)
	}
	return ""
}

// FormatRupiah renders an amount with Indonesian thousand separators,
// e.g. 75000 -> "75.000".
func FormatRupiah(amount int) string {
	s := fmt.Sprintf("%d", amount)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
