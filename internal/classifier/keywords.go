package classifier

import "github.com/costwise/costwise/internal/model"

// Static per-category keyword lists, English + Indonesian. Matching is
// substring and case-insensitive against message content plus template name.
// These lists drive billing categorization; changing them changes historical
// cost attribution, so treat edits as a pricing change.
var categoryKeywords = map[model.Category][]string{
	model.CategoryAuthentication: {
		"otp",
		"verification code",
		"verify",
		"verification",
		"kode verifikasi",
		"kode otp",
		"authentication",
		"autentikasi",
		"login code",
		"kode masuk",
		"one-time password",
		"kata sandi",
		"security code",
		"kode keamanan",
		"do not share",
		"jangan bagikan",
	},
	model.CategoryMarketing: {
		"promo",
		"discount",
		"diskon",
		"sale",
		"flash sale",
		"offer",
		"penawaran",
		"limited time",
		"waktu terbatas",
		"buy now",
		"beli sekarang",
		"free shipping",
		"gratis ongkir",
		"cashback",
		"voucher",
		"new arrival",
		"produk baru",
		"special price",
		"harga spesial",
		"exclusive",
		"eksklusif",
	},
	model.CategoryUtility: {
		"order",
		"pesanan",
		"invoice",
		"tagihan",
		"payment",
		"pembayaran",
		"shipping",
		"pengiriman",
		"tracking",
		"lacak",
		"resi",
		"booking",
		"reservasi",
		"receipt",
		"struk",
		"confirmation",
		"konfirmasi",
		"delivery",
		"reminder",
		"pengingat",
	},
	model.CategoryService: {
		"help",
		"bantuan",
		"support",
		"dukungan",
		"question",
		"pertanyaan",
		"complaint",
		"keluhan",
		"thank you",
		"terima kasih",
		"sorry",
		"maaf",
		"issue",
		"kendala",
		"how to",
		"cara",
	},
}

// scoreWeights bias the weighted keyword score toward the categories with
// the strongest billing signal.
var scoreWeights = map[model.Category]float64{
	model.CategoryAuthentication: 3,
	model.CategoryUtility:        1.5,
	model.CategoryMarketing:      1,
	model.CategoryService:        1,
}

// Regex patterns compiled once in New.
const (
	// A 4-8 digit sequence near a code/verification keyword, either order.
	otpPattern = `(?i)(?:code|kode|otp|pin|verification|verifikasi)\D{0,20}\d{4,8}|\d{4,8}\D{0,20}(?:code|kode|otp|verification|verifikasi)`

	// Promotional phrasing: percent-off, flash sale, limited time,
	// buy-X-get-Y, free shipping.
	promoPattern = `(?i)\d{1,3}\s*%\s*(?:off|disc|discount|diskon)|flash\s*sale|limited\s*time|waktu\s*terbatas|buy\s*\d+\s*get\s*\d+|free\s*shipping|gratis\s*ongkir`

	// Transactional phrasing: order/invoice/tracking/booking/payment.
	utilityPattern = `(?i)order\s*#?\w+|invoice|inv[/-]\w+|tracking\s*(?:number|no)|no\.\s*resi|booking\s*(?:id|code)|payment\s*(?:received|confirmed|due)|pembayaran\s*(?:diterima|berhasil|jatuh tempo)`
)
