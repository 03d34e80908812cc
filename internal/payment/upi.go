// Package payment builds the UPI payment instructions returned with a new
// booking.  No gateway is involved: the customer pays through any UPI app and
// an admin later verifies the transfer.
package payment

import (
	"net/url"
	"strconv"
	"strings"
)

// Config controls the fixed parts of every payment link.
type Config struct {
	QRBaseURL string // third-party QR renderer, e.g. https://api.qrserver.com/v1/create-qr-code/
	QRSize    string // "250x250"
	Note      string // transaction note shown in the payer's app
	Currency  string // ISO code, INR for UPI
}

// Instructions is what the customer needs to pay for one booking.
type Instructions struct {
	Link      string
	QRCodeURL string
}

// Builder turns a payee and amount into Instructions.
type Builder struct {
	cfg Config
}

// NewBuilder fills in defaults for empty fields.
func NewBuilder(cfg Config) *Builder {
	if cfg.QRBaseURL == "" {
		cfg.QRBaseURL = "https://api.qrserver.com/v1/create-qr-code/"
	}
	if cfg.QRSize == "" {
		cfg.QRSize = "250x250"
	}
	if cfg.Note == "" {
		cfg.Note = "Ground Booking"
	}
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	return &Builder{cfg: cfg}
}

// Build returns the deep link and QR image URL for paying amount to upiID.
func (b *Builder) Build(upiID, payeeName string, amount float64) Instructions {
	link := b.Link(upiID, payeeName, amount)
	return Instructions{Link: link, QRCodeURL: b.QRCodeURL(link)}
}

// Link renders upi://pay?pa=..&pn=..&am=..&cu=..&tn=.. with parameters in the
// order UPI apps document.
func (b *Builder) Link(upiID, payeeName string, amount float64) string {
	var sb strings.Builder
	sb.WriteString("upi://pay?pa=")
	sb.WriteString(escape(upiID))
	sb.WriteString("&pn=")
	sb.WriteString(escape(payeeName))
	sb.WriteString("&am=")
	sb.WriteString(FormatAmount(amount))
	sb.WriteString("&cu=")
	sb.WriteString(escape(b.cfg.Currency))
	sb.WriteString("&tn=")
	sb.WriteString(escape(b.cfg.Note))
	return sb.String()
}

// QRCodeURL points the renderer at the URL-encoded link.
func (b *Builder) QRCodeURL(link string) string {
	sep := "?"
	if strings.Contains(b.cfg.QRBaseURL, "?") {
		sep = "&"
	}
	return b.cfg.QRBaseURL + sep + "size=" + url.QueryEscape(b.cfg.QRSize) + "&data=" + url.QueryEscape(link)
}

// FormatAmount prints whole rupees without decimals and anything else with
// exactly two.
func FormatAmount(amount float64) string {
	if amount == float64(int64(amount)) {
		return strconv.FormatInt(int64(amount), 10)
	}
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// escape query-escapes a value but keeps '@' readable and encodes spaces as
// %20, which is what UPI handles and apps expect.
func escape(s string) string {
	e := url.QueryEscape(s)
	e = strings.ReplaceAll(e, "+", "%20")
	return strings.ReplaceAll(e, "%40", "@")
}
