package booking

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"homeserve/models"
	"homeserve/services/apperr"
	"homeserve/services/notification"
	"homeserve/utils"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// invoiceData is everything printed on an invoice.
type invoiceData struct {
	Booking    models.Booking
	ClientName string
	ClientMail string
	WorkerName string
	Currency   string
	IssuedAt   time.Time
}

func money(currency string, amount float64) string {
	return fmt.Sprintf("%s %.2f", strings.ToUpper(currency), amount)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// drawInvoice lays out a one-page A4 invoice. Text goes through the cp1252
// translator since the core fonts are not UTF-8.
func drawInvoice(d invoiceData) *fpdf.Fpdf {
	b := d.Booking
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Invoice "+b.ID, true)
	pdf.SetAuthor("HomeServe", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, "HomeServe")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr("Invoice "+b.ID))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Issued "+d.IssuedAt.Format("2 Jan 2006"))
	pdf.Ln(12)

	rows := [][2]string{
		{"Client", d.ClientName},
		{"Email", d.ClientMail},
		{"Worker", d.WorkerName},
		{"Service", strings.ReplaceAll(b.ServiceCategory, "_", " ")},
		{"Address", b.Address},
		{"Date", b.Date},
		{"Time", b.StartTime + " - " + b.EndTime},
	}
	for _, r := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(40, 7, r[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, tr(r[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	hours := float64(b.End-b.Start) / 60
	pdf.SetFillColor(235, 235, 235)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(90, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Hours", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Rate", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	desc := b.Description
	if desc == "" {
		desc = "Home service visit"
	}
	pdf.CellFormat(90, 8, tr(truncate(desc, 45)), "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", hours), "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, money(d.Currency, b.HourlyRate), "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, money(d.Currency, b.Amount), "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(155, 9, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 9, money(d.Currency, b.Amount), "1", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Payment status: "+b.PaymentStatus)
	return pdf
}

func renderInvoice(d invoiceData) ([]byte, error) {
	var buf bytes.Buffer
	if err := drawInvoice(d).Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *DefaultBookingService) invoiceFor(ctx context.Context, b *models.Booking) (invoiceData, error) {
	d := invoiceData{Booking: *b, Currency: s.Currency, IssuedAt: s.now()}
	if b.CompletedAt != nil {
		d.IssuedAt = *b.CompletedAt
	}
	u, err := s.Users.GetByID(ctx, b.UserID)
	if err != nil {
		return d, fmt.Errorf("invoice client lookup: %w", err)
	}
	d.ClientName, d.ClientMail = u.Name, u.Email
	if w, err := s.Workers.GetByID(ctx, b.WorkerID); err == nil {
		d.WorkerName = w.Name
	} else {
		d.WorkerName = "HomeServe worker"
	}
	return d, nil
}

// Invoice renders the PDF for a completed booking owned by the caller.
func (s *DefaultBookingService) Invoice(ctx context.Context, role, accountID, bookingID string) ([]byte, error) {
	var (
		b   *models.Booking
		err error
	)
	if role == utils.RoleWorker {
		b, err = s.getForWorker(ctx, accountID, bookingID)
	} else {
		b, err = s.getForUser(ctx, accountID, bookingID)
	}
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingCompleted {
		return nil, apperr.Conflict("invoice_unavailable", "invoices are issued for completed bookings only")
	}
	d, err := s.invoiceFor(ctx, b)
	if err != nil {
		return nil, err
	}
	return renderInvoice(d)
}

// emailInvoice sends the invoice to the client. Failures are logged.
func (s *DefaultBookingService) emailInvoice(ctx context.Context, b *models.Booking) {
	logger := utils.GetLogger()
	d, err := s.invoiceFor(ctx, b)
	if err != nil {
		logger.Warn("invoice email skipped", zap.String("bookingId", b.ID), zap.Error(err))
		return
	}
	pdf, err := renderInvoice(d)
	if err != nil {
		logger.Error("invoice render failed", zap.String("bookingId", b.ID), zap.Error(err))
		return
	}
	msg := notification.Email{
		To:      d.ClientMail,
		Subject: "Your HomeServe invoice",
		Body: fmt.Sprintf("<p>Hi %s,</p><p>Thanks for booking with HomeServe. Your invoice for %s on %s is attached.</p>",
			html.EscapeString(d.ClientName), money(d.Currency, b.Amount), html.EscapeString(b.Date)),
		Attachments: []notification.Attachment{{Filename: "invoice-" + b.ID + ".pdf", Data: pdf}},
	}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		logger.Error("invoice email failed", zap.String("bookingId", b.ID), zap.Error(err))
	}
}
