package services

import (
	"bytes"
	"fmt"

	"coachtickets/internal/domain"
	"coachtickets/internal/domain/models"
	"coachtickets/internal/utils"

	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// DocsService renders the printable e-ticket. Rendering failures are
// the caller's to log; they never affect booking or ticket state.
type DocsService struct {
	RequestID string
}

// BuildTicketPDF produces a single-page A5 e-ticket embedding the
// redemption QR code, returning the bytes and a download filename.
func (s DocsService) BuildTicketPDF(t models.Ticket) ([]byte, string, error) {
	qrPNG, err := qrcode.Encode(t.QRToken, qrcode.Medium, 512)
	if err != nil {
		return nil, "", domain.InternalError{Msg: "qr encode failed", Err: err}
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "COACH E-TICKET")
	pdf.Ln(12)

	pdf.SetDrawColor(180, 180, 180)
	pdf.Line(12, pdf.GetY(), 136, pdf.GetY())
	pdf.Ln(4)

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(34, 6, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(20, 20, 20)
		pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
	}

	row("Ticket", t.TicketID)
	row("Booking", t.BookingRef)
	row("Route", fmt.Sprintf("%s - %s", t.From, t.To))
	row("Date", t.DateKey)
	row("Departure", t.DepartureTime)
	row("Arrival", t.ArrivalTime)
	row("Passenger", t.Passenger)
	row("Price", utils.FormatMoney(t.Price)+" "+t.Currency)

	info := pdf.RegisterImageOptionsReader("qr-"+t.TicketID,
		gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	if info == nil || pdf.Err() {
		return nil, "", domain.InternalError{Msg: "qr embed failed", Err: pdf.Error()}
	}
	pdf.ImageOptions("qr-"+t.TicketID, 46, pdf.GetY()+6, 56, 56, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetY(-24)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 5, "Present this QR code at boarding. Valid once, for the printed travel day.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "pdf render failed", Err: err}
	}

	utils.LogEvent(s.RequestID, "docs", "build_ticket", "ticket_id="+t.TicketID)
	return buf.Bytes(), fmt.Sprintf("ticket-%s.pdf", t.BookingRef), nil
}
