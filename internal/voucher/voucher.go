// Package voucher renders a printable booking confirmation.
package voucher

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/model"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/stats"
)

// Render returns an A4 PDF for b.  Internal notes are never printed.
func Render(b model.BookingWithTour, paid float64) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Booking #%d", b.ID), true)
	pdf.SetAuthor("Omys Sacred Journeys", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Omys Sacred Journeys")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Booking voucher #%d", b.ID))
	pdf.Ln(12)

	tour := "-"
	if b.TourName != nil {
		tour = *b.TourName
	}
	net := stats.NetAmount(b.Booking, b.TourCost)
	rows := [][2]string{
		{"Trip", tour},
		{"Traveller", b.CustomerName},
		{"Email", b.Email},
		{"Mobile", b.MobileNumber},
		{"Travellers", fmt.Sprintf("%d", b.NumberOfPeople.Int())},
		{"Booked on", b.BookingDate.Format("02 Jan 2006")},
		{"Status", b.Status},
		{"Payment status", b.PaymentStatus},
		{"Amount", fmt.Sprintf("%.2f", b.PaymentAmount.Float64())},
		{"Discount", fmt.Sprintf("%.2f", b.DiscountAmount.Float64())},
		{"Net payable", fmt.Sprintf("%.2f", net)},
		{"Received", fmt.Sprintf("%.2f", paid)},
		{"Balance", fmt.Sprintf("%.2f", net-paid)},
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, r := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 8, r[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, tr(r[1]), "1", 1, "L", false, 0, "")
	}

	if b.EmergencyContactName != "" || b.EmergencyContactPhone != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("Emergency contact: %s %s", b.EmergencyContactName, b.EmergencyContactPhone)), "", "L", false)
	}
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Please carry this voucher and a photo ID on the day of departure. "+
		"Cancellations follow the published cancellation policy.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render voucher: %w", err)
	}
	return buf.Bytes(), nil
}
