// Package document renders the appointment confirmation PDF.
package document

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/iliyamo/exam-appointment-booking/internal/model"
)

// Renderer draws a one-page A4 confirmation: optional logo, title, the
// appointment details, the venue and a QR code pointing to the venue map.
type Renderer struct {
	VenueLabel string
	MapURL     string
	LogoPath   string // skipped when empty or unreadable
}

// NewRenderer returns a Renderer for the given venue.
func NewRenderer(venue, mapURL, logoPath string) *Renderer {
	return &Renderer{VenueLabel: venue, MapURL: mapURL, LogoPath: logoPath}
}

// Render returns the PDF bytes for a.  The core fonts cover Latin-1
// only; characters outside it are replaced when drawn.
func (r *Renderer) Render(a *model.Appointment) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 15, 20)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	y := 15.0
	if r.LogoPath != "" {
		if _, err := os.Stat(r.LogoPath); err == nil {
			// 100x25 mm, centred.
			pdf.ImageOptions(r.LogoPath, (210-100)/2, y, 100, 25, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
			y += 35
		}
	}

	pdf.SetY(y)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 12, tr("JLPT - Confirmation de rendez-vous"), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	for _, line := range [][2]string{
		{"Nom", a.FullName},
		{"Email", a.Email},
		{"Téléphone", a.Phone},
		{"Date", a.Date},
		{"Heure", a.Time},
		{"Niveau JLPT", a.Level},
	} {
		pdf.CellFormat(0, 10, tr(line[0]+" : "+line[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
	pdf.CellFormat(0, 10, tr("Lieu : "+r.VenueLabel), "", 1, "L", false, 0, "")

	if r.MapURL != "" {
		png, err := qrcode.Encode(r.MapURL, qrcode.Medium, 256)
		if err != nil {
			return nil, fmt.Errorf("encode qr: %w", err)
		}
		pdf.Ln(6)
		pdf.CellFormat(0, 10, tr("Scannez pour la localisation :"), "", 1, "L", false, 0, "")
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("venue-qr", opts, bytes.NewReader(png))
		pdf.ImageOptions("venue-qr", 20, pdf.GetY()+2, 50, 50, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
