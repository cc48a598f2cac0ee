package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/leave"
	"github.com/jung-kurt/gofpdf"
)

const dateLayout = "02/01/2006"

// CertificateRenderer renders approved leave requests as A4 certificates.
type CertificateRenderer struct {
	organisation string
	now          func() time.Time
}

func NewCertificateRenderer(organisation string) *CertificateRenderer {
	return &CertificateRenderer{
		organisation: organisation,
		now:          time.Now,
	}
}

// Render implements leave.DocumentRenderer.
func (c *CertificateRenderer) Render(data leave.DocumentData) ([]byte, error) {
	if data.State != leave.StateApproved {
		return nil, leave.ErrDocumentRequiresApproval
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(fmt.Sprintf("Titre de congé n° %d", data.RequestID)), false)
	pdf.SetCreator(tr(c.organisation), false)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(c.organisation), "", 1, "C", false, 0, "")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr("TITRE DE CONGÉ"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Demande n° %d du %s", data.RequestID, data.SubmittedAt.Format(dateLayout))), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	// Requester
	section(pdf, tr, "Agent")
	row(pdf, tr, "Nom complet", data.RequesterName)
	row(pdf, tr, "Matricule", deref(data.Matricule))
	row(pdf, tr, "Fonction", deref(data.FunctionName))
	row(pdf, tr, "Département", deref(data.Department))
	row(pdf, tr, "Direction", deref(data.DirectionName))
	pdf.Ln(4)

	// Leave
	section(pdf, tr, "Congé")
	row(pdf, tr, "Nature", data.Nature)
	if data.Motif != nil && *data.Motif != "" {
		row(pdf, tr, "Motif", *data.Motif)
	}
	row(pdf, tr, "Du", data.StartDate.Format(dateLayout))
	row(pdf, tr, "Au", data.EndDate.Format(dateLayout))
	row(pdf, tr, "Durée", fmt.Sprintf("%d jour(s)", data.Days))
	pdf.Ln(4)

	// Decision
	section(pdf, tr, "Décision")
	row(pdf, tr, "Statut", "Approuvé")
	row(pdf, tr, "Approuvé par", deref(data.ApproverName))
	if data.DecidedAt != nil {
		row(pdf, tr, "Date de décision", data.DecidedAt.Format(dateLayout))
	}

	pdf.Ln(16)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Document généré le %s", c.now().Format(dateLayout+" 15:04"))), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, tr(c.organisation+" - Direction des Ressources Humaines"), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render certificate %d: %w", data.RequestID, err)
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", true, 0, "")
	pdf.Ln(1)
}

func row(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	if value == "" {
		value = "-"
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(50, 7, tr(label), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 7, tr(value), "", "L", false)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
