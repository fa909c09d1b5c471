package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// SlipData carries the fields printed on a laundry slip. The QR on the slip
// encodes RedeemURL; a camera scan opens the public redemption endpoint and
// marks the form taken out once it is verified.
type SlipData struct {
	FormCode       string
	StudentName    string
	StudentCode    string
	ItemCount      int
	ItemList       string
	Status         string
	SubmissionDate time.Time
	RedeemURL      string
}

// SlipRenderer produces printable laundry slips.
type SlipRenderer struct{}

// NewSlipRenderer builds a slip renderer.
func NewSlipRenderer() *SlipRenderer {
	return &SlipRenderer{}
}

// Render creates the PDF slip for a laundry form.
func (r *SlipRenderer) Render(data SlipData) ([]byte, error) {
	if data.FormCode == "" {
		return nil, fmt.Errorf("slip requires a form code")
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 14, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "LAUNDRY SLIP", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, data.FormCode, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	rows := [][2]string{
		{"Student", data.StudentName},
		{"Student code", data.StudentCode},
		{"Items", fmt.Sprintf("%d", data.ItemCount)},
		{"Item list", data.ItemList},
		{"Status", data.Status},
		{"Submitted", data.SubmissionDate.Format("2006-01-02 15:04")},
	}

	for _, row := range rows {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(35, 7, row[0], "1", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, row[1], "1", 1, "", false, 0, "")
	}

	if data.RedeemURL != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 6, "Scan or open to collect this laundry:", "", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "U", 9)
		pdf.CellFormat(0, 6, data.RedeemURL, "", 1, "C", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render slip: %w", err)
	}
	return buf.Bytes(), nil
}
