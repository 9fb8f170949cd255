package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	"schoolms_backend/internals/features/finance/fee_collections/model"
	helper "schoolms_backend/internals/helpers"
)

// ReceiptHeader is printed above the fee lines.
type ReceiptHeader struct {
	SchoolName string
	Currency   string
}

// RenderReceipt writes a one-page A4 receipt for a fee. Student, User and
// Class should be preloaded; missing relations print as "-".
func RenderReceipt(m model.FeeCollectionModel, h ReceiptHeader) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Fee receipt", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, orDash(h.SchoolName), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, "Fee Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	student, admission, class := "-", "-", "-"
	if s := m.Student; s != nil {
		admission = s.StudentAdmissionNo
		if s.User != nil {
			student = s.User.Name
		}
		if s.Class != nil {
			class = s.Class.Label()
		}
	}
	period := fmt.Sprintf("%d", m.FeeCollectionYear)
	if m.FeeCollectionMonth != nil {
		period = fmt.Sprintf("%02d/%d", *m.FeeCollectionMonth, m.FeeCollectionYear)
	}
	paidOn := "-"
	if m.FeeCollectionPaymentDate != nil {
		paidOn = helper.FormatDate(*m.FeeCollectionPaymentDate)
	}
	method := "-"
	if m.FeeCollectionPaymentMethod != nil {
		method = string(*m.FeeCollectionPaymentMethod)
	}

	info := [][2]string{
		{"Receipt No", strings.ToUpper(m.FeeCollectionID.String()[:8])},
		{"Student", student},
		{"Admission No", admission},
		{"Class", class},
		{"Fee Type", m.FeeCollectionFeeType},
		{"Period", period},
		{"Payment Date", paidOn},
		{"Payment Method", method},
	}
	for _, row := range info {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(50, 7, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	money := func(v int64) string { return strings.TrimSpace(h.Currency + " " + fmt.Sprintf("%d", v)) }
	lines := [][2]string{
		{"Amount", money(m.FeeCollectionAmount)},
		{"Fine", money(m.FeeCollectionFine)},
		{"Discount", money(m.FeeCollectionDiscount)},
		{"Paid", money(m.FeeCollectionPaid)},
		{"Due", money(m.Due())},
	}
	pdf.SetFillColor(235, 235, 235)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(120, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 8, "Value", "1", 1, "R", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, row := range lines {
		pdf.CellFormat(120, 8, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, row[1], "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(0, 6, "Status: "+strings.ToUpper(string(m.Status())), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "render receipt")
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
