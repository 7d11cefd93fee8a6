package payroll

import (
	"bytes"
	"fmt"
	"strings"
)

// buildPayslipPDF renders a payroll record as a minimal single-page PDF.
// No external renderer; the layout is a fixed line list in Helvetica.
func buildPayslipPDF(record PayrollRecord) ([]byte, error) {
	lines := []string{
		"PAYSLIP " + record.PayrollRef,
		"Period: " + record.PeriodKey,
		"Employee: " + record.EmployeeID.String(),
		"",
		fmt.Sprintf("Regular hours:   %.2f", record.RegularHours),
		fmt.Sprintf("Overtime hours:  %.2f", record.OvertimeHours),
		fmt.Sprintf("Hourly rate:     %.2f", record.HourlyRate),
		"",
		fmt.Sprintf("Basic pay:       %.2f", record.BasicPay),
		fmt.Sprintf("Overtime pay:    %.2f", record.OvertimePay),
		fmt.Sprintf("Credits:         %.2f", record.Credits),
		fmt.Sprintf("Gross pay:       %.2f", record.GrossPay),
		fmt.Sprintf("Tax:             %.2f", record.Tax),
		fmt.Sprintf("Debits:          %.2f", record.Debits),
		"",
		fmt.Sprintf("NET PAY:         %.2f", record.NetPay),
	}

	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n14 TL\n50 800 Td\n")
	for i, line := range lines {
		escaped := pdfEscape(line)
		if i == 0 {
			content.WriteString(fmt.Sprintf("(%s) Tj\n", escaped))
			continue
		}
		content.WriteString(fmt.Sprintf("T* (%s) Tj\n", escaped))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)

	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes(), nil
}

func pdfEscape(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return replacer.Replace(v)
}
