package certificates

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// render produces the certificate PDF with an embedded verification QR code.
func render(learnerName, realmName, number string, issuedAt time.Time, verifyURL string) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 30)
	pdf.CellFormat(0, 30, "Certificate of Achievement", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 18)
	pdf.CellFormat(0, 14, "This certifies that", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 16, learnerName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 18)
	pdf.CellFormat(0, 14, "has successfully completed the", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 16, realmName+" Realm", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 10, "Certificate Number: "+number, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Issued: "+issuedAt.Format("2 January 2006"), "", 1, "C", false, 0, "")

	qr, err := qrcode.Encode(verifyURL, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("verify-qr", opts, bytes.NewReader(qr))
	pdf.ImageOptions("verify-qr", 138, 150, 24, 24, false, opts, 0, "")

	pdf.SetY(178)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Scan to verify at "+verifyURL, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
