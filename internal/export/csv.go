// Package export renders the admin CSV download.
package export

import (
	"bytes"
	"encoding/csv"

	"campreg/internal/registration/models"
)

// Filename is the attachment name offered to the browser.
const Filename = "inscritos-acampamento-carnaval-2026.csv"

// header is the fixed 11-column layout consumers of the export rely on.
var header = []string{
	"id", "name", "phone", "age", "church", "city",
	"wantsShirt", "shirtSize", "paymentStatus", "receiptUrl", "createdAt",
}

// CSV renders the registrations as a UTF-8, BOM-prefixed CSV so Excel
// picks up the encoding. Fields containing commas, quotes, or newlines
// are quoted with inner quotes doubled (RFC 4180).
func CSV(regs []*models.Registration) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, reg := range regs {
		row := []string{
			reg.ID,
			reg.Name,
			reg.Phone,
			reg.Age,
			reg.Church,
			reg.City,
			reg.WantsShirt,
			reg.ShirtSize,
			string(reg.PaymentStatus),
			reg.ReceiptURL,
			reg.CreatedAt,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
