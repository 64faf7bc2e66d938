package service

import (
	"encoding/csv"
	"io"
	"strconv"

	"invoice-recon/internal/invoice/model"
)

// WriteCSV выгружает результат проверки построчно: исходная позиция +
// привязанный товар. Непривязанные строки уходят с пустыми колонками
// товара — их видно в любой таблице.
func WriteCSV(w io.Writer, res model.ReviewResult) error {
	cw := csv.NewWriter(w)
	header := []string{"description", "code", "quantity", "unit_price", "matched_code", "matched_name", "method", "score"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range res.Rows {
		rec := []string{
			row.Line.Description,
			row.Line.Code,
			formatFloat(row.Line.Quantity),
			formatFloat(row.Line.UnitPrice),
			"", "",
			row.Method,
			"",
		}
		if row.Product != nil {
			rec[4] = row.Product.Code
			rec[5] = row.Product.Name
		}
		if row.Score != nil {
			rec[7] = strconv.FormatFloat(*row.Score, 'f', 4, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
