package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"

	"lemburan/models"
)

// utf8BOM makes spreadsheet applications read the file as UTF-8.
const utf8BOM = "\uFEFF"

// WriteCSV writes records as a delimited text export: a byte-order mark, a
// header line, then one line per record. Every field is quoted and embedded
// quotes are doubled. An empty slice produces the header line only.
func WriteCSV(w io.Writer, records []models.OvertimeRecord, loc Locale) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(utf8BOM); err != nil {
		return errors.Wrap(err, "writing byte-order mark")
	}
	if err := writeCSVLine(bw, loc.CSVColumns[:]); err != nil {
		return errors.Wrap(err, "writing csv header")
	}

	for i, rec := range records {
		row := FormatRecord(i+1, rec, loc)
		if err := writeCSVLine(bw, row.Strings()); err != nil {
			return errors.Wrapf(err, "writing csv row %d", i+1)
		}
	}

	return errors.Wrap(bw.Flush(), "flushing csv")
}

func writeCSVLine(w *bufio.Writer, fields []string) error {
	for i, field := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(quoteField(field)); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
