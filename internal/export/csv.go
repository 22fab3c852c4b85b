// Package export renders generation results as downloadable files.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"codeberg.org/adcraft/server/internal/adcopy"
)

const (
	CSVFilename    = "adcraft-ad-copy.csv"
	CSVContentType = "text/csv; charset=utf-8"
)

var csvHeader = []string{"Tone", "Headline", "Description", "Primary Text Paragraph", "Primary Text Bullets"}

// writes the header and one row per variant, every field quoted
func WriteCSV(w io.Writer, variants []adcopy.Variant) error {
	bw := bufio.NewWriter(w)

	if err := writeRow(bw, csvHeader); err != nil {
		return err
	}

	for _, v := range variants {
		row := []string{v.Tone, v.Headline, v.Description, v.PrimaryTextParagraph, v.PrimaryTextBullets}
		if err := writeRow(bw, row); err != nil {
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	return nil
}

// returns the CSV document as a string
func CSV(variants []adcopy.Variant) string {
	var sb strings.Builder
	_ = WriteCSV(&sb, variants) //nolint:errcheck // strings.Builder never fails

	return sb.String()
}

func writeRow(w *bufio.Writer, fields []string) error {
	for i, field := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return fmt.Errorf("failed to write csv: %w", err)
			}
		}

		if _, err := w.WriteString(quote(field)); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	}

	if err := w.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	return nil
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
