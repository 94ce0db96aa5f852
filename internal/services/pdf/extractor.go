// Package pdf provides PDF text extraction for uploaded payroll registers.
//
// We use the ledongthuc/pdf library for text extraction. It's a pure Go
// implementation — no CGO or external dependencies required, so deployment
// stays a single binary. Before extraction we run the upload through
// pdfcpu's relaxed structural validation to reject corrupt files early
// with a readable error instead of a parser panic deep in extraction.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ExtractionResult holds the output from a PDF text extraction.
// Pages are kept separate because the payroll parser works page by page —
// each employee of a certified payroll register gets their own page.
type ExtractionResult struct {
	Pages     []string // Extracted text, one entry per page
	PageCount int      // Number of pages in the document
	WordCount int      // Word count across all pages
}

// Text joins all page text into a single string.
func (r *ExtractionResult) Text() string {
	return strings.TrimSpace(strings.Join(r.Pages, "\n"))
}

// Extract reads a PDF from the given byte slice and extracts per-page text.
//
// Go Pattern: We accept a []byte instead of a filename because the data
// comes from an HTTP upload (in memory), not a file on disk. The pdf
// library requires io.ReaderAt for random access to the PDF structure,
// which bytes.Reader provides.
func Extract(data []byte) (*ExtractionResult, error) {
	reader := bytes.NewReader(data)
	size := int64(len(data))

	pdfReader, err := pdf.NewReader(reader, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	pageCount := pdfReader.NumPage()
	if pageCount == 0 {
		return &ExtractionResult{Pages: nil, PageCount: 0, WordCount: 0}, nil
	}

	pages := make([]string, 0, pageCount)
	wordCount := 0
	for i := 1; i <= pageCount; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Don't fail the whole document — some pages may be image-only.
			pages = append(pages, "")
			continue
		}

		text = strings.TrimSpace(text)
		wordCount += len(strings.Fields(text))
		pages = append(pages, text)
	}

	return &ExtractionResult{
		Pages:     pages,
		PageCount: pageCount,
		WordCount: wordCount,
	}, nil
}

// ValidatePDF checks if the data looks like a valid PDF by checking the magic bytes.
func ValidatePDF(data []byte) bool {
	// PDF files start with "%PDF-"
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}

// ValidateStructure runs pdfcpu's relaxed validation over the document.
// Relaxed mode tolerates the format quirks real-world payroll software
// produces while still catching truncated or corrupt uploads.
func ValidateStructure(data []byte) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return fmt.Errorf("invalid PDF structure: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return fmt.Errorf("invalid PDF structure: %w", err)
	}
	return nil
}
