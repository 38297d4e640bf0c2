package extractor

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ErrPasswordRequired is returned for an encrypted PDF when no password was
// given or the given one does not open it.
var ErrPasswordRequired = errors.New("password required or incorrect password")

// ExtractText reads a PDF file and returns the text content of each page,
// one text run per line. password is only used if the document is
// encrypted. If the PDF library cannot produce readable text, the external
// pdftotext command (poppler-utils) is tried.
func ExtractText(filePath, password string) ([]string, error) {
	pages, libErr := extractWithLibrary(filePath, password)
	if libErr == nil && isReadableText(pages) {
		return pages, nil
	}

	popplerPages, popplerErr := extractWithPdftotext(filePath, password)
	if popplerErr == nil && isReadableText(popplerPages) {
		return popplerPages, nil
	}

	if errors.Is(libErr, ErrPasswordRequired) {
		return nil, ErrPasswordRequired
	}
	if libErr != nil {
		return nil, fmt.Errorf("PDF text extraction failed: %w", libErr)
	}
	return nil, fmt.Errorf("no readable text could be extracted from PDF; the file may be image-based or not a transaction statement")
}

// ExtractTextCombined reads a PDF and returns all text combined into one string.
func ExtractTextCombined(filePath, password string) (string, error) {
	pages, err := ExtractText(filePath, password)
	if err != nil {
		return "", err
	}
	return strings.Join(pages, "\n"), nil
}

// openReader opens filePath, offering password once if the document is encrypted.
func openReader(filePath, password string) (*os.File, *pdf.Reader, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	offered := false
	r, err := pdf.NewReaderEncrypted(f, fi.Size(), func() string {
		if offered {
			return ""
		}
		offered = true
		return password
	})
	if err != nil {
		f.Close()
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, nil, ErrPasswordRequired
		}
		return nil, nil, err
	}
	return f, r, nil
}

// extractWithLibrary uses the ledongthuc/pdf library with multiple methods.
func extractWithLibrary(filePath, password string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, err := openReader(filePath, password)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	// Method 1: text objects in content-stream order
	pages = extractByPagePlainText(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	// Method 2: glyph positions regrouped into table cells
	pages = extractByCells(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	// Method 3: whole-document extraction
	plainText := extractByReaderPlainText(r)
	if isReadableText([]string{plainText}) {
		return []string{plainText}, nil
	}

	return pages, nil
}

// Method 1: Page.GetPlainText with the page's fonts.
func extractByPagePlainText(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			f := page.Font(name)
			fonts[name] = &f
		}

		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text != "" {
			pages = append(pages, text)
		}
	}
	return pages
}

// cellGap is the horizontal distance between glyphs that starts a new cell.
const cellGap = 15

// Method 2: Page.Content() glyphs grouped into rows by Y coordinate, each
// row split into cells wherever the X gap is wide, one cell per line.
func extractByCells(r *pdf.Reader, numPages int) []string {
	type glyph struct {
		x float64
		s string
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		rowMap := make(map[int][]glyph)
		for _, t := range content.Text {
			yKey := int(math.Round(t.Y))
			rowMap[yKey] = append(rowMap[yKey], glyph{x: t.X, s: t.S})
		}

		// PDF Y grows upwards, so the top row has the largest key.
		yKeys := make([]int, 0, len(rowMap))
		for y := range rowMap {
			yKeys = append(yKeys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

		var lines []string
		for _, y := range yKeys {
			glyphs := rowMap[y]
			sort.SliceStable(glyphs, func(a, b int) bool {
				return glyphs[a].x < glyphs[b].x
			})

			var cell strings.Builder
			flush := func() {
				if s := strings.TrimSpace(cell.String()); s != "" {
					lines = append(lines, s)
				}
				cell.Reset()
			}
			for j, g := range glyphs {
				if j > 0 && g.x-glyphs[j-1].x > cellGap {
					flush()
				}
				cell.WriteString(g.s)
			}
			flush()
		}
		if len(lines) > 0 {
			pages = append(pages, strings.Join(lines, "\n"))
		}
	}
	return pages
}

// Method 3: Reader.GetPlainText.
func extractByReaderPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// extractWithPdftotext shells out to pdftotext in raw mode, which keeps
// content-stream order with one text run per line.
func extractWithPdftotext(filePath, password string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %w", err)
	}

	out, err := exec.Command("pdftotext", pdftotextArgs(filePath, password)...).Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}

	var pages []string
	// pdftotext separates pages with form feeds.
	for _, page := range strings.Split(string(out), "\f") {
		page = strings.TrimSpace(page)
		if page != "" {
			pages = append(pages, page)
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftotext produced no output")
	}
	return pages, nil
}

// pdftotextArgs builds the pdftotext command line. pdftotext only takes the
// user password as an argument, so while the fallback runs the password is
// visible to other local users in the process list.
func pdftotextArgs(filePath, password string) []string {
	args := []string{"-raw", "-enc", "UTF-8"}
	if password != "" {
		args = append(args, "-upw", password)
	}
	return append(args, filePath, "-")
}

// textQuality returns the share of characters that are ASCII letters,
// digits, whitespace, common punctuation or currency signs.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) ||
				unicode.IsSpace(r) || unicode.IsPunct(r)) || r == '₹' || r == '|' {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// commonWords appear on every page of a transaction statement.
var commonWords = []string{
	"transaction", "statement", "paid", "received", "debit", "credit",
	"utr", "amount", "date", "page",
}

func containsCommonWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range commonWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// isReadableText requires more than 50 characters, over 60% of them
// readable, and at least one word expected on a statement.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
