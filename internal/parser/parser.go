package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"

	"reportqa/internal/helper"
	"reportqa/internal/models"
	"reportqa/internal/ocr"
)

// Extractor turns a PDF into one PageRecord per page, falling back to OCR
// when the native text layer is empty, badly encoded, or glued.
type Extractor struct {
	ocr      *ocr.Engine
	imageOCR bool
}

func NewExtractor(engine *ocr.Engine, imageOCR bool) *Extractor {
	return &Extractor{ocr: engine, imageOCR: imageOCR}
}

// ExtractAll parses every PDF in pdfDir into parsedDir. A PDF whose parsed
// JSON already exists is skipped, so re-runs are idempotent.
func (e *Extractor) ExtractAll(pdfDir, parsedDir string) error {
	if err := helper.CreateFolder(parsedDir); err != nil {
		return err
	}

	pdfs, err := filepath.Glob(filepath.Join(pdfDir, "*.pdf"))
	if err != nil {
		return err
	}
	sort.Strings(pdfs)

	for _, pdfPath := range pdfs {
		stem := strings.TrimSuffix(filepath.Base(pdfPath), ".pdf")
		outPath := filepath.Join(parsedDir, stem+".json")

		if _, err := os.Stat(outPath); err == nil {
			log.Info().Str("file", filepath.Base(pdfPath)).Msg("Already parsed, skipping")
			continue
		}

		log.Info().Str("file", filepath.Base(pdfPath)).Msg("Parsing")
		pages, err := e.ExtractFile(pdfPath)
		if err != nil {
			return fmt.Errorf("parse %s: %w", pdfPath, err)
		}

		if err := helper.WriteJSON(outPath, pages); err != nil {
			return fmt.Errorf("save parsed text for %s: %w", pdfPath, err)
		}
		log.Info().Str("out", outPath).Int("pages", len(pages)).Msg("Saved parsed text")
	}
	return nil
}

// ExtractFile produces the ordered page records for a single PDF.
func (e *Extractor) ExtractFile(pdfPath string) ([]models.PageRecord, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, err
	}

	numPages := reader.NumPage()
	records := make([]models.PageRecord, 0, numPages)
	for i := 1; i <= numPages; i++ {
		text := e.extractPage(reader, pdfPath, i)
		records = append(records, models.PageRecord{
			Page: i,
			Text: strings.TrimSpace(text),
		})
	}
	return records, nil
}

func (e *Extractor) extractPage(reader *pdf.Reader, pdfPath string, page int) string {
	text := nativePageText(reader, page)

	if needsOCR(text) {
		log.Info().Str("file", filepath.Base(pdfPath)).Int("page", page).Msg("Text layer unusable, running OCR")
		ocrText, err := e.ocr.PageText(pdfPath, page)
		if err != nil {
			// A broken page should not sink the whole document.
			log.Error().Err(err).Str("file", filepath.Base(pdfPath)).Int("page", page).Msg("Page OCR failed")
			return ""
		}
		return ocrText
	}

	if e.imageOCR {
		ocrText, err := e.ocr.PageText(pdfPath, page)
		if err != nil {
			log.Warn().Err(err).Str("file", filepath.Base(pdfPath)).Int("page", page).Msg("Image OCR failed")
			return text
		}
		return mergeOCRLines(text, ocrText)
	}

	return text
}

// nativePageText reads the PDF text layer for one page. ledongthuc/pdf can
// panic on malformed content streams, so failures degrade to empty text and
// the page goes through the OCR path instead.
func nativePageText(reader *pdf.Reader, pageNum int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Int("page", pageNum).Interface("panic", r).Msg("Text layer extraction panicked")
			text = ""
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// mergeOCRLines appends OCR lines that the native text layer does not
// already contain. Used by the optional image-OCR pass to pick up text that
// lives inside embedded images on otherwise healthy pages.
func mergeOCRLines(native, ocrText string) string {
	var extra []string
	for _, line := range strings.Split(ocrText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(native, line) {
			continue
		}
		extra = append(extra, line)
	}
	if len(extra) == 0 {
		return native
	}
	return strings.TrimSpace(native) + "\n" + strings.Join(extra, "\n")
}
