package ocr

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"

	"reportqa/internal/config"
)

// Engine renders a single PDF page to an image and runs tesseract over it.
type Engine struct {
	language       string
	tessdataPrefix string
	dpi            float64
}

func NewEngine(cfg config.OCRConfig) *Engine {
	return &Engine{
		language:       cfg.Language,
		tessdataPrefix: cfg.TessdataPrefix,
		dpi:            cfg.DPI,
	}
}

// PageText OCRs one page (1-based) of the PDF and returns the cleaned text.
func (e *Engine) PageText(pdfPath string, page int) (string, error) {
	img, err := renderPage(pdfPath, page, e.dpi)
	if err != nil {
		return "", fmt.Errorf("render page %d of %s: %w", page, pdfPath, err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if e.tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(e.tessdataPrefix); err != nil {
			return "", fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(e.language); err != nil {
		return "", fmt.Errorf("set ocr language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return "", fmt.Errorf("set page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("load page image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr page %d of %s: %w", page, pdfPath, err)
	}
	return CleanText(text), nil
}

func renderPage(path string, page int, dpi float64) ([]byte, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	// go-fitz pages are 0-based
	img, err := doc.ImageDPI(page-1, dpi)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
