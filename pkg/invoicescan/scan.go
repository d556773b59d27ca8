package invoicescan

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/otiai10/gosseract/v2"
)

// Scan OCRs an invoice image at path and returns the best amount suggestion.
// It requires a local tesseract install; callers gate it behind OCR_ENABLED.
func Scan(path string) (Candidate, bool, error) {
	prepared, cleanup, err := preprocessToTemp(path)
	if err != nil {
		return Candidate{}, false, err
	}
	defer cleanup()

	client := gosseract.NewClient()
	defer client.Close()
	_ = client.SetLanguage("eng")
	_ = client.SetWhitelist("0123456789RpIDRidr.,:()/- ")
	if err := client.SetImage(prepared); err != nil {
		return Candidate{}, false, fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return Candidate{}, false, fmt.Errorf("tesseract: %w", err)
	}
	best, ok := BestAmount(text)
	return best, ok, nil
}

// preprocessToTemp writes the cleaned-up variant next to the temp dir and
// hands back a cleanup func.
func preprocessToTemp(path string) (string, func(), error) {
	img, err := loadAndPrepare(path)
	if err != nil {
		return "", nil, err
	}
	tmp := filepath.Join(os.TempDir(), fmt.Sprintf("invoicescan-%d-%s.png", os.Getpid(), filepath.Base(path)))
	if err := savePNG(img, tmp); err != nil {
		return "", nil, err
	}
	return tmp, func() { _ = os.Remove(tmp) }, nil
}
