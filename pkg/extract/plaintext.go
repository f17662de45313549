package extract

import (
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// extractPlainText reads a text file, falling back through a fixed list of
// encodings. UTF-8 is accepted only when the bytes are fully valid; GB18030
// is tried next for CJK sources; Latin-1 never fails and is the last resort.
func extractPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", ErrExtraction, path, err)
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	fallbacks := []encoding.Encoding{
		simplifiedchinese.GB18030,
		charmap.ISO8859_1,
	}
	for _, enc := range fallbacks {
		decoded, err := enc.NewDecoder().Bytes(data)
		if err == nil && utf8.Valid(decoded) {
			return string(decoded), nil
		}
	}

	return "", fmt.Errorf("%w: %s is not in a supported encoding", ErrExtraction, path)
}
