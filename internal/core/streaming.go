package core

// streaming.go provides reader wrappers applied before the dataset is parsed.
//
// Spreadsheet tools on Windows commonly prefix UTF-8 files with a byte order
// mark. The BOM is not part of the first header name, so it is stripped
// before the CSV reader sees it.

import (
	"bufio"
	"bytes"
	"io"
)

// utf8BOM is the UTF-8 encoding of U+FEFF.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// BOMSkippingReader wraps an io.Reader and skips a leading UTF-8 BOM.
type BOMSkippingReader struct {
	reader     *bufio.Reader
	bomChecked bool
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{
		reader: bufio.NewReader(r),
	}
}

// Read implements io.Reader. On the first read, it checks for and skips the BOM.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.bomChecked {
		r.bomChecked = true

		head, err := r.reader.Peek(len(utf8BOM))
		if err != nil && err != io.EOF {
			return 0, err
		}
		if bytes.Equal(head, utf8BOM) {
			if _, err := r.reader.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}

	return r.reader.Read(p)
}
