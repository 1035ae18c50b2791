package dataset

import (
	"bytes"
	"unicode/utf8"

	"munhash/internal/errors"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names reported by Decode.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "iso-8859-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode turns raw bytes into text. Valid UTF-8 is taken as is (minus a BOM);
// anything else is read as ISO-8859-1, the encoding the Receita Federal
// publishes the table in.
func Decode(raw []byte) (string, string, error) {
	if utf8.Valid(raw) {
		return string(bytes.TrimPrefix(raw, utf8BOM)), EncodingUTF8, nil
	}

	text, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", "", errors.Wrap(err, "decode iso-8859-1")
	}

	return string(text), EncodingLatin1, nil
}
