package parser

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"reqscan/internal/scanerr"
)

// decode validates raw file bytes as UTF-8 and falls back to a Latin-1
// transcode otherwise, mirroring how Python source in the wild is read.
func decode(raw []byte) ([]byte, error) {
	if utf8.Valid(raw) {
		return raw, nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, scanerr.Wrap(err, scanerr.CodeDecodeFailure, "file is neither UTF-8 nor Latin-1")
	}
	return decoded, nil
}
