package snapshot

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang/snappy"
)

// Clipboard text prefixes. Compressed payloads are snappy blocks; both
// kinds are base64 so they survive plain-text clipboards.
const (
	ClipboardPrefix = "nodegraph:"
	prefixSnappy    = ClipboardPrefix + "snappy:"
	prefixJSON      = ClipboardPrefix + "json:"
)

// MaxClipboardBytes caps the decoded size of a clipboard payload. A snappy
// block declares its decoded length up front, so it is checked before
// anything is allocated.
var MaxClipboardBytes = 16 << 20

// ErrNotClipboard is returned when text does not carry a copied selection.
var ErrNotClipboard = errors.New("not a node graph clipboard payload")

// EncodeClipboard serializes a copied selection to clipboard text.
func EncodeClipboard(doc Document, compress bool) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode clipboard: %w", err)
	}
	prefix := prefixJSON
	if compress {
		data = snappy.Encode(nil, data)
		prefix = prefixSnappy
	}
	return prefix + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeClipboard parses clipboard text produced by EncodeClipboard.
func DecodeClipboard(text string) (Document, error) {
	text = strings.TrimSpace(text)

	var compressed bool
	switch {
	case strings.HasPrefix(text, prefixSnappy):
		compressed = true
		text = strings.TrimPrefix(text, prefixSnappy)
	case strings.HasPrefix(text, prefixJSON):
		text = strings.TrimPrefix(text, prefixJSON)
	default:
		return Document{}, ErrNotClipboard
	}

	if base64.StdEncoding.DecodedLen(len(text)) > MaxClipboardBytes {
		return Document{}, fmt.Errorf("%w: payload exceeds %d bytes", ErrNotClipboard, MaxClipboardBytes)
	}
	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrNotClipboard, err)
	}
	if compressed {
		n, err := snappy.DecodedLen(data)
		if err != nil {
			return Document{}, fmt.Errorf("%w: %v", ErrNotClipboard, err)
		}
		if n > MaxClipboardBytes {
			return Document{}, fmt.Errorf("%w: decoded size %d exceeds %d bytes", ErrNotClipboard, n, MaxClipboardBytes)
		}
		if data, err = snappy.Decode(nil, data); err != nil {
			return Document{}, fmt.Errorf("%w: %v", ErrNotClipboard, err)
		}
	}
	return Decode(data, FormatJSON)
}

// CanDecode reports whether text is a clipboard payload that will paste.
func CanDecode(text string) bool {
	_, err := DecodeClipboard(text)
	return err == nil
}
