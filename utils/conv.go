package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/mogaika/gmk_browser/config"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// bytes the codepage leaves undefined keep their value in a private use rune,
// or in C1 control rune with the same value when codepage does not claim it,
// so any stored string survives load and save
const undefinedByteBase = 0xf700

func undefinedByteRune(cm *charmap.Charmap, b byte) rune {
	if b >= 0x80 && b < 0xa0 {
		if _, claimed := cm.EncodeRune(rune(b)); !claimed {
			return rune(b)
		}
	}
	return undefinedByteBase + rune(b)
}

// BytesToString converts raw codepage bytes into utf-8 string
func BytesToString(bs []byte) string {
	cm := config.GetEncoding()
	var sb strings.Builder
	sb.Grow(len(bs))
	for _, b := range bs {
		r := cm.DecodeByte(b)
		if r == utf8.RuneError {
			r = undefinedByteRune(cm, b)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// StringToBytes converts utf-8 string into codepage bytes
func StringToBytes(s string) ([]byte, error) {
	cm := config.GetEncoding()
	bs := make([]byte, 0, len(s))
	for i, r := range s {
		if b, ok := cm.EncodeRune(r); ok {
			bs = append(bs, b)
			continue
		}
		if b, ok := undefinedByte(cm, r); ok {
			bs = append(bs, b)
			continue
		}
		return nil, errors.Errorf("Failed to encode %q using %v: rune %U at %d is not supported", s, cm, r, i)
	}
	return bs, nil
}

func undefinedByte(cm *charmap.Charmap, r rune) (byte, bool) {
	var b byte
	switch {
	case r >= 0x80 && r < 0xa0:
		b = byte(r)
	case r >= undefinedByteBase && r < undefinedByteBase+0x100:
		b = byte(r - undefinedByteBase)
	default:
		return 0, false
	}
	if cm.DecodeByte(b) != utf8.RuneError || undefinedByteRune(cm, b) != r {
		return 0, false
	}
	return b, true
}
