// Package storage names blob objects and hosts the BlobStore adapters
// (supabase, s3, local) in its subpackages.
package storage

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const fallbackFileName = "subor"

// objectKeyLen is the number of item id characters kept in a blob key.
const objectKeyLen = 12

// ObjectPath returns the blob key for an uploaded attachment:
// {userID}/{recordID}/{category}/{unixMillis}_{itemKey}_{sanitizedName}.
// itemID keeps keys apart when equal names land in the same millisecond.
func ObjectPath(userID, recordID, category string, at time.Time, itemID, name string) string {
	return path.Join(
		pathSegment(userID),
		pathSegment(recordID),
		pathSegment(category),
		fmt.Sprintf("%d_%s_%s", at.UnixMilli(), itemKey(itemID), SanitizeFileName(name)),
	)
}

// itemKey reduces an item id to at most objectKeyLen alphanumerics.
// For a UUID that is the first 48 random bits.
func itemKey(id string) string {
	var b strings.Builder
	for _, r := range id {
		if b.Len() == objectKeyLen {
			break
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "x"
	}
	return b.String()
}

// SanitizeFileName reduces name to a key-safe form: diacritics stripped,
// whitespace collapsed to underscores, anything outside [A-Za-z0-9._-]
// dropped. "Faktúra č. 12.pdf" becomes "Faktura_c._12.pdf".
func SanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))

	stripped, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		name,
	)
	if err == nil {
		name = stripped
	}

	var b strings.Builder
	underscore := false
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-'):
			b.WriteRune(r)
			underscore = false
		case unicode.IsSpace(r) || r == '_':
			if !underscore && b.Len() > 0 {
				b.WriteByte('_')
				underscore = true
			}
		}
	}

	out := strings.Trim(b.String(), "._")
	if out == "" {
		return fallbackFileName
	}
	return out
}

func pathSegment(s string) string {
	s = strings.Trim(strings.ReplaceAll(s, "/", "_"), ".")
	if s == "" {
		return "_"
	}
	return s
}
