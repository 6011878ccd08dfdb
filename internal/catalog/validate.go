package catalog

import (
	"github.com/geniusclasses/backend/internal/platform/apierr"
)

// FileMeta is what the caller declares about a candidate upload. The
// content type is taken at face value; nothing sniffs the bytes. That is a
// documented weak point of the acceptance rules, not an oversight.
type FileMeta struct {
	Name        string
	Size        int64
	ContentType string
}

// Rules is the per-kind acceptance configuration: an exact-match MIME
// allow-list and a byte ceiling.
type Rules struct {
	AllowedMimeTypes []string `yaml:"allowedMimeTypes"`
	MaxBytes         int64    `yaml:"maxBytes"`
}

func (r Rules) allows(contentType string) bool {
	for _, m := range r.AllowedMimeTypes {
		if m == contentType {
			return true
		}
	}
	return false
}

// Validate checks a candidate file against rules. It rejects before any
// network call is made; a rejection means neither store was touched.
func Validate(meta FileMeta, rules Rules) error {
	if !rules.allows(meta.ContentType) {
		return apierr.UnsupportedType(meta.ContentType)
	}
	if meta.Size > rules.MaxBytes {
		return apierr.TooLarge(meta.Size, rules.MaxBytes)
	}
	return nil
}
