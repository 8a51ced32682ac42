package lexicon

import (
	"github.com/abadojack/whatlanggo"

	"chatclean/internal/core/langhint"
	perr "chatclean/internal/platform/errors"
)

// Detector identifies English with whatlanggo after a script census rules out
// texts that are mostly non-Latin
type Detector struct {
	detect func(string) whatlanggo.Info
}

// NewDetector returns a whatlanggo-backed detector
func NewDetector() *Detector { return &Detector{detect: whatlanggo.Detect} }

// IsEnglish converts detector panics into errors so the caller can fail closed
func (d *Detector) IsEnglish(text string) (ok bool, err error) {
	if !langhint.MaybeEnglish(text) {
		return false, nil
	}
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, perr.Newf(perr.ErrorCodeUnknown, "language detector panic: %v", r)
		}
	}()
	info := d.detect(text)
	return info.Lang == whatlanggo.Eng, nil
}
