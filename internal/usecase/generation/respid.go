package usecase

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/panelhub/panel-link-service/internal/domain"
)

var respIDPattern = regexp.MustCompile(`^([A-Za-z]*)(\d+)$`)

// SequentialRespIDs expands a seed respId into a contiguous run of
// count ids. Zero-padding width is taken from the seed and widens
// dynamically once the numeric part outgrows it:
//
//	al998 + 5 -> al998 al999 al1000 al1001 al1002
func SequentialRespIDs(seed string, count int) ([]string, error) {
	match := respIDPattern.FindStringSubmatch(seed)
	if match == nil {
		return nil, fmt.Errorf("%w: malformed seed respId %q", domain.ErrValidation, seed)
	}
	prefix, digits := match[1], match[2]
	start, err := strconv.Atoi(digits)
	if err != nil {
		return nil, fmt.Errorf("%w: seed respId number out of range: %q", domain.ErrValidation, seed)
	}

	width := len(digits)
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		ids = append(ids, fmt.Sprintf("%s%0*d", prefix, width, start+i))
	}
	return ids, nil
}
