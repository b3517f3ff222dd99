package reader

import (
	"strconv"
	"strings"

	"github.com/qrdrive-io/qrdrive/store"
)

// ParseFrameName splits a persistent frame filename of the form
// "<base>.<index>.png" into its base name and index. ok is false for
// filenames that do not follow the convention.
func ParseFrameName(filename string) (base string, index int, ok bool) {
	stem, found := strings.CutSuffix(filename, store.FrameExt)
	if !found {
		return "", 0, false
	}

	dot := strings.LastIndex(stem, ".")
	if dot <= 0 || dot == len(stem)-1 {
		return "", 0, false
	}

	n, err := strconv.Atoi(stem[dot+1:])
	if err != nil || n < 0 {
		return "", 0, false
	}
	return stem[:dot], n, true
}
