package line

import "strings"

var ignoreMarkers = []string{
	"hitstop",
	"hit stop",
	"hit-stop",
	"ヒットストップ",
	"ﾋｯﾄｽﾄｯﾌﾟ",
	"画面端",
}

// IsIgnoreMarker reports whether a comment body marks the start of a
// hit-stop or screen-edge recoil block.
func IsIgnoreMarker(comment string) bool {
	if comment == "" {
		return false
	}
	lower := strings.ToLower(comment)
	for _, m := range ignoreMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
