package media

import (
	"sort"
	"strconv"
	"strings"
)

// maxNumericMatches caps how many formats a numeric quality preference
// returns: the closest matches only, not the whole ladder.
const maxNumericMatches = 5

// SelectQuality filters formats by a caller-supplied quality preference.
// It is strictly a filter: the output is never larger than the input, and
// an unrecognized or unmatchable preference returns the input unchanged.
//
// Numeric preferences ("720", "720p") keep only formats with a known
// vertical resolution, ordered by ascending distance from the requested
// height (ties keep their original order), capped at 5 entries. Symbolic
// preferences: "best"/"worst" match the quality label or format ID
// literally, "audio" matches audio-only formats, "video" video-only.
func SelectQuality(formats []Format, preference string) []Format {
	pref := strings.ToLower(strings.TrimSpace(preference))
	if pref == "" {
		return formats
	}

	if target, err := strconv.Atoi(strings.TrimSuffix(pref, "p")); err == nil && target > 0 {
		return selectByHeight(formats, target)
	}

	var keep func(Format) bool
	switch pref {
	case "best", "worst":
		keep = func(f Format) bool { return f.Quality == pref || f.FormatID == pref }
	case "audio":
		keep = func(f Format) bool { return hasCodec(f.ACodec) && !hasCodec(f.VCodec) }
	case "video":
		keep = func(f Format) bool { return hasCodec(f.VCodec) && !hasCodec(f.ACodec) }
	default:
		return formats
	}

	selected := make([]Format, 0, len(formats))
	for _, f := range formats {
		if keep(f) {
			selected = append(selected, f)
		}
	}
	return selected
}

func selectByHeight(formats []Format, target int) []Format {
	withHeight := make([]Format, 0, len(formats))
	for _, f := range formats {
		if f.Height > 0 {
			withHeight = append(withHeight, f)
		}
	}
	if len(withHeight) == 0 {
		// No resolution-bearing formats to rank; leave the input alone.
		return formats
	}

	sort.SliceStable(withHeight, func(i, j int) bool {
		return abs(withHeight[i].Height-target) < abs(withHeight[j].Height-target)
	})

	if len(withHeight) > maxNumericMatches {
		withHeight = withHeight[:maxNumericMatches]
	}
	return withHeight
}

// hasCodec reports whether a codec field names an actual codec. yt-dlp
// uses the literal "none" for absent streams.
func hasCodec(codec string) bool {
	return codec != "" && codec != "none"
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
