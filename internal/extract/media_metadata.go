package extract

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// noLyrics is the literal stored when no lyric-bearing tag exists.
const noLyrics = "No lyrics found"

// lyricTagKeys are the known lyric tag spellings, in priority order. The
// first non-empty match wins.
var lyricTagKeys = []string{
	"lyrics",         // standard ID3v2 lyrics
	"LYRICS",         // alternative capitalization
	"USLT",           // unsynchronized lyrics/text
	"SYLT",           // synchronized lyrics/text
	"TEXT",           // text transcription
	"unsyncedlyrics", // another common variant
	"TXXX:LYRICS",    // custom ID3v2 frame
}

// MediaMetadata shapes a raw ffprobe result into the uniform record metadata.
// Probe output is wildly uneven across containers, so every field access
// degrades to "N/A" instead of erroring.
func MediaMetadata(probe *probeData) map[string]any {
	return map[string]any{
		"Audio Information":   audioInfo(probe.Streams),
		"Video Information":   videoInfo(probe.Streams),
		"General Information": formatInfo(probe.Format),
		"Lyrics":              lyricsFromTags(formatTags(probe.Format)),
	}
}

func audioInfo(streams []map[string]any) map[string]any {
	stream := firstStream(streams, "audio")
	if stream == nil {
		return map[string]any{}
	}
	return map[string]any{
		"Codec":          valueOr(stream, "codec_long_name"),
		"Sample Rate":    withUnit(stream, "sample_rate", "Hz"),
		"Channels":       valueOr(stream, "channels"),
		"Channel Layout": valueOr(stream, "channel_layout"),
		"Duration":       withUnit(stream, "duration", "seconds"),
		"Bit Rate":       withUnit(stream, "bit_rate", "bps"),
		"Other Details": otherDetails(stream,
			"codec_long_name", "sample_rate", "channels", "channel_layout", "duration", "bit_rate"),
	}
}

func videoInfo(streams []map[string]any) map[string]any {
	stream := firstStream(streams, "video")
	if stream == nil {
		return map[string]any{}
	}
	return map[string]any{
		"Codec":        valueOr(stream, "codec_long_name"),
		"Resolution":   fmt.Sprintf("%vx%v", valueOr(stream, "width"), valueOr(stream, "height")),
		"Pixel Format": valueOr(stream, "pix_fmt"),
		"Duration":     withUnit(stream, "duration", "seconds"),
		"Other Details": otherDetails(stream,
			"codec_long_name", "width", "height", "pix_fmt", "duration"),
	}
}

func formatInfo(format map[string]any) map[string]any {
	tags := formatTags(format)
	return map[string]any{
		"Format":   valueOr(format, "format_long_name"),
		"Duration": withUnit(format, "duration", "seconds"),
		"Size":     FormatBytes(byteCount(format["size"])),
		"Bit Rate": withUnit(format, "bit_rate", "bps"),
		"Tags":     tags,
		"Lyrics":   lyricsFromTags(tags),
		"Other Details": otherDetails(format,
			"format_long_name", "duration", "size", "bit_rate", "tags"),
	}
}

// lyricsFromTags scans the container tags for lyrics: the known keys first,
// then any key containing "lyric" case-insensitively. Keys are scanned in
// sorted order so the fallback is deterministic. The fallback returns the
// first matching tag's value verbatim, empty or not; only the known keys
// require a non-empty value.
func lyricsFromTags(tags map[string]any) string {
	for _, key := range lyricTagKeys {
		if s := anyString(tags[key]); s != "" {
			return s
		}
	}

	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(strings.ToLower(k), "lyric") {
			return anyString(tags[k])
		}
	}
	return noLyrics
}

// FormatBytes renders a byte count with binary prefixes, two decimal places,
// clamped to TB.
func FormatBytes(b int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	if b <= 0 {
		return "0 B"
	}
	pow := int(math.Floor(math.Log(float64(b)) / math.Log(1024)))
	if pow > len(units)-1 {
		pow = len(units) - 1
	}
	v := float64(b) / math.Pow(1024, float64(pow))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + units[pow]
}

func firstStream(streams []map[string]any, codecType string) map[string]any {
	for _, s := range streams {
		if ct, _ := s["codec_type"].(string); ct == codecType {
			return s
		}
	}
	return nil
}

func formatTags(format map[string]any) map[string]any {
	tags, _ := format["tags"].(map[string]any)
	if tags == nil {
		tags = map[string]any{}
	}
	return tags
}

func valueOr(m map[string]any, key string) any {
	if v, ok := m[key]; ok && v != nil {
		return v
	}
	return "N/A"
}

func withUnit(m map[string]any, key, unit string) string {
	return fmt.Sprintf("%v %s", valueOr(m, key), unit)
}

func otherDetails(m map[string]any, exclude ...string) map[string]any {
	rest := make(map[string]any)
	for k, v := range m {
		rest[k] = v
	}
	for _, k := range exclude {
		delete(rest, k)
	}
	return rest
}

func anyString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func byteCount(v any) int64 {
	switch n := v.(type) {
	case string:
		if parsed, err := strconv.ParseInt(n, 10, 64); err == nil {
			return parsed
		}
		if parsed, err := strconv.ParseFloat(n, 64); err == nil {
			return int64(parsed)
		}
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	}
	return 0
}
