package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{-12, "0 B"},
		{512, "512 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1048576, "1 MB"},
		{1073741824, "1 GB"},
		{1099511627776, "1 TB"},
		// Clamped to the largest unit.
		{1125899906842624, "1024 TB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.bytes), "FormatBytes(%d)", tt.bytes)
	}
}

func TestLyricsFromTags(t *testing.T) {
	tests := []struct {
		name string
		tags map[string]any
		want string
	}{
		{"uslt tag", map[string]any{"USLT": "la la"}, "la la"},
		{"standard lowercase", map[string]any{"lyrics": "hello"}, "hello"},
		{"priority order", map[string]any{"TEXT": "second", "lyrics": "first"}, "first"},
		{"substring fallback", map[string]any{"Custom-Lyric-Note": "x"}, "x"},
		{"case-insensitive fallback", map[string]any{"MYLYRICFIELD": "y"}, "y"},
		{"empty known key skipped", map[string]any{"USLT": "", "TEXT": "kept"}, "kept"},
		{"empty fallback value kept verbatim", map[string]any{"My Lyric Note": ""}, ""},
		{"first fallback key wins even when empty", map[string]any{"a-lyric": "", "b-lyric": "text"}, ""},
		{"no tags", map[string]any{}, "No lyrics found"},
		{"unrelated tags", map[string]any{"artist": "someone"}, "No lyrics found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lyricsFromTags(tt.tags))
		})
	}
}

func TestAudioInfo(t *testing.T) {
	t.Run("no audio stream", func(t *testing.T) {
		streams := []map[string]any{{"codec_type": "video"}}
		assert.Empty(t, audioInfo(streams))
	})

	t.Run("full stream", func(t *testing.T) {
		streams := []map[string]any{
			{"codec_type": "video"},
			{
				"codec_type":      "audio",
				"codec_long_name": "MP3 (MPEG audio layer 3)",
				"sample_rate":     "44100",
				"channels":        float64(2),
				"channel_layout":  "stereo",
				"duration":        "183.2",
				"bit_rate":        "128000",
				"codec_name":      "mp3",
			},
		}
		info := audioInfo(streams)
		assert.Equal(t, "MP3 (MPEG audio layer 3)", info["Codec"])
		assert.Equal(t, "44100 Hz", info["Sample Rate"])
		assert.Equal(t, float64(2), info["Channels"])
		assert.Equal(t, "stereo", info["Channel Layout"])
		assert.Equal(t, "183.2 seconds", info["Duration"])
		assert.Equal(t, "128000 bps", info["Bit Rate"])

		other, ok := info["Other Details"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "mp3", other["codec_name"])
		assert.NotContains(t, other, "sample_rate")
	})

	t.Run("missing fields degrade", func(t *testing.T) {
		info := audioInfo([]map[string]any{{"codec_type": "audio"}})
		assert.Equal(t, "N/A", info["Codec"])
		assert.Equal(t, "N/A Hz", info["Sample Rate"])
		assert.Equal(t, "N/A seconds", info["Duration"])
	})
}

func TestVideoInfo(t *testing.T) {
	t.Run("no video stream", func(t *testing.T) {
		assert.Empty(t, videoInfo([]map[string]any{{"codec_type": "audio"}}))
	})

	t.Run("resolution", func(t *testing.T) {
		streams := []map[string]any{{
			"codec_type": "video",
			"width":      float64(1920),
			"height":     float64(1080),
		}}
		assert.Equal(t, "1920x1080", videoInfo(streams)["Resolution"])
	})

	t.Run("resolution with missing dimension", func(t *testing.T) {
		streams := []map[string]any{{
			"codec_type": "video",
			"width":      float64(640),
		}}
		assert.Equal(t, "640xN/A", videoInfo(streams)["Resolution"])
	})
}

func TestFormatInfo(t *testing.T) {
	format := map[string]any{
		"format_long_name": "MP3 / MPEG audio",
		"duration":         "183.2",
		"size":             "1572864",
		"bit_rate":         "128000",
		"tags":             map[string]any{"USLT": "la la", "artist": "someone"},
		"nb_streams":       float64(1),
	}

	info := formatInfo(format)
	assert.Equal(t, "MP3 / MPEG audio", info["Format"])
	assert.Equal(t, "183.2 seconds", info["Duration"])
	assert.Equal(t, "1.5 MB", info["Size"])
	assert.Equal(t, "128000 bps", info["Bit Rate"])
	assert.Equal(t, "la la", info["Lyrics"])

	other, ok := info["Other Details"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, other, "nb_streams")
	assert.NotContains(t, other, "tags")
}

func TestMediaMetadataShape(t *testing.T) {
	probe := &probeData{
		Streams: []map[string]any{{"codec_type": "audio", "codec_long_name": "AAC"}},
		Format:  map[string]any{"format_long_name": "QuickTime / MOV"},
	}

	meta := MediaMetadata(probe)
	assert.Contains(t, meta, "Audio Information")
	assert.Contains(t, meta, "Video Information")
	assert.Contains(t, meta, "General Information")
	assert.Equal(t, "No lyrics found", meta["Lyrics"])
	assert.Empty(t, meta["Video Information"])
}

func TestByteCount(t *testing.T) {
	assert.Equal(t, int64(1024), byteCount("1024"))
	assert.Equal(t, int64(12), byteCount("12.9"))
	assert.Equal(t, int64(2048), byteCount(float64(2048)))
	assert.Equal(t, int64(0), byteCount(nil))
	assert.Equal(t, int64(0), byteCount("garbage"))
}
