package workflow

import (
	"errors"
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"shorter than limit", "hello", 10, "hello"},
		{"exactly at limit", "hello", 5, "hello"},
		{"over limit", "hello world", 5, "hello"},
		{"zero limit means unlimited", "hello", 0, "hello"},
		{"negative limit means unlimited", "hello", -1, "hello"},
		{"multibyte not split", "视频标题测试", 3, "视频标"},
		{"mixed ascii and cjk", "a视b频c", 4, "a视b频"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateRunes(tt.in, tt.limit))
		})
	}
}

func TestFormatTags(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		max  int
		want string
	}{
		{"empty", nil, 5, ""},
		{"plain tags", []string{"golang", "demo"}, 5, "#golang #demo"},
		{"existing hash stripped", []string{"#golang", "demo"}, 5, "#golang #demo"},
		{"whitespace trimmed", []string{" golang ", ""}, 5, "#golang"},
		{"bounded by max", []string{"a", "b", "c"}, 2, "#a #b"},
		{"zero max keeps all", []string{"a", "b", "c"}, 0, "#a #b #c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTags(tt.tags, tt.max))
		})
	}
}

func TestComposeDescription(t *testing.T) {
	t.Run("tags appended when platform wants them inline", func(t *testing.T) {
		def := &Definition{
			TagsInDescription: true,
			Limits:            Limits{DescriptionRunes: 1000, MaxTags: 5},
		}
		got := ComposeDescription("my video", []string{"golang", "demo"}, def)
		assert.Equal(t, "my video\n#golang #demo", got)
	})

	t.Run("tags omitted when platform has a tag field", func(t *testing.T) {
		def := &Definition{
			TagsInDescription: false,
			Limits:            Limits{DescriptionRunes: 1000},
		}
		got := ComposeDescription("my video", []string{"golang"}, def)
		assert.Equal(t, "my video", got)
	})

	t.Run("empty description keeps bare tags", func(t *testing.T) {
		def := &Definition{
			TagsInDescription: true,
			Limits:            Limits{DescriptionRunes: 1000, MaxTags: 5},
		}
		got := ComposeDescription("", []string{"golang"}, def)
		assert.Equal(t, "#golang", got)
	})

	t.Run("result truncated to platform limit", func(t *testing.T) {
		def := &Definition{
			TagsInDescription: true,
			Limits:            Limits{DescriptionRunes: 10, MaxTags: 5},
		}
		got := ComposeDescription(strings.Repeat("x", 8), []string{"golang"}, def)
		assert.Equal(t, "xxxxxxxx\n#", got)
		assert.Len(t, []rune(got), 10)
	})
}

// embeddedLocator wraps playwright.Locator so embedding it in a struct
// does not create a field named Locator that would shadow the
// interface's own Locator method.
type embeddedLocator interface{ playwright.Locator }

// fileInputSpy records file assignments and dispatched events.
type fileInputSpy struct {
	embeddedLocator
	files   []string
	events  []string
	failSet bool
}

func (f *fileInputSpy) SetInputFiles(files interface{}, options ...playwright.LocatorSetInputFilesOptions) error {
	if f.failSet {
		return errors.New("input rejected files")
	}
	if s, ok := files.(string); ok {
		f.files = append(f.files, s)
	}
	return nil
}

func (f *fileInputSpy) DispatchEvent(typ string, eventInit interface{}, options ...playwright.LocatorDispatchEventOptions) error {
	f.events = append(f.events, typ)
	return nil
}

// Frameworks that watch file inputs need the synthetic input/change
// events after a programmatic assignment.
func TestSubmitFile_DispatchesSyntheticEvents(t *testing.T) {
	spy := &fileInputSpy{}

	require.NoError(t, submitFile(spy, "/videos/clip.mp4"))

	assert.Equal(t, []string{"/videos/clip.mp4"}, spy.files)
	assert.Equal(t, []string{"input", "change"}, spy.events)
}

func TestSubmitFile_AssignmentFailureSkipsEvents(t *testing.T) {
	spy := &fileInputSpy{failSet: true}

	assert.Error(t, submitFile(spy, "/videos/clip.mp4"))
	assert.Empty(t, spy.events)
}
