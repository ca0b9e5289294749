// Package video validates the local video file before any browser work
// starts, so obviously unpublishable inputs fail fast.
package video

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/crosspub/crosspub/pkg/workflow"
)

// Info holds the probed properties of a video file.
type Info struct {
	Path      string
	SizeBytes int64
	Duration  time.Duration
	Width     int
	Height    int
	Container string
}

// Probe verifies the file exists and is readable, then extracts its
// metadata with ffprobe.
func Probe(path string) (*Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "video file not accessible: %s", path)
	}
	if stat.IsDir() {
		return nil, errors.Errorf("video path is a directory: %s", path)
	}

	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error probing video %s", path)
	}

	info, err := parseProbe(raw)
	if err != nil {
		return nil, err
	}
	info.Path = path
	info.SizeBytes = stat.Size()
	return info, nil
}

// parseProbe decodes ffprobe JSON output into an Info.
func parseProbe(raw string) (*Info, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, errors.WithStack(err)
	}

	streams, ok := data["streams"].([]interface{})
	if !ok || len(streams) == 0 {
		return nil, errors.New("no streams found in video")
	}

	var videoStream map[string]interface{}
	for _, stream := range streams {
		s, ok := stream.(map[string]interface{})
		if !ok {
			continue
		}
		if codecType, _ := s["codec_type"].(string); codecType == "video" {
			videoStream = s
			break
		}
	}
	if videoStream == nil {
		return nil, errors.New("no video stream found")
	}

	info := &Info{}
	if w, ok := videoStream["width"].(float64); ok {
		info.Width = int(w)
	}
	if h, ok := videoStream["height"].(float64); ok {
		info.Height = int(h)
	}

	var duration float64
	if durationStr, ok := videoStream["duration"].(string); ok {
		if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil {
			duration = d
		}
	}
	if format, ok := data["format"].(map[string]interface{}); ok {
		if duration == 0 {
			if durationStr, ok := format["duration"].(string); ok {
				if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil {
					duration = d
				}
			}
		}
		if name, ok := format["format_name"].(string); ok {
			info.Container = name
		}
	}
	info.Duration = time.Duration(duration * float64(time.Second))
	return info, nil
}

// CheckAgainst validates the probed video against a platform's limits.
func (i *Info) CheckAgainst(limits workflow.Limits) error {
	if limits.MaxDuration > 0 && i.Duration > limits.MaxDuration {
		return fmt.Errorf("video duration %s exceeds platform limit %s", i.Duration.Round(time.Second), limits.MaxDuration)
	}
	if limits.MaxFileSize > 0 && i.SizeBytes > limits.MaxFileSize {
		return fmt.Errorf("video size %d bytes exceeds platform limit %d", i.SizeBytes, limits.MaxFileSize)
	}
	return nil
}
