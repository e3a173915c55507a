package services

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/Belphemur/ChannelSubs/internal/apperrors"
	"github.com/Belphemur/ChannelSubs/internal/models"
)

var (
	boardURLPattern = regexp.MustCompile(`(?P<channel>[A-Z0-9]+)/board/(?P<board>\d+)`)
	videoURLPattern = regexp.MustCompile(`/video/(?P<seq>\d+)`)
)

// ParseBoardURL extracts the channel code and board ID from a channel board URL.
func ParseBoardURL(raw string) (models.ChannelBoard, error) {
	m := boardURLPattern.FindStringSubmatch(raw)
	if m == nil {
		return models.ChannelBoard{}, &apperrors.ErrInvalidInput{Input: raw, Expected: "channel board URL"}
	}
	return models.ChannelBoard{
		ChannelCode: m[boardURLPattern.SubexpIndex("channel")],
		BoardID:     m[boardURLPattern.SubexpIndex("board")],
	}, nil
}

// ParseVideoURL extracts the video sequence from a video page URL.
func ParseVideoURL(raw string) (string, error) {
	m := videoURLPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", &apperrors.ErrInvalidInput{Input: raw, Expected: "video URL"}
	}
	return m[videoURLPattern.SubexpIndex("seq")], nil
}

// ReadLines returns the non-blank lines of r, trimmed.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return lines, nil
}
