package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/Belphemur/ChannelSubs/internal/models"
)

// illegalFilenameChars are rejected by Windows file systems.
const illegalFilenameChars = `<>:"/\|?*`

// uploadDateLayout prefixes filenames with the upload date as yymmdd.
const uploadDateLayout = "060102"

// Slugify makes s safe to use as a file or directory name on every platform.
func Slugify(s string) string {
	s = norm.NFC.String(s)
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegalFilenameChars, r) || r < 0x20 {
			return -1
		}
		return r
	}, s)
}

// BaseFilename is the extension-less path shared by every file of a video:
// "{outputDir}/{channel}/{yymmdd} {title} [{videoSeq}]". The channel directory
// is left out when channelName is empty, and the date when the upload time is unknown.
func BaseFilename(outputDir, channelName string, video models.OfficialVideo) string {
	name := fmt.Sprintf("[%s]", video.VideoSeq)
	if title := strings.TrimSpace(Slugify(video.Title)); title != "" {
		name = title + " " + name
	}
	if !video.CreatedAt.IsZero() {
		name = video.CreatedAt.UTC().Format(uploadDateLayout) + " " + name
	}
	// Trailing dots are invalid on Windows and "." or ".." would leave outputDir
	channelDir := strings.TrimRight(strings.TrimSpace(Slugify(channelName)), ". ")
	return filepath.Join(outputDir, channelDir, name)
}
