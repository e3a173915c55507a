package models

// VideoSource is one encoding of a video offered by the platform.
type VideoSource struct {
	Source  string
	Height  int
	Bitrate float64
}

// PlayInfo holds the playback metadata of a video.
type PlayInfo struct {
	Captions []CaptionRecord
	Videos   []VideoSource
}

// BestVideo returns the highest resolution source, preferring the higher
// bitrate between equal heights. ok is false when no source is available.
func (p PlayInfo) BestVideo() (best VideoSource, ok bool) {
	for _, v := range p.Videos {
		if v.Source == "" {
			continue
		}
		if !ok || v.Height > best.Height || (v.Height == best.Height && v.Bitrate > best.Bitrate) {
			best = v
			ok = true
		}
	}
	return best, ok
}
