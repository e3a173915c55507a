package models

// CaptionRecord is a subtitle track exposed by the platform for a video.
type CaptionRecord struct {
	Locale string `json:"locale"` // Language code, e.g. "en" or "pt_BR"
	Type   string `json:"type"`   // Caption kind, e.g. "cp" (official) or "fan"
	Label  string `json:"label"`  // Display label, informational only
	Source string `json:"source"` // URL of the WebVTT content
}

// CaptionKey identifies a caption group within one video.
type CaptionKey struct {
	Locale string
	Type   string
}

// Key returns the grouping key of the record.
func (c CaptionRecord) Key() CaptionKey {
	return CaptionKey{Locale: c.Locale, Type: c.Type}
}

// NamedCaptionFile is the output filename computed for a caption and the URL to fetch it from.
type NamedCaptionFile struct {
	Filename  string
	SourceURL string
	Key       CaptionKey
	Index     int // 1-based position within the caption group
}
