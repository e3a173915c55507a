// Package captions groups the caption tracks of a video by locale and type
// and derives collision-free output filenames for them.
package captions

import (
	"fmt"

	"github.com/Belphemur/ChannelSubs/internal/apperrors"
	"github.com/Belphemur/ChannelSubs/internal/models"
)

// Extension is appended to every caption filename.
const Extension = ".vtt"

// Group partitions captions by (locale, type), keeping arrival order within
// each group. A record missing a required field yields *apperrors.ErrMalformedRecord.
func Group(captions []models.CaptionRecord) (*OrderedMultiMap[models.CaptionKey, models.CaptionRecord], error) {
	groups := NewOrderedMultiMap[models.CaptionKey, models.CaptionRecord]()
	for i, c := range captions {
		if err := validate(i, c); err != nil {
			return nil, err
		}
		groups.Add(c.Key(), c)
	}
	return groups, nil
}

func validate(index int, c models.CaptionRecord) error {
	switch {
	case c.Locale == "":
		return &apperrors.ErrMalformedRecord{Field: "locale", Index: index}
	case c.Type == "":
		return &apperrors.ErrMalformedRecord{Field: "type", Index: index}
	case c.Source == "":
		return &apperrors.ErrMalformedRecord{Field: "source", Index: index}
	}
	return nil
}

// NameCaptions computes the output file of every caption to download.
//
// Groups are emitted in first-seen order. A lone caption is named
// "{base}.{locale}_{type}.vtt"; members of a larger group get a 1-based
// suffix, "{base}.{locale}_{type}_{i}.vtt". With dupesOnly, groups holding a
// single caption are left out.
func NameCaptions(baseFilename string, captions []models.CaptionRecord, dupesOnly bool) ([]models.NamedCaptionFile, error) {
	groups, err := Group(captions)
	if err != nil {
		return nil, err
	}

	named := make([]models.NamedCaptionFile, 0, len(captions))
	groups.Each(func(key models.CaptionKey, members []models.CaptionRecord) {
		if dupesOnly && len(members) < 2 {
			return
		}
		for i, c := range members {
			named = append(named, models.NamedCaptionFile{
				Filename:  filename(baseFilename, key, i+1, len(members)),
				SourceURL: c.Source,
				Key:       key,
				Index:     i + 1,
			})
		}
	})
	return named, nil
}

func filename(base string, key models.CaptionKey, index, groupSize int) string {
	if groupSize == 1 {
		return fmt.Sprintf("%s.%s_%s%s", base, key.Locale, key.Type, Extension)
	}
	return fmt.Sprintf("%s.%s_%s_%d%s", base, key.Locale, key.Type, index, Extension)
}
