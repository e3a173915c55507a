package client

import (
	"context"

	"github.com/Belphemur/ChannelSubs/internal/models"
)

type playInfoResponse struct {
	Captions struct {
		List []models.CaptionRecord `json:"list"`
	} `json:"captions"`
	Videos struct {
		List []struct {
			Source         string `json:"source"`
			EncodingOption struct {
				Height int `json:"height"`
			} `json:"encodingOption"`
			Bitrate struct {
				Video float64 `json:"video"`
			} `json:"bitrate"`
		} `json:"list"`
	} `json:"videos"`
}

// GetPlayInfo fetches the captions and video sources of a video in a single
// attempt. Callers decide how to retry.
func (c *client) GetPlayInfo(ctx context.Context, videoSeq string) (models.PlayInfo, error) {
	target, err := c.endpointURL(nil, "videos", videoSeq, "playInfo")
	if err != nil {
		return models.PlayInfo{}, err
	}

	var resp playInfoResponse
	if err := c.getJSON(ctx, "play_info", target, &resp); err != nil {
		return models.PlayInfo{}, err
	}

	info := models.PlayInfo{Captions: resp.Captions.List}
	for _, v := range resp.Videos.List {
		info.Videos = append(info.Videos, models.VideoSource{
			Source:  v.Source,
			Height:  v.EncodingOption.Height,
			Bitrate: v.Bitrate.Video,
		})
	}
	return info, nil
}
