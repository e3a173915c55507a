package models

import "time"

// ChannelBoard identifies a channel's content feed.
type ChannelBoard struct {
	ChannelCode string
	BoardID     string
}

// Channel holds the public information of a channel.
type Channel struct {
	Code string
	Name string
}

// BoardPost is a single post enumerated from a channel board.
type BoardPost struct {
	PostID        string
	Title         string
	OfficialVideo *OfficialVideo
}

// HasOfficialVideo reports whether the post references an official video.
func (p BoardPost) HasOfficialVideo() bool {
	return p.OfficialVideo != nil && p.OfficialVideo.VideoSeq != ""
}

// OfficialVideo is the video referenced by a post or a video page.
type OfficialVideo struct {
	VideoSeq    string
	Title       string
	ChannelName string // Only filled when scraped from a video page
	CreatedAt   time.Time
}
