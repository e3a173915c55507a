package client

import (
	"context"
	"fmt"

	"github.com/Belphemur/ChannelSubs/internal/config"
	"github.com/Belphemur/ChannelSubs/internal/models"
	"github.com/Belphemur/ChannelSubs/internal/retry"
)

type channelResponse struct {
	ChannelCode string `json:"channelCode"`
	ChannelName string `json:"channelName"`
}

// GetChannel resolves the display name of a channel.
func (c *client) GetChannel(ctx context.Context, channelCode string) (models.Channel, error) {
	target, err := c.endpointURL(nil, "channels", channelCode)
	if err != nil {
		return models.Channel{}, err
	}

	resp, err := retry.Do(ctx, c.pageRetry, func(ctx context.Context) (channelResponse, error) {
		var resp channelResponse
		err := c.getJSON(ctx, "channel", target, &resp)
		return resp, err
	})
	if err != nil {
		return models.Channel{}, fmt.Errorf("get channel %s: %w", channelCode, err)
	}

	channel := models.Channel{Code: channelCode, Name: resp.ChannelName}
	if channel.Name == "" {
		channel.Name = channelCode
	}

	logger := config.GetLogger()
	logger.Debug().Str("channel_code", channelCode).Str("channel_name", channel.Name).Msg("Resolved channel")
	return channel, nil
}
