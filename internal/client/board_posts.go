package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Belphemur/ChannelSubs/internal/config"
	"github.com/Belphemur/ChannelSubs/internal/models"
	"github.com/Belphemur/ChannelSubs/internal/retry"
)

type boardPostsResponse struct {
	Data []struct {
		PostID        string `json:"postId"`
		Title         string `json:"title"`
		OfficialVideo *struct {
			VideoSeq  json.Number `json:"videoSeq"`
			Title     string      `json:"title"`
			CreatedAt int64       `json:"createdAt"` // Unix milliseconds
		} `json:"officialVideo"`
	} `json:"data"`
	Paging struct {
		NextParams struct {
			After string `json:"after"`
		} `json:"nextParams"`
	} `json:"paging"`
}

// StreamBoardPosts walks the board page by page following the "after" cursor.
// Pages are requested only as fast as the consumer reads posts.
func (c *client) StreamBoardPosts(ctx context.Context, board models.ChannelBoard) <-chan models.StreamResult[models.BoardPost] {
	ch := make(chan models.StreamResult[models.BoardPost])

	go func() {
		defer close(ch)
		logger := config.GetLogger()
		logger.Info().
			Str("channel_code", board.ChannelCode).
			Str("board_id", board.BoardID).
			Msg("Streaming board posts")

		send := func(result models.StreamResult[models.BoardPost]) bool {
			select {
			case ch <- result:
				return true
			case <-ctx.Done():
				return false
			}
		}

		after := ""
		pages, posts := 0, 0
		for {
			page, err := c.fetchBoardPage(ctx, board, after)
			if err != nil {
				send(models.StreamResult[models.BoardPost]{Err: err})
				return
			}
			pages++

			for _, post := range page.Data {
				bp := models.BoardPost{PostID: post.PostID, Title: post.Title}
				if v := post.OfficialVideo; v != nil {
					bp.OfficialVideo = &models.OfficialVideo{
						VideoSeq: v.VideoSeq.String(),
						Title:    v.Title,
					}
					// A missing createdAt means the upload date is unknown, not 1970
					if v.CreatedAt != 0 {
						bp.OfficialVideo.CreatedAt = time.UnixMilli(v.CreatedAt).UTC()
					}
				}
				if !send(models.StreamResult[models.BoardPost]{Value: bp}) {
					return
				}
				posts++
			}

			next := page.Paging.NextParams.After
			if next == "" || next == after || len(page.Data) == 0 {
				break
			}
			after = next
		}

		logger.Debug().
			Str("board_id", board.BoardID).
			Int("pages", pages).
			Int("posts", posts).
			Msg("Completed board enumeration")
	}()

	return ch
}

func (c *client) fetchBoardPage(ctx context.Context, board models.ChannelBoard, after string) (boardPostsResponse, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(c.pageSize))
	if after != "" {
		query.Set("after", after)
	}

	target, err := c.endpointURL(query, "channels", board.ChannelCode, "boards", board.BoardID, "posts")
	if err != nil {
		return boardPostsResponse{}, err
	}

	page, err := retry.Do(ctx, c.pageRetry, func(ctx context.Context) (boardPostsResponse, error) {
		var page boardPostsResponse
		err := c.getJSON(ctx, "board_posts", target, &page)
		return page, err
	})
	if err != nil {
		return boardPostsResponse{}, fmt.Errorf("fetch board %s/%s page: %w", board.ChannelCode, board.BoardID, err)
	}
	return page, nil
}
