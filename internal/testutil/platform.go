package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Belphemur/ChannelSubs/internal/models"
)

// FakeVideo describes a video served by FakePlatform.
type FakeVideo struct {
	Seq       string
	Title     string
	CreatedAt time.Time
	Captions  []models.CaptionRecord
	Sources   []models.VideoSource

	// PlayInfoFailures is the number of 503 responses served before play info succeeds.
	PlayInfoFailures int
	// PlayInfoErrorCode, when set, makes play info answer with an API error payload.
	PlayInfoErrorCode string
}

// FakePost is a board post, optionally carrying an official video.
type FakePost struct {
	PostID string
	Title  string
	Video  *FakeVideo
}

// FakePlatform is an httptest server imitating the platform API, its CDN and
// its public video pages. It is a test helper and should not be used in production code.
type FakePlatform struct {
	Server *httptest.Server

	mu       sync.Mutex
	channels map[string]string
	boards   map[string][]FakePost
	videos   map[string]*FakeVideo
	captions map[string]string
	media    map[string][]byte
	pages    map[string]string
	failures map[string]int
	requests map[string]int
}

// NewFakePlatform starts a fake platform that is closed when the test ends.
func NewFakePlatform(t *testing.T) *FakePlatform {
	t.Helper()
	p := &FakePlatform{
		channels: make(map[string]string),
		boards:   make(map[string][]FakePost),
		videos:   make(map[string]*FakeVideo),
		captions: make(map[string]string),
		media:    make(map[string][]byte),
		pages:    make(map[string]string),
		failures: make(map[string]int),
		requests: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/channels/{code}", p.handleChannel)
	mux.HandleFunc("GET /api/channels/{code}/boards/{board}/posts", p.handleBoardPosts)
	mux.HandleFunc("GET /api/videos/{seq}/playInfo", p.handlePlayInfo)
	mux.HandleFunc("GET /captions/{name}", p.handleCaption)
	mux.HandleFunc("GET /media/{name}", p.handleMedia)
	mux.HandleFunc("GET /video/{seq}", p.handlePage)

	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.requests[r.URL.Path]++
		p.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(p.Server.Close)
	return p
}

// APIBaseURL is the value to use as api_base_url.
func (p *FakePlatform) APIBaseURL() string {
	return p.Server.URL + "/api"
}

// VideoPageURL returns the public page URL of a video.
func (p *FakePlatform) VideoPageURL(seq string) string {
	return p.Server.URL + "/video/" + seq
}

// AddChannel registers a channel name.
func (p *FakePlatform) AddChannel(code, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channels[code] = name
}

// AddBoard registers the posts of a board; their videos are registered too.
func (p *FakePlatform) AddBoard(code, boardID string, posts ...FakePost) {
	p.mu.Lock()
	p.boards[code+"/"+boardID] = append(p.boards[code+"/"+boardID], posts...)
	p.mu.Unlock()
	for _, post := range posts {
		if post.Video != nil {
			p.AddVideo(post.Video)
		}
	}
}

// AddVideo registers play info for a video.
func (p *FakePlatform) AddVideo(v *FakeVideo) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.videos[v.Seq] = v
	p.failures[v.Seq] = v.PlayInfoFailures
}

// AddCaption serves content as a caption file and returns its URL.
func (p *FakePlatform) AddCaption(name, content string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.captions[name] = content
	return p.Server.URL + "/captions/" + name
}

// AddMedia serves content as a video file and returns its URL.
func (p *FakePlatform) AddMedia(name string, content []byte) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.media[name] = content
	return p.Server.URL + "/media/" + name
}

// AddVideoPage serves html as the public page of a video and returns its URL.
func (p *FakePlatform) AddVideoPage(seq, html string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pages[seq] = html
	return p.VideoPageURL(seq)
}

// Requests returns how many times path was requested.
func (p *FakePlatform) Requests(path string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests[path]
}

// VideoPageHTML renders a minimal video page carrying the meta tags the scraper reads.
func VideoPageHTML(title, channel string, released time.Time) string {
	return fmt.Sprintf(`<html><head>
<meta charset="utf-8">
<meta property="og:title" content="%s">
<meta name="channel-name" content="%s">
<meta property="video:release_date" content="%s">
</head><body></body></html>`, title, channel, released.Format(time.RFC3339))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (p *FakePlatform) handleChannel(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	name, ok := p.channels[r.PathValue("code")]
	p.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]string{"channelCode": r.PathValue("code"), "channelName": name})
}

func (p *FakePlatform) handleBoardPosts(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	posts, ok := p.boards[r.PathValue("code")+"/"+r.PathValue("board")]
	p.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = len(posts)
	}
	offset := 0
	if after := r.URL.Query().Get("after"); after != "" {
		offset, _ = strconv.Atoi(after)
	}
	end := min(offset+limit, len(posts))
	if offset > end {
		offset = end
	}

	data := make([]map[string]any, 0, end-offset)
	for _, post := range posts[offset:end] {
		item := map[string]any{"postId": post.PostID, "title": post.Title}
		if v := post.Video; v != nil {
			seq, _ := strconv.ParseInt(v.Seq, 10, 64)
			video := map[string]any{"videoSeq": seq, "title": v.Title}
			if !v.CreatedAt.IsZero() {
				video["createdAt"] = v.CreatedAt.UnixMilli()
			}
			item["officialVideo"] = video
		}
		data = append(data, item)
	}

	resp := map[string]any{"data": data}
	if end < len(posts) {
		resp["paging"] = map[string]any{"nextParams": map[string]string{"after": strconv.Itoa(end)}}
	}
	writeJSON(w, resp)
}

func (p *FakePlatform) handlePlayInfo(w http.ResponseWriter, r *http.Request) {
	seq := r.PathValue("seq")

	p.mu.Lock()
	v, ok := p.videos[seq]
	failing := p.failures[seq] > 0
	if failing {
		p.failures[seq]--
	}
	p.mu.Unlock()

	switch {
	case !ok:
		http.NotFound(w, r)
		return
	case failing:
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	case v.PlayInfoErrorCode != "":
		writeJSON(w, map[string]string{"errorCode": v.PlayInfoErrorCode, "message": "play info unavailable"})
		return
	}

	captions := make([]map[string]string, 0, len(v.Captions))
	for _, c := range v.Captions {
		captions = append(captions, map[string]string{
			"locale": c.Locale,
			"type":   c.Type,
			"label":  c.Label,
			"source": c.Source,
		})
	}
	videos := make([]map[string]any, 0, len(v.Sources))
	for _, s := range v.Sources {
		videos = append(videos, map[string]any{
			"source":         s.Source,
			"encodingOption": map[string]int{"height": s.Height},
			"bitrate":        map[string]float64{"video": s.Bitrate},
		})
	}
	writeJSON(w, map[string]any{
		"captions": map[string]any{"list": captions},
		"videos":   map[string]any{"list": videos},
	})
}

func (p *FakePlatform) handleCaption(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	content, ok := p.captions[r.PathValue("name")]
	p.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/vtt")
	_, _ = w.Write([]byte(content))
}

func (p *FakePlatform) handleMedia(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	content, ok := p.media[r.PathValue("name")]
	p.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "video/mp4")
	_, _ = w.Write(content)
}

func (p *FakePlatform) handlePage(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	html, ok := p.pages[r.PathValue("seq")]
	p.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}
