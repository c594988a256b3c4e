// Package video turns stored lesson video references into playable sources.
package video

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

type Kind string

const (
	KindHLS     Kind = "hls"
	KindYouTube Kind = "youtube"
	KindVimeo   Kind = "vimeo"
	KindDirect  Kind = "direct"
)

var ErrEmptyRef = errors.New("empty video reference")

var videoIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type Source struct {
	Kind         Kind   `json:"kind"`
	URL          string `json:"url"`
	VideoID      string `json:"video_id,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// Resolver builds CDN URLs. CDNHost is the pull zone serving /{videoID}/playlist.m3u8.
type Resolver struct {
	CDNHost string
}

func NewResolver(cdnHost string) *Resolver {
	return &Resolver{CDNHost: strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(cdnHost, "https://"), "http://"), "/")}
}

// Resolve accepts a bare video id, a player/embed URL, or any other media URL.
func (r *Resolver) Resolve(ref string) (Source, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Source{}, ErrEmptyRef
	}

	if videoIDPattern.MatchString(ref) {
		return r.hls(ref), nil
	}

	u, err := url.Parse(ref)
	if err != nil || u.Host == "" {
		return Source{Kind: KindDirect, URL: ref}, nil
	}

	host := strings.ToLower(u.Host)
	switch {
	case strings.HasSuffix(host, "mediadelivery.net"):
		if id := embedVideoID(u.Path); id != "" {
			return r.hls(id), nil
		}
	case strings.Contains(host, "youtube.com") || host == "youtu.be":
		return Source{Kind: KindYouTube, URL: ref, VideoID: youtubeID(u)}, nil
	case strings.Contains(host, "vimeo.com"):
		return Source{Kind: KindVimeo, URL: ref, VideoID: lastSegment(u.Path)}, nil
	}

	if strings.HasSuffix(strings.ToLower(u.Path), ".m3u8") {
		return Source{Kind: KindHLS, URL: ref}, nil
	}
	return Source{Kind: KindDirect, URL: ref}, nil
}

func (r *Resolver) hls(videoID string) Source {
	if r.CDNHost == "" {
		return Source{Kind: KindHLS, VideoID: videoID}
	}
	base := "https://" + r.CDNHost + "/" + videoID
	return Source{
		Kind:         KindHLS,
		URL:          base + "/playlist.m3u8",
		VideoID:      videoID,
		ThumbnailURL: base + "/thumbnail.jpg",
	}
}

// embedVideoID reads /embed/{library}/{video} and /play/{library}/{video}.
func embedVideoID(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 3 {
		return ""
	}
	if parts[0] != "embed" && parts[0] != "play" {
		return ""
	}
	if !videoIDPattern.MatchString(parts[2]) {
		return ""
	}
	return parts[2]
}

func youtubeID(u *url.URL) string {
	if strings.EqualFold(u.Host, "youtu.be") {
		return lastSegment(u.Path)
	}
	if v := u.Query().Get("v"); v != "" {
		return v
	}
	return lastSegment(u.Path)
}

func lastSegment(path string) string {
	path = strings.Trim(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
