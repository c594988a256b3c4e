package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vid = "3f2504e0-4f89-41d3-9a0c-0305e82c3301"

func TestResolve_BareIDAndEmbedURL(t *testing.T) {
	r := NewResolver("https://vz-kambafy.b-cdn.net/")

	for _, ref := range []string{
		vid,
		"https://iframe.mediadelivery.net/embed/12345/" + vid,
		"https://iframe.mediadelivery.net/play/12345/" + vid + "?autoplay=true",
	} {
		src, err := r.Resolve(ref)
		require.NoError(t, err, ref)
		assert.Equal(t, KindHLS, src.Kind)
		assert.Equal(t, "https://vz-kambafy.b-cdn.net/"+vid+"/playlist.m3u8", src.URL)
		assert.Equal(t, "https://vz-kambafy.b-cdn.net/"+vid+"/thumbnail.jpg", src.ThumbnailURL)
		assert.Equal(t, vid, src.VideoID)
	}
}

func TestResolve_PassThrough(t *testing.T) {
	r := NewResolver("vz-kambafy.b-cdn.net")

	src, err := r.Resolve("https://www.youtube.com/watch?v=abc123")
	require.NoError(t, err)
	assert.Equal(t, KindYouTube, src.Kind)
	assert.Equal(t, "abc123", src.VideoID)

	src, _ = r.Resolve("https://youtu.be/xyz")
	assert.Equal(t, "xyz", src.VideoID)

	src, _ = r.Resolve("https://vimeo.com/76979871")
	assert.Equal(t, KindVimeo, src.Kind)
	assert.Equal(t, "76979871", src.VideoID)

	src, _ = r.Resolve("https://cdn.example.com/a/master.m3u8")
	assert.Equal(t, KindHLS, src.Kind)

	src, _ = r.Resolve("https://cdn.example.com/a/aula.mp4")
	assert.Equal(t, KindDirect, src.Kind)
}

func TestResolve_Empty(t *testing.T) {
	_, err := NewResolver("").Resolve("  ")
	assert.ErrorIs(t, err, ErrEmptyRef)
}

func TestResolve_NoCDNHostKeepsID(t *testing.T) {
	src, err := NewResolver("").Resolve(vid)
	require.NoError(t, err)
	assert.Empty(t, src.URL)
	assert.Equal(t, vid, src.VideoID)
}
