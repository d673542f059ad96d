package clientcli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grabbiel/grabbieldb"
	"github.com/grabbiel/grabbieldb/clientcli"
)

func TestNewFormatter(t *testing.T) {
	_, ok := clientcli.NewFormatter(true, false).(*clientcli.JSONFormatter)
	assert.True(t, ok)

	hf, ok := clientcli.NewFormatter(false, true).(*clientcli.HumanFormatter)
	require.True(t, ok)
	assert.True(t, hf.Quiet)
}

func TestHumanFormatter_FormatUpload(t *testing.T) {
	result := clientcli.UploadResult{
		Kind:      clientcli.KindImage,
		LocalPath: "./cover.png",
		Filename:  "cover.png",
		Size:      2048,
		ID:        42,
		URL:       "https://cdn/cover.png",
	}

	t.Run("success", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatUpload(&buf, result))

		out := buf.String()
		assert.Contains(t, out, "Uploaded image: cover.png (2.0 kB)")
		assert.Contains(t, out, "ID:  42")
		assert.Contains(t, out, "URL: https://cdn/cover.png")
	})

	t.Run("quiet", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{Quiet: true}).FormatUpload(&buf, result))
		assert.Empty(t, buf.String())
	})

	t.Run("error always shown", func(t *testing.T) {
		failed := result
		failed.Err = clientcli.ErrNotConfirmed

		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{Quiet: true}).FormatUpload(&buf, failed))
		assert.Contains(t, buf.String(), "Error: ./cover.png - upload not confirmed")
	})
}

func TestHumanFormatter_FormatDelete(t *testing.T) {
	results := []clientcli.DeleteResult{
		{Kind: clientcli.KindVideo, ID: 3, Deleted: true},
		{Kind: clientcli.KindVideo, ID: 4, Err: errors.New("boom")},
	}

	var buf bytes.Buffer
	require.NoError(t, (&clientcli.HumanFormatter{}).FormatDelete(&buf, results))
	assert.Contains(t, buf.String(), "Deleted video 3")
	assert.Contains(t, buf.String(), "Error: video 4 - boom")

	buf.Reset()
	require.NoError(t, (&clientcli.HumanFormatter{Quiet: true}).FormatDelete(&buf, results))
	assert.NotContains(t, buf.String(), "Deleted")
	assert.Contains(t, buf.String(), "Error: video 4")
}

func TestHumanFormatter_FormatList(t *testing.T) {
	t.Run("images", func(t *testing.T) {
		result := &clientcli.ListResult{Images: []grabbieldb.Image{
			{ID: 2, Filename: "b.png", Size: 1000, Width: 640, Height: 480, ImageType: "content", ContentID: 9},
		}}

		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatList(&buf, result))

		out := buf.String()
		assert.Contains(t, out, "FILENAME")
		assert.Contains(t, out, "b.png")
		assert.Contains(t, out, "640x480")
		assert.Contains(t, out, "1 item(s) (1.0 kB total)")
	})

	t.Run("videos", func(t *testing.T) {
		result := &clientcli.ListResult{Videos: []grabbieldb.Video{
			{ID: 5, Title: "Intro", SizeBytes: 3000, DurationSeconds: 125},
		}}

		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatList(&buf, result))
		assert.Contains(t, buf.String(), "Intro")
		assert.Contains(t, buf.String(), "2:05")
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatList(&buf, &clientcli.ListResult{}))
		assert.Equal(t, "No media found\n", buf.String())
	})
}

func TestHumanFormatter_FormatProfileList(t *testing.T) {
	profiles := []clientcli.Profile{
		{Name: "local", Endpoint: "http://127.0.0.1:8889"},
		{Name: "prod", Endpoint: "https://media.grabbiel.com", Storage: "private"},
	}

	var buf bytes.Buffer
	require.NoError(t, (&clientcli.HumanFormatter{}).FormatProfileList(&buf, profiles, "prod"))
	assert.Contains(t, buf.String(), "https://media.grabbiel.com")
	assert.Contains(t, buf.String(), "*")
}

func TestHumanFormatter_FormatProfileShow(t *testing.T) {
	var buf bytes.Buffer
	p := clientcli.Profile{Name: "prod", Endpoint: "https://media.grabbiel.com", Storage: "private"}
	require.NoError(t, (&clientcli.HumanFormatter{}).FormatProfileShow(&buf, p, true))
	assert.Contains(t, buf.String(), "Endpoint: https://media.grabbiel.com")
	assert.Contains(t, buf.String(), "Storage:  private")
	assert.Contains(t, buf.String(), "Default:  true")
}

func TestJSONFormatter(t *testing.T) {
	f := &clientcli.JSONFormatter{}

	t.Run("upload error", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatUpload(&buf, clientcli.UploadResult{
			Kind:     clientcli.KindVideo,
			Filename: "clip.mp4",
			Size:     4,
			Err:      clientcli.ErrNotConfirmed,
		}))

		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "video", got["kind"])
		assert.Equal(t, "clip.mp4", got["filename"])
		assert.Equal(t, "upload not confirmed", got["error"])
		assert.NotContains(t, got, "id")
	})

	t.Run("delete", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatDelete(&buf, []clientcli.DeleteResult{
			{Kind: clientcli.KindImage, ID: 1, Deleted: true},
			{Kind: clientcli.KindImage, ID: 2, Err: errors.New("boom")},
		}))

		var got struct {
			Results []struct {
				ID      int64  `json:"id"`
				Deleted bool   `json:"deleted"`
				Error   string `json:"error"`
			} `json:"results"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got.Results, 2)
		assert.True(t, got.Results[0].Deleted)
		assert.Equal(t, "boom", got.Results[1].Error)
	})

	t.Run("list", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatList(&buf, &clientcli.ListResult{
			Images: []grabbieldb.Image{{ID: 3, Filename: "c.png"}},
		}))

		var got clientcli.ListResult
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got.Images, 1)
		assert.Equal(t, "c.png", got.Images[0].Filename)
		assert.Nil(t, got.Videos)
	})

	t.Run("error", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatError(&buf, errors.New("nope")))
		assert.JSONEq(t, `{"error":"nope"}`, buf.String())
	})

	t.Run("profiles", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatProfileList(&buf, []clientcli.Profile{{Name: "local", Endpoint: "http://x"}}, "local"))
		assert.JSONEq(t, `{"profiles":[{"name":"local","endpoint":"http://x","default":true}]}`, buf.String())

		buf.Reset()
		require.NoError(t, f.FormatProfileShow(&buf, clientcli.Profile{Name: "local", Endpoint: "http://x"}, false))
		assert.JSONEq(t, `{"name":"local","endpoint":"http://x","default":false}`, buf.String())
	})
}
