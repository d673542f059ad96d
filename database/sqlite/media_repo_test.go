package sqlite_test

import (
	"context"
	"testing"

	"github.com/grabbiel/grabbieldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleImage(name string) grabbieldb.Image {
	return grabbieldb.Image{
		OriginalURL:      "https://storage.googleapis.com/media/images/originals/" + name,
		Filename:         name,
		MimeType:         "image/png",
		Size:             1024,
		Width:            640,
		Height:           480,
		ContentID:        3,
		ImageType:        "content",
		ProcessingStatus: grabbieldb.StatusComplete,
	}
}

func TestMediaRepo_InsertAndGetImage(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := db.MediaRepo()
	ctx := context.Background()

	created, err := repo.InsertImage(ctx, sampleImage("a.png"))
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	got, err := repo.GetImage(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestMediaRepo_ListImages_NewestFirstWithLimit(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := db.MediaRepo()
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"1.png", "2.png", "3.png"} {
		img, err := repo.InsertImage(ctx, sampleImage(name))
		require.NoError(t, err)
		ids = append(ids, img.ID)
	}

	images, err := repo.ListImages(ctx, 2)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, ids[2], images[0].ID)
	assert.Equal(t, ids[1], images[1].ID)
}

func TestMediaRepo_ListImages_Empty(t *testing.T) {
	db, _ := setupTestDB(t)

	images, err := db.MediaRepo().ListImages(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, images)
	assert.Empty(t, images)
}

func TestMediaRepo_DeleteImage(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := db.MediaRepo()
	ctx := context.Background()

	img, err := repo.InsertImage(ctx, sampleImage("gone.png"))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteImage(ctx, img.ID))

	_, err = repo.GetImage(ctx, img.ID)
	assert.ErrorIs(t, err, grabbieldb.ErrNotFound)

	err = repo.DeleteImage(ctx, img.ID)
	assert.ErrorIs(t, err, grabbieldb.ErrNotFound)
}

func TestMediaRepo_Videos(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := db.MediaRepo()
	ctx := context.Background()

	v, err := repo.InsertVideo(ctx, grabbieldb.Video{
		Title:            "Intro",
		GCSPath:          "gs://media/videos/originals/intro.mp4",
		MimeType:         "video/mp4",
		SizeBytes:        5 << 20,
		DurationSeconds:  42,
		ContentID:        1,
		ProcessingStatus: grabbieldb.StatusComplete,
	})
	require.NoError(t, err)

	got, err := repo.GetVideo(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	list, err := repo.ListVideos(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []grabbieldb.Video{v}, list)

	require.NoError(t, repo.DeleteVideo(ctx, v.ID))
	_, err = repo.GetVideo(ctx, v.ID)
	assert.ErrorIs(t, err, grabbieldb.ErrNotFound)
}

func TestMediaRepo_ColumnDefaults(t *testing.T) {
	db, tables := setupTestDB(t)
	ctx := context.Background()

	schema := db.SchemaRepo()
	require.NoError(t, schema.Insert(ctx, tables.Videos, map[string]grabbieldb.Value{
		"title":     {Text: "legacy"},
		"gcs_path":  {Text: ""},
		"mime_type": {Text: "video/mp4"},
	}))

	list, err := db.MediaRepo().ListVideos(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "legacy", list[0].Title)
	assert.Equal(t, "pending", list[0].ProcessingStatus)
	assert.Zero(t, list[0].DurationSeconds)
}
