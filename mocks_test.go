package grabbieldb_test

import (
	"context"
	"io"

	"github.com/grabbiel/grabbieldb"
	"github.com/stretchr/testify/mock"
)

type SpyMediaRepo struct {
	mock.Mock
}

func (s *SpyMediaRepo) ListImages(ctx context.Context, limit int) ([]grabbieldb.Image, error) {
	args := s.Called(ctx, limit)
	return args.Get(0).([]grabbieldb.Image), args.Error(1)
}

func (s *SpyMediaRepo) ListVideos(ctx context.Context, limit int) ([]grabbieldb.Video, error) {
	args := s.Called(ctx, limit)
	return args.Get(0).([]grabbieldb.Video), args.Error(1)
}

func (s *SpyMediaRepo) GetImage(ctx context.Context, id int64) (grabbieldb.Image, error) {
	args := s.Called(ctx, id)
	return args.Get(0).(grabbieldb.Image), args.Error(1)
}

func (s *SpyMediaRepo) GetVideo(ctx context.Context, id int64) (grabbieldb.Video, error) {
	args := s.Called(ctx, id)
	return args.Get(0).(grabbieldb.Video), args.Error(1)
}

func (s *SpyMediaRepo) InsertImage(ctx context.Context, img grabbieldb.Image) (grabbieldb.Image, error) {
	args := s.Called(ctx, img)
	return args.Get(0).(grabbieldb.Image), args.Error(1)
}

func (s *SpyMediaRepo) InsertVideo(ctx context.Context, v grabbieldb.Video) (grabbieldb.Video, error) {
	args := s.Called(ctx, v)
	return args.Get(0).(grabbieldb.Video), args.Error(1)
}

func (s *SpyMediaRepo) DeleteImage(ctx context.Context, id int64) error {
	return s.Called(ctx, id).Error(0)
}

func (s *SpyMediaRepo) DeleteVideo(ctx context.Context, id int64) error {
	return s.Called(ctx, id).Error(0)
}

type SpySpool struct {
	mock.Mock
}

func (s *SpySpool) Write(ctx context.Context, name string, content io.Reader) (grabbieldb.SaveResult, error) {
	args := s.Called(ctx, name, content)
	return args.Get(0).(grabbieldb.SaveResult), args.Error(1)
}

func (s *SpySpool) Remove(ctx context.Context, name string) error {
	return s.Called(ctx, name).Error(0)
}

type SpyObjectStore struct {
	mock.Mock
}

func (s *SpyObjectStore) Upload(ctx context.Context, localPath, remotePath string, public bool) error {
	return s.Called(ctx, localPath, remotePath, public).Error(0)
}

func (s *SpyObjectStore) Delete(ctx context.Context, remotePath string) error {
	return s.Called(ctx, remotePath).Error(0)
}

type SpySchemaRepo struct {
	mock.Mock
}

func (s *SpySchemaRepo) Tables(ctx context.Context) ([]string, error) {
	args := s.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (s *SpySchemaRepo) Columns(ctx context.Context, table string) ([]grabbieldb.Column, error) {
	args := s.Called(ctx, table)
	return args.Get(0).([]grabbieldb.Column), args.Error(1)
}

func (s *SpySchemaRepo) Rows(ctx context.Context, table, keyCol string, limit, offset int) ([]grabbieldb.Row, error) {
	args := s.Called(ctx, table, keyCol, limit, offset)
	return args.Get(0).([]grabbieldb.Row), args.Error(1)
}

func (s *SpySchemaRepo) Row(ctx context.Context, table, keyCol, key string) (grabbieldb.Row, error) {
	args := s.Called(ctx, table, keyCol, key)
	return args.Get(0).(grabbieldb.Row), args.Error(1)
}

func (s *SpySchemaRepo) Insert(ctx context.Context, table string, values map[string]grabbieldb.Value) error {
	return s.Called(ctx, table, values).Error(0)
}

func (s *SpySchemaRepo) Update(ctx context.Context, table, keyCol, key string, values map[string]grabbieldb.Value) error {
	return s.Called(ctx, table, keyCol, key, values).Error(0)
}

func (s *SpySchemaRepo) Delete(ctx context.Context, table, keyCol, key string) error {
	return s.Called(ctx, table, keyCol, key).Error(0)
}
