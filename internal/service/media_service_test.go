package service

import (
	"context"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectshelf/internal/domain"
	"projectshelf/internal/storage"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string]string
	types   map[string]string
}

func newMemStore() *memStore {
	return &memStore{objects: map[string]string{}, types: map[string]string{}}
}

func (m *memStore) Put(_ context.Context, body io.Reader, opts storage.PutOptions) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[opts.Key] = string(data)
	m.types[opts.Key] = opts.ContentType
	return nil
}

func (m *memStore) ListObjects(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []storage.ObjectInfo
	for k, v := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, storage.ObjectInfo{Key: k, Size: int64(len(v))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memStore) GetObjectURL(_ context.Context, key string, expires time.Duration) (string, error) {
	return "https://media.test/" + key + "?ttl=" + expires.String(), nil
}

func newTestMediaService(store storage.Service) MediaService {
	return NewMediaService(store, MediaConfig{KeyPrefix: "/portfolio-media/", MaxUploadBytes: 8, URLTTL: time.Hour}, quietLogger())
}

func upload(body, name, contentType string) MediaUpload {
	return MediaUpload{FileName: name, ContentType: contentType, Size: int64(len(body)), Body: strings.NewReader(body)}
}

func TestMediaUpload(t *testing.T) {
	store := newMemStore()
	svc := newTestMediaService(store)

	obj, err := svc.Upload(context.Background(), "u1", upload("png", "Shot.PNG", "image/png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(obj.Key, "portfolio-media/u1/"))
	assert.True(t, strings.HasSuffix(obj.Key, ".png"))
	assert.Equal(t, "https://media.test/"+obj.Key+"?ttl=1h0m0s", obj.URL)
	assert.Equal(t, "png", store.objects[obj.Key])
	assert.Equal(t, "image/png", store.types[obj.Key])

	obj, err = svc.Upload(context.Background(), "u1", upload("jpg", "", "image/jpeg"))
	require.NoError(t, err)
	assert.NotEmpty(t, path.Ext(obj.Key), "extension derived from the content type")
}

func TestMediaUploadValidation(t *testing.T) {
	svc := newTestMediaService(newMemStore())
	ctx := context.Background()

	_, err := svc.Upload(ctx, "u1", upload("text", "a.txt", "text/plain"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Upload(ctx, "u1", upload("", "a.png", "image/png"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Upload(ctx, "u1", upload("too large!", "a.png", "image/png"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMediaListAndDeleteAreOwnerScoped(t *testing.T) {
	store := newMemStore()
	svc := newTestMediaService(store)
	ctx := context.Background()

	mine, err := svc.Upload(ctx, "u1", upload("a", "a.png", "image/png"))
	require.NoError(t, err)
	_, err = svc.Upload(ctx, "u2", upload("b", "b.png", "image/png"))
	require.NoError(t, err)

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.Key, list[0].Key)
	assert.NotEmpty(t, list[0].URL)

	require.ErrorIs(t, svc.Delete(ctx, "u2", mine.Key), domain.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, "u2", "portfolio-media/u2/../u1/"+mine.Key[len("portfolio-media/u1/"):]), domain.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, "u1", mine.Key))

	list, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
