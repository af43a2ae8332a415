package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devpureza/liga-expo/internal/model"
)

// fakeMinio implements minioAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      bool

	objects map[string][]byte
	putErr  error
	getErr  error
	readErr error

	removed   []string
	removeErr error
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}
func (f *fakeMinio) MakeBucket(_ context.Context, _ string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = true
	return f.makeBucketErr
}
func (f *fakeMinio) PutObject(_ context.Context, _ string, name string, r io.Reader, _ int64, _ minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	if f.putErr != nil {
		return minioLib.UploadInfo{}, f.putErr
	}
	data, _ := io.ReadAll(r)
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[name] = data
	return minioLib.UploadInfo{Key: name, Size: int64(len(data))}, nil
}
func (f *fakeMinio) GetObject(_ context.Context, _ string, name string, _ minioLib.GetObjectOptions) (io.ReadCloser, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.readErr != nil {
		return io.NopCloser(&failingReader{err: f.readErr}), nil
	}
	data, ok := f.objects[name]
	if !ok {
		return io.NopCloser(&failingReader{err: minioLib.ErrorResponse{Code: noSuchKey}}), nil
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
func (f *fakeMinio) RemoveObject(_ context.Context, _ string, name string, _ minioLib.RemoveObjectOptions) error {
	f.removed = append(f.removed, name)
	delete(f.objects, name)
	return f.removeErr
}

type failingReader struct{ err error }

func (r *failingReader) Read(_ []byte) (int, error) { return 0, r.err }

func TestNewClientWithAPI_BucketExists(t *testing.T) {
	api := &fakeMinio{bucketExists: true}
	c, err := NewClientWithAPI(context.Background(), api, "b", "default")
	require.NoError(t, err)
	assert.Equal(t, "b", c.bucket)
	assert.Equal(t, "sessions/default", c.prefix)
	assert.False(t, api.madeBucket)
}

func TestNewClientWithAPI_CreateBucket(t *testing.T) {
	api := &fakeMinio{bucketExists: false}
	_, err := NewClientWithAPI(context.Background(), api, "bucket", "default")
	require.NoError(t, err)
	assert.True(t, api.madeBucket)
}

func TestNewClientWithAPI_Errors(t *testing.T) {
	t.Run("bucket exists error", func(t *testing.T) {
		c, err := NewClientWithAPI(context.Background(), &fakeMinio{bucketExistsErr: errors.New("boom")}, "bucket", "ns")
		assert.Nil(t, c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to ensure bucket exists")
	})

	t.Run("make bucket error", func(t *testing.T) {
		c, err := NewClientWithAPI(context.Background(), &fakeMinio{makeBucketErr: errors.New("fail")}, "bucket", "ns")
		assert.Nil(t, c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to ensure bucket exists")
	})
}

func TestClient_PutGet(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{}
	c := &Client{api: api, bucket: "b", prefix: "sessions/ops"}

	require.NoError(t, c.Put(ctx, model.SlotToken, []byte("abc")))
	assert.Contains(t, api.objects, "sessions/ops/auth_token")

	data, err := c.Get(ctx, model.SlotToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)

	_, err = c.Get(ctx, model.SlotUser)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestClient_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("put", func(t *testing.T) {
		c := &Client{api: &fakeMinio{putErr: errors.New("put-fail")}, bucket: "b"}
		err := c.Put(ctx, "k", []byte("v"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upload object")
	})

	t.Run("get", func(t *testing.T) {
		c := &Client{api: &fakeMinio{getErr: errors.New("get-fail")}, bucket: "b"}
		_, err := c.Get(ctx, "k")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get object")
	})

	t.Run("read", func(t *testing.T) {
		c := &Client{api: &fakeMinio{readErr: errors.New("reset")}, bucket: "b"}
		_, err := c.Get(ctx, "k")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read object")
	})
}

func TestClient_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes every key", func(t *testing.T) {
		api := &fakeMinio{objects: map[string][]byte{"p/auth_token": []byte("t")}}
		c := &Client{api: api, bucket: "b", prefix: "p"}
		require.NoError(t, c.Delete(ctx, model.SlotToken, model.SlotUser))
		assert.Equal(t, []string{"p/auth_token", "p/user_data"}, api.removed)
		assert.Empty(t, api.objects)
	})

	t.Run("missing key is ignored", func(t *testing.T) {
		api := &fakeMinio{removeErr: minioLib.ErrorResponse{Code: noSuchKey}}
		c := &Client{api: api, bucket: "b", prefix: "p"}
		assert.NoError(t, c.Delete(ctx, "k"))
	})

	t.Run("error", func(t *testing.T) {
		api := &fakeMinio{removeErr: errors.New("denied")}
		c := &Client{api: api, bucket: "b", prefix: "p"}
		err := c.Delete(ctx, "k")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete object")
	})
}
