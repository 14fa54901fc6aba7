package storage_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/storage"
)

// fakeS3 is an in-memory S3Client.
type fakeS3 struct {
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(params.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "not found"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	prefix := aws.ToString(params.Prefix)
	var out s3.ListObjectsV2Output
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
		}
	}
	return &out, nil
}

func newS3Storage(t *testing.T, client storage.S3Client, basePrefix string) *storage.S3 {
	t.Helper()
	s, err := storage.NewS3(context.Background(), storage.S3Config{
		Bucket:     "test-bucket",
		BasePrefix: basePrefix,
	}, storage.WithS3Client(client))
	require.NoError(t, err)
	return s
}

func TestNewS3(t *testing.T) {
	t.Parallel()

	t.Run("requires a bucket", func(t *testing.T) {
		t.Parallel()

		_, err := storage.NewS3(context.Background(), storage.S3Config{}, storage.WithS3Client(newFakeS3()))
		require.ErrorIs(t, err, storage.ErrInvalidConfig)
	})

	t.Run("requires a region without injected client", func(t *testing.T) {
		t.Parallel()

		_, err := storage.NewS3(context.Background(), storage.S3Config{Bucket: "b"})
		require.ErrorIs(t, err, storage.ErrInvalidConfig)
	})
}

func TestS3Scope(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("scoping isolates tenant keys", func(t *testing.T) {
		t.Parallel()

		client := newFakeS3()
		s := newS3Storage(t, client, "uploads")

		require.NoError(t, s.Scope(1))
		require.NoError(t, s.Save(ctx, "report.txt", strings.NewReader("tenant one")))
		assert.Contains(t, client.objects, "uploads/tenant_1/report.txt")

		require.NoError(t, s.Scope(2))
		_, err := s.Open(ctx, "report.txt")
		require.ErrorIs(t, err, storage.ErrNotFound)

		require.NoError(t, s.Scope(1))
		rc, err := s.Open(ctx, "report.txt")
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, rc.Close())
		require.NoError(t, err)
		assert.Equal(t, "tenant one", string(data))
	})

	t.Run("unscope restores base prefix", func(t *testing.T) {
		t.Parallel()

		s := newS3Storage(t, newFakeS3(), "uploads")
		require.NoError(t, s.Scope(7))
		assert.Equal(t, "uploads/tenant_7/", s.ActivePrefix())

		s.Unscope()
		assert.Equal(t, "uploads/", s.ActivePrefix())
	})

	t.Run("empty base prefix", func(t *testing.T) {
		t.Parallel()

		s := newS3Storage(t, newFakeS3(), "")
		require.NoError(t, s.Scope(7))
		assert.Equal(t, "tenant_7/", s.ActivePrefix())
	})
}

func TestS3Operations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		client := newFakeS3()
		s := newS3Storage(t, client, "")

		require.NoError(t, s.Save(ctx, "file.txt", strings.NewReader("x")))
		require.NoError(t, s.Delete(ctx, "file.txt"))
		_, err := s.Open(ctx, "file.txt")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("list strips the prefix", func(t *testing.T) {
		t.Parallel()

		client := newFakeS3()
		s := newS3Storage(t, client, "")
		require.NoError(t, s.Scope(1))

		require.NoError(t, s.Save(ctx, "docs/a.txt", strings.NewReader("a")))
		require.NoError(t, s.Save(ctx, "docs/b.txt", strings.NewReader("b")))

		names, err := s.List(ctx, "docs")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, names)
	})

	t.Run("leading slash trimmed from paths", func(t *testing.T) {
		t.Parallel()

		client := newFakeS3()
		s := newS3Storage(t, client, "base")

		require.NoError(t, s.Save(ctx, "/file.txt", strings.NewReader("x")))
		assert.Contains(t, client.objects, "base/file.txt")
	})
}
