package aws

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	put     *s3.PutObjectInput
	body    string
	deleted []string
	err     error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.put = params
	b, _ := io.ReadAll(params.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, *params.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3StorageUpload(t *testing.T) {
	fake := &fakeS3{}
	st := NewS3Storage(fake, "gallery", "https://cdn.example.com/")

	url, err := st.Upload(context.Background(), "party/1-foto.jpg", "image/jpeg", strings.NewReader("jpeg"), 4)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/party/1-foto.jpg", url)
	assert.Equal(t, "gallery", *fake.put.Bucket)
	assert.Equal(t, "image/jpeg", *fake.put.ContentType)
	assert.Equal(t, "jpeg", fake.body)
}

func TestS3StorageDelete(t *testing.T) {
	fake := &fakeS3{}
	st := NewS3Storage(fake, "gallery", "https://cdn.example.com")
	require.NoError(t, st.Delete(context.Background(), "party/1-foto.jpg"))
	assert.Equal(t, []string{"party/1-foto.jpg"}, fake.deleted)

	fake.err = errors.New("denied")
	assert.Error(t, st.Delete(context.Background(), "party/2.jpg"))
}
