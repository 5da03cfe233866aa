package s3

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockObjectAPI struct{ mock.Mock }

func (m *mockObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if v, ok := args.Get(0).(*s3.PutObjectOutput); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockObjectAPI) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if v, ok := args.Get(0).(*s3.DeleteObjectOutput); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ ObjectAPI = (*mockObjectAPI)(nil)

func TestStore_Upload(t *testing.T) {
	api := &mockObjectAPI{}
	api.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return aws.ToString(in.Bucket) == "spis-files" &&
			aws.ToString(in.Key) == "u1/r1/photos/1_a.jpg" &&
			aws.ToString(in.ContentType) == "image/jpeg" &&
			aws.ToInt64(in.ContentLength) == 3 &&
			string(body) == "jpg"
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	store := NewWithClient(api, "spis-files", "https://cdn.example/")
	url, err := store.Upload(context.Background(), "u1/r1/photos/1_a.jpg", []byte("jpg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/u1/r1/photos/1_a.jpg", url)
	api.AssertExpectations(t)
}

func TestStore_UploadError(t *testing.T) {
	api := &mockObjectAPI{}
	api.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	_, err := NewWithClient(api, "b", "https://cdn").Upload(context.Background(), "k", []byte("x"), "")
	assert.ErrorContains(t, err, "access denied")
}

func TestStore_Delete(t *testing.T) {
	api := &mockObjectAPI{}
	api.On("DeleteObject", mock.Anything, &s3.DeleteObjectInput{
		Bucket: aws.String("spis-files"),
		Key:    aws.String("u1/r1/documents/1_a.pdf"),
	}).Return(&s3.DeleteObjectOutput{}, nil).Once()

	err := NewWithClient(api, "spis-files", "").Delete(context.Background(), "u1/r1/documents/1_a.pdf")
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestPublicBase(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"explicit", Options{Bucket: "b", PublicBaseURL: "https://files.example"}, "https://files.example"},
		{"custom endpoint", Options{Bucket: "b", Endpoint: "http://minio:9000/"}, "http://minio:9000/b"},
		{"aws", Options{Bucket: "b", Region: "eu-central-1"}, "https://b.s3.eu-central-1.amazonaws.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicBase(tt.opts))
		})
	}
}
