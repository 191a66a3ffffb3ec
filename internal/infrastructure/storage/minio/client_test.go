package minio

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/tinydock/internal/testutil"
	"github.com/turtacn/tinydock/pkg/errors"
)

type MockMinIOAPI struct {
	mock.Mock
}

func (m *MockMinIOAPI) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *MockMinIOAPI) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	args := m.Called(ctx, bucketName, opts)
	return args.Error(0)
}

func (m *MockMinIOAPI) FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, filePath, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

type ClientTestSuite struct {
	suite.Suite
	api    *MockMinIOAPI
	client *MinIOClient
	ctx    context.Context
}

func (s *ClientTestSuite) SetupTest() {
	s.api = new(MockMinIOAPI)
	s.client = NewMinIOClientWithAPI(s.api, MinIOConfig{Bucket: "campaigns", Prefix: "/run-1/"}, testutil.NewMockLogger())
	s.ctx = context.Background()
}

func (s *ClientTestSuite) TestApplyDefaults() {
	cfg := MinIOConfig{}
	applyDefaults(&cfg)
	s.Equal("us-east-1", cfg.Region)
	s.Equal("tinydock", cfg.Bucket)
}

func (s *ClientTestSuite) TestObjectKey() {
	s.Equal("run-1/logs/t1/summary.csv", s.client.ObjectKey("logs/t1/summary.csv"))
	s.Equal("run-1/x.csv", s.client.ObjectKey("/x.csv"))

	bare := NewMinIOClientWithAPI(s.api, MinIOConfig{}, nil)
	s.Equal("x.csv", bare.ObjectKey("x.csv"))
}

func (s *ClientTestSuite) TestEnsureBucket_CreatesOnce() {
	s.api.On("BucketExists", s.ctx, "campaigns").Return(false, nil).Once()
	s.api.On("MakeBucket", s.ctx, "campaigns", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil).Once()

	s.Require().NoError(s.client.EnsureBucket(s.ctx))
	s.Require().NoError(s.client.EnsureBucket(s.ctx))
	s.api.AssertExpectations(s.T())
}

func (s *ClientTestSuite) TestEnsureBucket_Error() {
	s.api.On("BucketExists", s.ctx, "campaigns").Return(false, stderrors.New("connection refused"))

	err := s.client.EnsureBucket(s.ctx)
	s.Require().Error(err)
	s.True(errors.IsCode(err, errors.CodeStorage))
}

func (s *ClientTestSuite) TestUploadFile() {
	s.api.On("BucketExists", s.ctx, "campaigns").Return(true, nil)
	opts := minio.PutObjectOptions{ContentType: "text/csv", UserTags: map[string]string{"kind": "summary"}}
	s.api.On("FPutObject", s.ctx, "campaigns", "run-1/a.csv", "/tmp/a.csv", opts).
		Return(minio.UploadInfo{Bucket: "campaigns", Key: "run-1/a.csv", ETag: "e", Size: 12}, nil)

	res, err := s.client.UploadFile(s.ctx, "/tmp/a.csv", "a.csv", "text/csv", map[string]string{"kind": "summary"})
	s.Require().NoError(err)
	s.Equal("run-1/a.csv", res.ObjectKey)
	s.Equal(int64(12), res.Size)
	s.api.AssertNotCalled(s.T(), "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ClientTestSuite) TestUploadFile_InvalidRequest() {
	_, err := s.client.UploadFile(s.ctx, "", "k", "", nil)
	s.True(errors.IsCode(err, errors.CodeInvalidParam))
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func TestNewMinIOClient_RequiresEndpoint(t *testing.T) {
	_, err := NewMinIOClient(MinIOConfig{Endpoint: ""}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeConfigInvalid))

	c, err := NewMinIOClient(MinIOConfig{Endpoint: "localhost:9000", Bucket: "b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "b", c.Bucket())
}

// ─────────────────────────────────────────────────────────────────────────────
// Publisher
// ─────────────────────────────────────────────────────────────────────────────

type fakeUploader struct {
	keys []string
	tags []map[string]string
	err  error
}

func (f *fakeUploader) UploadFile(_ context.Context, localPath, key, _ string, tags map[string]string) (*UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.keys = append(f.keys, key)
	f.tags = append(f.tags, tags)
	st, _ := os.Stat(localPath)
	return &UploadResult{Bucket: "b", ObjectKey: key, Size: st.Size()}, nil
}

func TestPublisher_Publish(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "summary.csv")
	require.NoError(t, os.WriteFile(present, []byte("uuid\n"), 0o644))

	up := &fakeUploader{}
	log := testutil.NewMockLogger()
	report, err := NewPublisher(up, log).Publish(context.Background(), []Artifact{
		{LocalPath: present, Key: "logs/t1/summary.csv", Kind: "summary", Target: "t1"},
		{LocalPath: filepath.Join(dir, "prioritization.csv"), Key: "prioritization.csv", Kind: "prioritization"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"logs/t1/summary.csv"}, up.keys)
	assert.Equal(t, map[string]string{"kind": "summary", "target": "t1"}, up.tags[0])
	require.Len(t, report.Uploaded, 1)
	assert.Equal(t, int64(5), report.Uploaded[0].Size)
	assert.Len(t, report.Missing, 1)
	assert.True(t, log.HasMessage("warn", "artifact not found, skipping"))
}

func TestPublisher_UploadErrorAborts(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.csv")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))

	up := &fakeUploader{err: errors.New(errors.CodeStorage, "denied")}
	_, err := NewPublisher(up, nil).Publish(context.Background(), []Artifact{{LocalPath: p, Key: "a.csv"}, {LocalPath: p, Key: "b.csv"}})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeStorage))
}

//Personal.AI order the ending
