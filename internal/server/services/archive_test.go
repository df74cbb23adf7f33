package services

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/moodiary/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type archiveStubs struct {
	loadErr    error
	putErr     error
	presignErr error

	putIn      *s3.PutObjectInput
	putBody    string
	getIn      *s3.GetObjectInput
	presignOpt s3.PresignOptions
}

func stubS3(t *testing.T, st *archiveStubs) {
	t.Helper()
	oldLoad, oldPut, oldPresign, oldNow := loadDefaultAWSConfig, putObject, presignGetObject, now
	t.Cleanup(func() {
		loadDefaultAWSConfig, putObject, presignGetObject, now = oldLoad, oldPut, oldPresign, oldNow
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		if st.loadErr != nil {
			return aws.Config{}, st.loadErr
		}
		return aws.Config{Region: "us-east-1"}, nil
	}
	putObject = func(_ *s3.Client, _ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		if st.putErr != nil {
			return nil, st.putErr
		}
		st.putIn = in
		b, _ := io.ReadAll(in.Body)
		st.putBody = string(b)
		return &s3.PutObjectOutput{}, nil
	}
	presignGetObject = func(_ *s3.PresignClient, _ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if st.presignErr != nil {
			return nil, st.presignErr
		}
		st.getIn = in
		for _, fn := range optFns {
			fn(&st.presignOpt)
		}
		return &v4.PresignedHTTPRequest{URL: "http://minio/" + aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)}, nil
	}
	now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
}

func newArchiveService(t *testing.T) *EntryService {
	s, _, _, mock := newEntryService(t)
	s.config = &sc.Config{
		S3Bucket:                  "diary",
		S3Region:                  "us-east-1",
		S3BaseEndpoint:            "http://127.0.0.1:9000/",
		ExportURLValidityDuration: 15 * time.Minute,
	}
	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := s.Create(context.Background(), userA, "", diaGood())
	require.NoError(t, err)
	return s
}

func TestArchive_Success(t *testing.T) {
	st := &archiveStubs{}
	stubS3(t, st)
	s := newArchiveService(t)

	a, err := s.Archive(context.Background(), userA)
	require.NoError(t, err)

	assert.Equal(t, 1, a.Count)
	assert.True(t, strings.HasPrefix(a.Key, "exports/"+userA+"/diary-export-2024-05-01-"), a.Key)
	assert.True(t, strings.HasSuffix(a.Key, ".json"))
	assert.Equal(t, "http://minio/diary/"+a.Key, a.URL)

	require.NotNil(t, st.putIn)
	assert.Equal(t, "diary", aws.ToString(st.putIn.Bucket))
	assert.Equal(t, "application/json", aws.ToString(st.putIn.ContentType))
	assert.Contains(t, st.putBody, `"title": "Dia bom"`)
	assert.Equal(t, a.Key, aws.ToString(st.getIn.Key))
	assert.Equal(t, 15*time.Minute, st.presignOpt.Expires)
}

func TestArchive_Errors(t *testing.T) {
	cases := []struct {
		name  string
		stubs archiveStubs
		want  string
	}{
		{"load config", archiveStubs{loadErr: errBoom{}}, "error creating s3 client"},
		{"put", archiveStubs{putErr: errBoom{}}, "error uploading archive"},
		{"presign", archiveStubs{presignErr: errBoom{}}, "error presigning archive url"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := tc.stubs
			stubS3(t, &st)
			s := newArchiveService(t)

			_, err := s.Archive(context.Background(), userA)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
			assert.ErrorIs(t, err, errBoom{})
		})
	}
}

func TestArchive_ExportFailure(t *testing.T) {
	stubS3(t, &archiveStubs{})
	s, store, _, _ := newEntryService(t)
	store.listErr = errBoom{}

	_, err := s.Archive(context.Background(), userA)
	assert.ErrorIs(t, err, errBoom{})
}

func TestArchiveStorageKey(t *testing.T) {
	ts := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	a := ArchiveStorageKey("u1", ts)
	b := ArchiveStorageKey("u1", ts)
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "exports/u1/diary-export-2023-01-02-"))
}
