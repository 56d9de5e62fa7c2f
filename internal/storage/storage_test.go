package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	root := t.TempDir()
	dayDir := filepath.Join(root, "year=2024", "month=01", "day=15", "10")
	require.NoError(t, os.MkdirAll(dayDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dayDir, "waf.log.gz"), []byte("abc"), 0o644))

	store, err := NewLocalStore(root)
	require.NoError(t, err)

	objects, err := store.ListObjects(context.Background(), "year=2024/month=01/day=15/")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "year=2024/month=01/day=15/10/waf.log.gz", objects[0].Key)
	assert.Equal(t, int64(3), objects[0].Size)

	data, err := store.GetObject(context.Background(), objects[0].Key)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	objects, err = store.ListObjects(context.Background(), "year=2024/month=01/day=16/")
	require.NoError(t, err)
	assert.Empty(t, objects)

	_, err = store.GetObject(context.Background(), "../etc/passwd")
	assert.Error(t, err)
}

func TestNewLocalStoreRequiresDirectory(t *testing.T) {
	_, err := NewLocalStore(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = NewLocalStore(file)
	assert.Error(t, err)
}

const listResponse = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>waf-logs</Name>
  <Prefix>year=2024/month=01/day=15/</Prefix>
  <KeyCount>2</KeyCount>
  <MaxKeys>1000</MaxKeys>
  <IsTruncated>false</IsTruncated>
  <Contents>
    <Key>year=2024/month=01/day=15/a.log.gz</Key>
    <LastModified>2024-01-15T10:00:00.000Z</LastModified>
    <Size>3</Size>
  </Contents>
  <Contents>
    <Key>year=2024/month=01/day=15/b.log.gz</Key>
    <LastModified>2024-01-15T11:00:00.000Z</LastModified>
    <Size>5</Size>
  </Contents>
</ListBucketResult>`

const accessDenied = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`

func TestS3StoreAgainstCompatibleEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/waf-logs" || r.URL.Path == "/waf-logs/":
			if strings.Contains(r.URL.Query().Get("prefix"), "day=16") {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(accessDenied))
				return
			}
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(listResponse))
		case r.URL.Path == "/waf-logs/year=2024/month=01/day=15/a.log.gz":
			_, _ = w.Write([]byte("abc"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	store, err := NewS3Store(context.Background(), S3Options{
		Bucket:    "waf-logs",
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		AccessKey: "test",
		SecretKey: "test",
	})
	require.NoError(t, err)

	objects, err := store.ListObjects(context.Background(), "year=2024/month=01/day=15/")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "year=2024/month=01/day=15/a.log.gz", objects[0].Key)
	assert.Equal(t, int64(5), objects[1].Size)

	data, err := store.GetObject(context.Background(), objects[0].Key)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	_, err = store.ListObjects(context.Background(), "year=2024/month=01/day=16/")
	assert.ErrorContains(t, err, "AccessDenied")
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Options{})
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	store.Put("b/2", []byte("2"))
	store.Put("a/1", []byte("1"))
	store.Put("b/1", []byte("1"))

	objects, err := store.ListObjects(context.Background(), "b/")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "b/1", objects[0].Key)

	_, err = store.GetObject(context.Background(), "missing")
	assert.ErrorContains(t, err, "NoSuchKey")
}
