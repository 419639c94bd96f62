package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveOpenDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://localhost:8080/uploads/")
	require.NoError(t, err)

	ctx := context.Background()
	url, err := store.Save(ctx, "documents/abc.pdf", "application/pdf", strings.NewReader("scanned license"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/documents/abc.pdf", url)

	f, err := store.Open(ctx, "documents/abc.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "scanned license", string(data))

	require.NoError(t, store.Delete(ctx, "documents/abc.pdf"))
	_, err = store.Open(ctx, "documents/abc.pdf")
	assert.Error(t, err)
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentTypeFor("cnh.PDF"))
	assert.Equal(t, "image/jpeg", ContentTypeFor("doc.jpg"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("doc.bin"))
}
