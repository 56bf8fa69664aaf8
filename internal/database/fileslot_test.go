package repository

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servihogar/entity"
)

func TestFileSlotRoundTrip(t *testing.T) {
	slot := NewFileSlot(afero.NewMemMapFs())
	ctx := context.Background()

	_, found, err := slot.Get(ctx, "draft:dev-1:plumbing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, slot.Set(ctx, "draft:dev-1:plumbing", `{"step_index":3}`))

	value, found, err := slot.Get(ctx, "draft:dev-1:plumbing")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"step_index":3}`, value)
}

func TestFileSlotOverwrite(t *testing.T) {
	slot := NewFileSlot(afero.NewMemMapFs())
	ctx := context.Background()

	require.NoError(t, slot.Set(ctx, "k", "first"))
	require.NoError(t, slot.Set(ctx, "k", "second"))

	value, found, err := slot.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "second", value)
}

func TestFileSlotDelete(t *testing.T) {
	slot := NewFileSlot(afero.NewMemMapFs())
	ctx := context.Background()

	require.NoError(t, slot.Set(ctx, "k", "v"))
	require.NoError(t, slot.Delete(ctx, "k"))
	require.NoError(t, slot.Delete(ctx, "k"), "deleting a missing key is not an error")

	_, found, err := slot.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileSlotKeysWithSpecialCharacters(t *testing.T) {
	slot := NewFileSlot(afero.NewMemMapFs())
	ctx := context.Background()

	key := "cont:draft:dev/1:plumbing"
	require.NoError(t, slot.Set(ctx, key, "v"))

	value, found, err := slot.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", value)
}

func TestFileBlobRoundTrip(t *testing.T) {
	blob := NewFileBlob(afero.NewMemMapFs())
	ctx := context.Background()

	meta := entity.FileMetadata{MIMEType: "image/jpeg", UserID: "users/u1", Path: "users/u1/photo.jpg"}
	require.NoError(t, blob.UploadFile(ctx, "users/u1/photo.jpg", strings.NewReader("binary"), meta))

	got, reader, err := blob.DownloadFileByPath("users/u1/photo.jpg")
	require.NoError(t, err)
	defer reader.Close()
	assert.Equal(t, "image/jpeg", got.MIMEType)

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "binary", string(data))
}

func TestFileBlobMissingFile(t *testing.T) {
	blob := NewFileBlob(afero.NewMemMapFs())

	_, _, err := blob.DownloadFileByPath("users/u1/absent.jpg")
	assert.Error(t, err)
}
