package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldledger/backend/internal/domain/shared"
)

func TestLocalFileStore_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalFileStore(dir, nil)
	require.NoError(t, err)

	tenantID := uuid.New()
	file, err := store.Save(context.Background(), tenantID, "receipt.pdf", strings.NewReader("pdf-bytes"))
	require.NoError(t, err)

	assert.NotEmpty(t, file.GeneratedID)
	assert.Equal(t, "receipt.pdf", file.OriginalName)
	assert.True(t, strings.HasPrefix(file.RelativePath, tenantID.String()+"/"))

	content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(file.RelativePath)))
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(content))

	require.NoError(t, store.Delete(context.Background(), file))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(file.RelativePath)))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalFileStore_DeleteMissingIsNoError(t *testing.T) {
	store, err := NewLocalFileStore(t.TempDir(), nil)
	require.NoError(t, err)

	err = store.Delete(context.Background(), shared.StoredFile{RelativePath: "gone/file.txt"})
	assert.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), shared.StoredFile{}))
}

func TestObjectKey_FlattensPathTraversal(t *testing.T) {
	tenantID := uuid.New()

	key := objectKey(tenantID, "gen", "../../etc/passwd")
	assert.Equal(t, tenantID.String()+"/gen-passwd", key)

	key = objectKey(tenantID, "gen", `..\..\secret.txt`)
	assert.Equal(t, tenantID.String()+"/gen-secret.txt", key)

	key = objectKey(tenantID, "gen", "")
	assert.Equal(t, tenantID.String()+"/gen-file", key)
}
