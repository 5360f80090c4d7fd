package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_SaveOpenDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewLocal(dir, "/uploads")
	ctx := context.Background()

	url, err := s.Save(ctx, "tenants/ten-1/doc.pdf", strings.NewReader("contents"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/tenants/ten-1/doc.pdf", url)

	// Nested directories were created
	_, err = os.Stat(filepath.Join(dir, "tenants", "ten-1", "doc.pdf"))
	require.NoError(t, err)

	rc, err := s.Open(ctx, "tenants/ten-1/doc.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "contents", string(data))

	require.NoError(t, s.Delete(ctx, "tenants/ten-1/doc.pdf"))
	_, err = s.Open(ctx, "tenants/ten-1/doc.pdf")
	assert.Error(t, err)
}

func TestLocal_DeleteMissingIsNoError(t *testing.T) {
	s := NewLocal(t.TempDir(), "/uploads")
	assert.NoError(t, s.Delete(context.Background(), "never/existed.txt"))
}

func TestLocal_SaveOverwrites(t *testing.T) {
	s := NewLocal(t.TempDir(), "/uploads")
	ctx := context.Background()

	_, err := s.Save(ctx, "a.txt", strings.NewReader("first"), "text/plain")
	require.NoError(t, err)
	_, err = s.Save(ctx, "a.txt", strings.NewReader("second"), "text/plain")
	require.NoError(t, err)

	rc, err := s.Open(ctx, "a.txt")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "second", string(data))
}
