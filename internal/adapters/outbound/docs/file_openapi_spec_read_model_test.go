//go:build !integration

package docs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileOpenAPISpecReadModelRead(t *testing.T) {
	path := writeFile(t, "openapi: 3.0.3\ninfo:\n  title: FreightFlow\n  version: 1.0.0\npaths: {}\n")

	content, contentType, appErr := NewFileOpenAPISpecReadModel(path).Read(context.Background())

	require.Nil(t, appErr)
	assert.Equal(t, yamlContentType, contentType)
	assert.Contains(t, string(content), "FreightFlow")
}

func TestFileOpenAPISpecReadModelRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name     string
		path     func(t *testing.T) string
		wantCode string
	}{
		{
			name:     "missing file",
			path:     func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") },
			wantCode: "OPENAPI_FILE_READ_FAILED",
		},
		{
			name:     "swagger 2 document",
			path:     func(t *testing.T) string { return writeFile(t, "swagger: \"2.0\"\n") },
			wantCode: "OPENAPI_FILE_INVALID",
		},
		{
			name:     "not yaml",
			path:     func(t *testing.T) string { return writeFile(t, "openapi: [3.0\n") },
			wantCode: "OPENAPI_FILE_INVALID",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, _, appErr := NewFileOpenAPISpecReadModel(tc.path(t)).Read(context.Background())
			require.NotNil(t, appErr)
			assert.Equal(t, tc.wantCode, appErr.Code)
		})
	}
}
