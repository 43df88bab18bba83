package docs

import (
	"context"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "freightflow/internal/shared_kernel/errors"
)

const yamlContentType = "application/yaml; charset=utf-8"

type openAPIHeader struct {
	OpenAPI string `yaml:"openapi"`
	Info    struct {
		Title   string `yaml:"title"`
		Version string `yaml:"version"`
	} `yaml:"info"`
}

// FileOpenAPISpecReadModel serves the OpenAPI document from disk. The file is
// re-read on every call and rejected unless it parses as an OpenAPI 3 document.
type FileOpenAPISpecReadModel struct {
	path string
}

func NewFileOpenAPISpecReadModel(path string) *FileOpenAPISpecReadModel {
	return &FileOpenAPISpecReadModel{
		path: path,
	}
}

func (r *FileOpenAPISpecReadModel) Read(_ context.Context) ([]byte, string, *apperrors.AppError) {
	content, err := os.ReadFile(r.path)
	if err != nil {
		return nil, "", apperrors.NewInternal(
			"OPENAPI_FILE_READ_FAILED",
			"failed to read OpenAPI spec file",
			map[string]any{"path": r.path},
		)
	}

	header := openAPIHeader{}
	if err := yaml.Unmarshal(content, &header); err != nil || !strings.HasPrefix(header.OpenAPI, "3.") {
		details := map[string]any{"path": r.path}
		if err != nil {
			details["error"] = err.Error()
		}
		return nil, "", apperrors.NewInternal(
			"OPENAPI_FILE_INVALID",
			"OpenAPI spec file is not an OpenAPI 3 document",
			details,
		)
	}

	return content, yamlContentType, nil
}
