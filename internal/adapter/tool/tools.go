package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"biomni-chat/internal/application/port/output"
	"biomni-chat/internal/domain/entity"
)

type DataLake interface {
	ListDataLake() ([]string, error)
	ReadDataLakeFile(name string) (string, bool, error)
}

type PageFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

type ListDataLakeTool struct {
	lake   DataLake
	logger output.LoggerPort
}

func NewListDataLakeTool(lake DataLake, logger output.LoggerPort) *ListDataLakeTool {
	return &ListDataLakeTool{lake: lake, logger: logger}
}

func (t *ListDataLakeTool) Name() entity.ToolName { return entity.ToolListDataLake }
func (t *ListDataLakeTool) Description() string {
	return "Lists dataset files available in the local biomedical data lake"
}
func (t *ListDataLakeTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *ListDataLakeTool) Execute(ctx context.Context, args string) (string, error) {
	files, err := t.lake.ListDataLake()
	if err != nil {
		return "", err
	}
	t.logger.Debug("Listed data lake", "files", len(files))
	if len(files) == 0 {
		return "The data lake is empty.", nil
	}
	return strings.Join(files, "\n"), nil
}

type ReadDataLakeFileTool struct {
	lake   DataLake
	logger output.LoggerPort
}

func NewReadDataLakeFileTool(lake DataLake, logger output.LoggerPort) *ReadDataLakeFileTool {
	return &ReadDataLakeFileTool{lake: lake, logger: logger}
}

func (t *ReadDataLakeFileTool) Name() entity.ToolName { return entity.ToolReadDataLakeFile }
func (t *ReadDataLakeFileTool) Description() string {
	return "Reads the beginning of a dataset file from the local data lake"
}
func (t *ReadDataLakeFileTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "File path relative to the data lake, as returned by list_data_lake",
			},
		},
		"required": []string{"path"},
	}
}

func (t *ReadDataLakeFileTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if input.Path == "" {
		return "", fmt.Errorf("path is required")
	}

	content, truncated, err := t.lake.ReadDataLakeFile(input.Path)
	if err != nil {
		return "", err
	}
	if truncated {
		content += "\n... (truncated)"
	}
	return content, nil
}

type FetchURLTool struct {
	fetcher PageFetcher
	logger  output.LoggerPort
}

func NewFetchURLTool(fetcher PageFetcher, logger output.LoggerPort) *FetchURLTool {
	return &FetchURLTool{fetcher: fetcher, logger: logger}
}

func (t *FetchURLTool) Name() entity.ToolName { return entity.ToolFetchURL }
func (t *FetchURLTool) Description() string {
	return "Fetches a web page such as a paper abstract or gene record and returns its visible text"
}
func (t *FetchURLTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "Absolute http or https URL",
			},
		},
		"required": []string{"url"},
	}
}

func (t *FetchURLTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if !strings.HasPrefix(input.URL, "http://") && !strings.HasPrefix(input.URL, "https://") {
		return "", fmt.Errorf("url must start with http:// or https://, got %q", input.URL)
	}

	t.logger.Info("Fetching page", "url", input.URL)
	return t.fetcher.FetchText(ctx, input.URL)
}
