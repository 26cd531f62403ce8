package entity

type ToolName string

const (
	ToolListDataLake     ToolName = "list_data_lake"
	ToolReadDataLakeFile ToolName = "read_data_lake_file"
	ToolFetchURL         ToolName = "fetch_url"
)

func (t ToolName) String() string {
	return string(t)
}

type ToolDefinition struct {
	Name        ToolName
	Description string
	Parameters  map[string]interface{}
}
