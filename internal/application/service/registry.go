package service

import (
	"sort"
	"strings"
	"unicode"

	"biomni-chat/internal/application/port/output"
	"biomni-chat/internal/domain/entity"
)

var _ output.ToolRegistry = (*ToolRegistryImpl)(nil)

type ToolRegistryImpl struct {
	tools map[entity.ToolName]output.ToolPort
}

func NewToolRegistry() *ToolRegistryImpl {
	return &ToolRegistryImpl{
		tools: make(map[entity.ToolName]output.ToolPort),
	}
}

func (r *ToolRegistryImpl) Register(tool output.ToolPort) {
	r.tools[tool.Name()] = tool
}

func (r *ToolRegistryImpl) Get(name entity.ToolName) (output.ToolPort, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

func (r *ToolRegistryImpl) All() []output.ToolPort {
	result := make([]output.ToolPort, 0, len(r.tools))
	for _, tool := range r.tools {
		result = append(result, tool)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}

func (r *ToolRegistryImpl) Definitions() []entity.ToolDefinition {
	all := r.All()
	result := make([]entity.ToolDefinition, 0, len(all))
	for _, tool := range all {
		result = append(result, definitionOf(tool))
	}
	return result
}

// Retrieve returns the tools whose name or description shares a word with
// query. When nothing matches every tool is returned.
func (r *ToolRegistryImpl) Retrieve(query string) []entity.ToolDefinition {
	queryWords := words(query)

	var result []entity.ToolDefinition
	for _, tool := range r.All() {
		toolWords := words(tool.Name().String() + " " + tool.Description())
		for w := range toolWords {
			if _, ok := queryWords[w]; ok {
				result = append(result, definitionOf(tool))
				break
			}
		}
	}

	if len(result) == 0 {
		return r.Definitions()
	}
	return result
}

func definitionOf(tool output.ToolPort) entity.ToolDefinition {
	return entity.ToolDefinition{
		Name:        tool.Name(),
		Description: tool.Description(),
		Parameters:  tool.Parameters(),
	}
}

// stopwords are too common to signal that a tool is relevant.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "from": {}, "with": {}, "that": {},
	"this": {}, "are": {}, "you": {}, "your": {}, "into": {}, "its": {},
}

func words(s string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len(f) < 3 {
			continue
		}
		if _, skip := stopwords[f]; skip {
			continue
		}
		set[f] = struct{}{}
	}
	return set
}
