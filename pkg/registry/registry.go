// Package registry maps node types to their executors and validates node
// configuration against the executors' JSON schemas.
package registry

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/xeipuuv/gojsonschema"

	"github.com/flowmatic/flowmatic/pkg/models"
	"github.com/flowmatic/flowmatic/pkg/protocol"
)

type Registry struct {
	logger    *slog.Logger
	executors map[models.NodeType]protocol.NodeExecutor
	schemas   map[models.NodeType]*gojsonschema.Schema
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger,
		executors: make(map[models.NodeType]protocol.NodeExecutor),
		schemas:   make(map[models.NodeType]*gojsonschema.Schema),
	}
}

// Register adds an executor for its node type, replacing any previous one.
// Executors that provide a JSON schema get it compiled here, so a bad
// schema fails at registration rather than at validation time.
func (r *Registry) Register(executor protocol.NodeExecutor) error {
	nodeType := executor.Type()

	if provider, ok := executor.(protocol.SchemaProvider); ok {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(provider.Schema()))
		if err != nil {
			return fmt.Errorf("compile schema for node type %q: %w", nodeType, err)
		}

		r.schemas[nodeType] = schema
	}

	r.executors[nodeType] = executor
	r.logger.Debug("Registered node executor", "node_type", nodeType)

	return nil
}

// ExecutorFor returns the executor registered for a node type.
func (r *Registry) ExecutorFor(nodeType models.NodeType) (protocol.NodeExecutor, error) {
	executor, ok := r.executors[nodeType]
	if !ok {
		return nil, fmt.Errorf("node type %q not registered", nodeType)
	}

	return executor, nil
}

// Types returns the registered node types.
func (r *Registry) Types() []models.NodeType {
	types := make([]models.NodeType, 0, len(r.executors))
	for t := range r.executors {
		types = append(types, t)
	}

	return types
}

// ValidateConfig checks a node's properties against the registered schema
// for its type. Node types without a schema accept any configuration.
func (r *Registry) ValidateConfig(nodeType models.NodeType, properties map[string]any) ([]string, error) {
	schema, ok := r.schemas[nodeType]
	if !ok {
		return nil, nil
	}

	if properties == nil {
		properties = map[string]any{}
	}

	// Round-trip through JSON so schema validation sees the same value
	// shapes an API payload would carry.
	raw, err := json.Marshal(properties)
	if err != nil {
		return nil, fmt.Errorf("marshal node config: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("validate node config: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, resultError := range result.Errors() {
		messages = append(messages, resultError.String())
	}

	return messages, nil
}
