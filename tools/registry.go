package tools

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolagent", "tools")

// Registry is the set of available tools.
// Tools are resolved by case-insensitive name and listed in registration order.
// The registry is not safe for concurrent mutation,
// register all tools before the first turn.
type Registry struct {
	tools *orderedmap.OrderedMap[string, ITool]
}

// NewRegistry returns a registry with the given tools.
func NewRegistry(list ...ITool) *Registry {
	r := &Registry{
		tools: orderedmap.New[string, ITool](),
	}
	r.Register(list...)
	return r
}

// Register adds new tools to the registry,
// a tool with the name of an existing tool is skipped.
func (r *Registry) Register(list ...ITool) *Registry {
	for _, tool := range list {
		if tool == nil {
			continue
		}
		key := NormalizeName(tool.Name())
		if _, exists := r.tools.Get(key); exists {
			logger.KV(xlog.WARNING,
				"status", "duplicate_tool_skipped",
				"tool", tool.Name(),
			)
			continue
		}
		r.tools.Set(key, tool)
	}
	return r
}

// Find returns the tool by its name, case-insensitive.
func (r *Registry) Find(name string) (ITool, bool) {
	return r.tools.Get(NormalizeName(name))
}

// Get returns the tool by its name, or ErrToolNotFound.
func (r *Registry) Get(name string) (ITool, error) {
	tool, ok := r.Find(name)
	if !ok {
		return nil, errors.Wrapf(ErrToolNotFound, "%q", name)
	}
	return tool, nil
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return r.tools.Len()
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []ITool {
	list := make([]ITool, 0, r.tools.Len())
	for pair := r.tools.Oldest(); pair != nil; pair = pair.Next() {
		list = append(list, pair.Value)
	}
	return list
}

// Names returns the names of the registered tools in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.tools.Len())
	for pair := r.tools.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Value.Name())
	}
	return names
}

// Descriptors returns the tool catalog in registration order.
func (r *Registry) Descriptors() []Descriptor {
	return GetDescriptions(r.Tools()...)
}
