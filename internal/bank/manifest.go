package bank

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the manifest document name at the root of the data tree.
const ManifestFile = "stack_manifest.yaml"

// StackEntry describes one tech stack in the manifest.
type StackEntry struct {
	Name   string   `yaml:"-" json:"name"`
	Types  []Kind   `yaml:"types" json:"types"`
	Topics []string `yaml:"topics" json:"topics"`
}

// HasKind reports whether the stack provides documents of kind k.
func (e StackEntry) HasKind(k Kind) bool {
	for _, t := range e.Types {
		if t == k {
			return true
		}
	}
	return false
}

// Manifest lists the stacks of a data tree in document order.
type Manifest struct {
	Stacks []StackEntry
}

// ParseManifest decodes a manifest document. The document is a mapping of
// stack name to {types, topics}; mapping order is preserved.
func ParseManifest(data []byte) (Manifest, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	if len(root.Content) == 0 {
		return Manifest{}, nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return Manifest{}, fmt.Errorf("parse manifest: expected mapping, got %s", nodeKind(doc))
	}

	var m Manifest
	for i := 0; i+1 < len(doc.Content); i += 2 {
		name := strings.TrimSpace(doc.Content[i].Value)
		if name == "" {
			continue
		}
		var entry StackEntry
		if err := doc.Content[i+1].Decode(&entry); err != nil {
			return Manifest{}, fmt.Errorf("parse manifest stack %q: %w", name, err)
		}
		entry.Name = name
		m.Stacks = append(m.Stacks, entry)
	}
	return m, nil
}

// Marshal encodes the manifest back into its mapping form.
func (m Manifest) Marshal() ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, s := range m.Stacks {
		var val yaml.Node
		if err := val.Encode(s); err != nil {
			return nil, fmt.Errorf("encode stack %q: %w", s.Name, err)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: s.Name},
			&val,
		)
	}
	return yaml.Marshal(doc)
}

// TechStacks returns the stack names in manifest order.
func (m Manifest) TechStacks() []string {
	names := make([]string, 0, len(m.Stacks))
	for _, s := range m.Stacks {
		names = append(names, s.Name)
	}
	return names
}

// Stack returns the entry named name.
func (m Manifest) Stack(name string) (StackEntry, bool) {
	for _, s := range m.Stacks {
		if s.Name == name {
			return s, true
		}
	}
	return StackEntry{}, false
}

// TopicsFor returns the union of topics of the named stacks in encounter
// order. With no names it returns every topic.
func (m Manifest) TopicsFor(stacks ...string) []string {
	if len(stacks) == 0 {
		return m.AllTopics()
	}
	seen := make(map[string]bool)
	var out []string
	for _, name := range stacks {
		entry, ok := m.Stack(name)
		if !ok {
			continue
		}
		for _, t := range entry.Topics {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

// AllTopics returns every topic across stacks, deduplicated, in encounter order.
func (m Manifest) AllTopics() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range m.Stacks {
		for _, t := range s.Topics {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
