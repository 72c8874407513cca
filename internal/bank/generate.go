package bank

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
)

// BuildManifest scans fsys for <stack>/theory.yaml and <stack>/mcqs.yaml
// and builds the manifest describing them. Stacks are listed in directory
// order; topics are unique in document order, theory first.
func BuildManifest(fsys fs.FS, logger *slog.Logger) (Manifest, error) {
	if logger == nil {
		logger = slog.Default()
	}
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return Manifest{}, fmt.Errorf("read data dir: %w", err)
	}

	var m Manifest
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		entry := StackEntry{Name: e.Name()}
		seen := make(map[string]bool)
		for _, kind := range []Kind{KindTheory, KindMCQ} {
			name := path.Join(e.Name(), kind.FileName())
			data, err := fs.ReadFile(fsys, name)
			if err != nil {
				continue
			}
			qs, err := ParseDocument(data, e.Name(), kind, logger)
			if err != nil {
				return Manifest{}, fmt.Errorf("build manifest: %w", err)
			}
			entry.Types = append(entry.Types, kind)
			for _, q := range qs {
				if !seen[q.Topic] {
					seen[q.Topic] = true
					entry.Topics = append(entry.Topics, q.Topic)
				}
			}
		}
		if len(entry.Types) == 0 {
			continue
		}
		m.Stacks = append(m.Stacks, entry)
	}
	return m, nil
}

// WriteManifest encodes m to w.
func WriteManifest(w io.Writer, m Manifest) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// TopicCount is the number of questions of each kind for one stack topic.
type TopicCount struct {
	Stack  string `json:"stack"`
	Topic  string `json:"topic"`
	Theory int    `json:"theory"`
	MCQ    int    `json:"mcqs"`
}

// Total returns the number of questions across kinds.
func (c TopicCount) Total() int { return c.Theory + c.MCQ }

// TopicCounts tallies questions per (stack, topic) in encounter order.
func TopicCounts(questions ...[]*Question) []TopicCount {
	type key struct{ stack, topic string }
	pos := make(map[key]int)
	var out []TopicCount
	for _, qs := range questions {
		for _, q := range qs {
			k := key{q.Stack, q.Topic}
			i, ok := pos[k]
			if !ok {
				i = len(out)
				pos[k] = i
				out = append(out, TopicCount{Stack: q.Stack, Topic: q.Topic})
			}
			if q.Type == TypeMCQ {
				out[i].MCQ++
			} else {
				out[i].Theory++
			}
		}
	}
	return out
}
