package manifest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/routetable/internal/config"
	"github.com/vango-dev/routetable/internal/errors"
)

// Manifest is an ordered list of route patterns read from one source.
type Manifest struct {
	// Name identifies the source, e.g. a file path or s3:// URL.
	Name string

	// Patterns are the declared patterns in declaration order.
	Patterns []string

	// Lines holds the 1-based line of each pattern, or 0 when unknown.
	Lines []int
}

// Len returns the number of declared patterns.
func (m *Manifest) Len() int {
	return len(m.Patterns)
}

// SourceOf returns "name:line" for the first declaration of pattern, or
// the manifest name when the pattern is not declared or its line is unknown.
func (m *Manifest) SourceOf(pattern string) string {
	for i, p := range m.Patterns {
		if p != pattern {
			continue
		}
		if i < len(m.Lines) && m.Lines[i] > 0 {
			return fmt.Sprintf("%s:%d", m.Name, m.Lines[i])
		}
		break
	}
	return m.Name
}

// Annotate sets the source of every coded error to the declaring line.
func (m *Manifest) Annotate(errs []*errors.Error) []*errors.Error {
	for _, e := range errs {
		if e.Location == nil || e.Location.Pattern == "" {
			continue
		}
		e.WithSource(m.SourceOf(e.Location.Pattern))
	}
	return errs
}

// Decode parses manifest data in the given format.
func Decode(name string, data []byte, format string) (*Manifest, error) {
	var (
		m   *Manifest
		err error
	)
	switch format {
	case config.FormatJSON:
		m, err = decodeJSON(data)
	case config.FormatYAML:
		m, err = decodeYAML(data)
	case config.FormatText, "":
		m, err = decodeText(data)
	default:
		err = fmt.Errorf("unknown manifest format %q", format)
	}
	if err != nil {
		return nil, errors.New("R042").
			WithDetail(fmt.Sprintf("Failed to decode %s: %v", name, err)).
			Wrap(err)
	}
	m.Name = name
	return m, nil
}

type jsonManifest struct {
	Routes []string `json:"routes"`
}

// decodeJSON accepts {"routes": [...]} or a bare array of patterns.
func decodeJSON(data []byte) (*Manifest, error) {
	trimmed := bytes.TrimSpace(data)
	var patterns []string
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &patterns); err != nil {
			return nil, err
		}
	} else {
		var doc jsonManifest
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, err
		}
		patterns = doc.Routes
	}
	return &Manifest{Patterns: patterns, Lines: make([]int, len(patterns))}, nil
}

// decodeYAML accepts a "routes" sequence or a bare sequence of patterns.
// Sequence items are either scalars or mappings with a "path" key.
func decodeYAML(data []byte) (*Manifest, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	m := &Manifest{}
	if len(root.Content) == 0 {
		return m, nil
	}

	seq := root.Content[0]
	if seq.Kind == yaml.MappingNode {
		seq = mappingValue(seq, "routes")
		if seq == nil {
			return m, nil
		}
	}
	if seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: routes must be a sequence", seq.Line)
	}

	for _, item := range seq.Content {
		node := item
		if item.Kind == yaml.MappingNode {
			node = mappingValue(item, "path")
			if node == nil {
				return nil, fmt.Errorf("line %d: route entry has no path", item.Line)
			}
		}
		if node.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: route must be a string", node.Line)
		}
		m.Patterns = append(m.Patterns, node.Value)
		m.Lines = append(m.Lines, node.Line)
	}
	return m, nil
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// decodeText reads one pattern per line. Blank lines and lines starting
// with # are skipped.
func decodeText(data []byte) (*Manifest, error) {
	m := &Manifest{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		m.Patterns = append(m.Patterns, text)
		m.Lines = append(m.Lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}
