package rules

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyPack is returned when a rule pack defines neither rules nor messages.
var ErrEmptyPack = errors.New("rules: pack is empty")

// Pack is the on-disk shape of a rule pack:
//
//	rules:
//	  ZIP: '^\d{5}$'
//	messages:
//	  INVALID_VALUE: "Please check this field"
type Pack struct {
	Rules    map[string]string `yaml:"rules" json:"rules"`
	Messages map[string]string `yaml:"messages" json:"messages"`
}

// LoadYAML parses a YAML (or JSON) rule pack and registers its entries. The
// pack is applied only when every rule compiles.
func (t *Table) LoadYAML(data []byte) error {
	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return fmt.Errorf("rules: decode pack: %w", err)
	}
	return t.Apply(pack)
}

// LoadFS reads and applies the rule pack stored at path inside fsys.
func (t *Table) LoadFS(fsys fs.FS, path string) error {
	if fsys == nil {
		return errors.New("rules: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("rules: read %s: %w", path, err)
	}
	if err := t.LoadYAML(data); err != nil {
		return fmt.Errorf("%w (file %s)", err, path)
	}
	return nil
}

// Apply compiles and registers a decoded pack. Message templates are reduced
// to plain text before registration.
func (t *Table) Apply(pack Pack) error {
	if t == nil {
		return errors.New("rules: table is nil")
	}
	if len(pack.Rules) == 0 && len(pack.Messages) == 0 {
		return ErrEmptyPack
	}

	compiled := make(map[string]Matcher, len(pack.Rules))
	for name, expr := range pack.Rules {
		key := strings.TrimSpace(name)
		if key == "" {
			return errors.New("rules: pack defines an empty rule name")
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return fmt.Errorf("rules: rule %q: %w", key, err)
		}
		compiled[key] = re
	}

	messages := make(map[MessageKind]string, len(pack.Messages))
	for kind, tpl := range pack.Messages {
		key := strings.TrimSpace(kind)
		if key == "" {
			return errors.New("rules: pack defines an empty message kind")
		}
		messages[MessageKind(key)] = plainText(tpl)
	}

	t.Rules(compiled)
	t.Messages(messages)
	return nil
}
