package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// SaveAutoRefresh updates the auto_refresh setting in the config file.
// Comments and formatting in other sections are preserved.
func SaveAutoRefresh(configPath string, enabled bool) error {
	node := &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatBool(enabled)}
	return saveKey(configPath, node, "auto_refresh")
}

// SaveThemeMode updates theme.mode in the config file.
// Comments and formatting in other sections are preserved.
func SaveThemeMode(configPath, mode string) error {
	node := &yaml.Node{Kind: yaml.ScalarNode, Value: mode}
	return saveKey(configPath, node, "theme", "mode")
}

// saveKey sets the value at the given key path in the config file,
// creating intermediate mappings as needed. The file is parsed into
// yaml.Node so existing comments survive the rewrite.
func saveKey(configPath string, value *yaml.Node, keys ...string) error {
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	if doc.Kind == 0 {
		// Empty or new file
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("config root is not a mapping")
	}

	setMappingKey(doc.Content[0], value, keys)

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

// setMappingKey walks the key path inside a mapping node, creating
// intermediate mappings, and sets the final key to value.
func setMappingKey(root *yaml.Node, value *yaml.Node, keys []string) {
	node := root
	for depth, key := range keys {
		last := depth == len(keys)-1

		found := -1
		for i := 0; i < len(node.Content)-1; i += 2 {
			if node.Content[i].Value == key {
				found = i + 1
				break
			}
		}

		if last {
			if found >= 0 {
				node.Content[found] = value
			} else {
				node.Content = append(node.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Value: key},
					value,
				)
			}
			return
		}

		if found >= 0 && node.Content[found].Kind == yaml.MappingNode {
			node = node.Content[found]
			continue
		}
		next := &yaml.Node{Kind: yaml.MappingNode}
		if found >= 0 {
			node.Content[found] = next
		} else {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: key},
				next,
			)
		}
		node = next
	}
}

// writeAtomic writes to a temp file in the same directory, then renames.
func writeAtomic(configPath string, data []byte) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".giftwell.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
