package storyboard

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// WriteFile saves sb as JSON when path ends in .json and as YAML otherwise.
func WriteFile(sb Storyboard, path string) error {
	var (
		data []byte
		err  error
	)
	if isJSONPath(path) {
		data, err = json.MarshalIndent(sb, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(sb)
	}
	if err != nil {
		return fmt.Errorf("encode storyboard: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storyboard directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads a storyboard written by WriteFile. JSON files go through
// Parse so hand edits get the same validation as model replies.
func ReadFile(path string) (Storyboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Storyboard{}, err
	}
	if isJSONPath(path) {
		return Parse(string(data))
	}
	var sb Storyboard
	if err := yaml.Unmarshal(data, &sb); err != nil {
		return Storyboard{}, fmt.Errorf("decode storyboard yaml: %w", err)
	}
	for idx, step := range sb.Steps {
		if step.Number <= 0 {
			return Storyboard{}, fmt.Errorf("step %d: step_number must be positive", idx+1)
		}
	}
	return sb, nil
}

func isJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
