package cli

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	OutputFormatText = "text"
	OutputFormatJson = "json"
	OutputFormatYaml = "yaml"
)

var OutputFormats = []string{
	OutputFormatText,
	OutputFormatJson,
	OutputFormatYaml,
}

// EncodeOutput renders `data` as json or yaml; callers handle the text
// format themselves (usually via Table).
func EncodeOutput(data any, format string) (string, error) {
	switch format {
	case OutputFormatJson:
		o, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal output as json: %s", err)
		}
		return string(o), nil
	case OutputFormatYaml:
		o, err := yaml.Marshal(data)
		if err != nil {
			return "", fmt.Errorf("failed to marshal output as yaml: %s", err)
		}
		return string(o), nil
	}
	return "", fmt.Errorf("unknown output format[%s]", format)
}
