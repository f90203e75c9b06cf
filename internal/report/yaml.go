package report

import (
	"gopkg.in/yaml.v3"

	"github.com/grokify/calverrelease/pkg/model"
)

// YAMLFormatter formats results as YAML.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// FormatReleaseResult formats a release result as YAML.
func (f *YAMLFormatter) FormatReleaseResult(result *model.ReleaseResult) (string, error) {
	data, err := yaml.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
