// Package bank stores extracted question banks in files and in MySQL.
package bank

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/exambank/internal/exam"
)

// Format is the serialization of an exported bank file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Set implements pflag.Value.
func (f *Format) Set(v string) error {
	switch strings.ToLower(v) {
	case "yaml", "yml":
		*f = FormatYAML
	case "json":
		*f = FormatJSON
	default:
		return fmt.Errorf("invalid value %q, valid values are %q or %q", v, FormatYAML, FormatJSON)
	}
	return nil
}

// String implements pflag.Value.
func (f *Format) String() string {
	if f == nil {
		return ""
	}
	return string(*f)
}

// Type implements pflag.Value.
func (f *Format) Type() string {
	return "Format"
}

var (
	_ pflag.Value = (*Format)(nil)
)

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	}
	return "", false
}

// IsBankFile reports whether path names an exported bank rather than an exam document.
func IsBankFile(path string) bool {
	_, ok := FormatOf(path)
	return ok
}

// WriteFile exports bank to path, creating the parent directory.
func WriteFile(path string, bank exam.QuestionBank, format Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", path, err)
	}
	defer func() { _ = f.Close() }()

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(bank); err != nil {
			return fmt.Errorf("json.Encode() > %w", err)
		}
	case FormatYAML, "":
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		if err := enc.Encode(bank); err != nil {
			return fmt.Errorf("yaml.Encode() > %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

// ReadFile loads a bank exported by WriteFile.
func ReadFile(path string) (exam.QuestionBank, error) {
	format, ok := FormatOf(path)
	if !ok {
		return exam.QuestionBank{}, fmt.Errorf("%s is not a .yml, .yaml or .json file", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return exam.QuestionBank{}, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}

	var bank exam.QuestionBank
	switch format {
	case FormatJSON:
		err = json.Unmarshal(content, &bank)
	default:
		err = yaml.Unmarshal(content, &bank)
	}
	if err != nil {
		return exam.QuestionBank{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return bank, nil
}
