package main

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"vehicle-finance-workers/pkg/registry"
)

type workerData struct {
	ID          string
	Name        string
	PackageName string
	TaskType    string
	Description string
	Timeout     time.Duration
	Fields      []field
	Required    []string
}

type field struct {
	JSONName    string
	GoName      string
	GoType      string
	SchemaType  string
	Description string
	Nullable    bool
}

var templates = map[string]string{
	"config.go":       configTemplate,
	"models.go":       modelsTemplate,
	"validation.go":   validationTemplate,
	"handler.go":      handlerTemplate,
	"handler_test.go": testTemplate,
}

// generate renders the worker scaffold for activity under outputDir and
// returns the files written.
func generate(activity registry.Activity, outputDir string, force bool) ([]string, error) {
	data, err := newWorkerData(activity)
	if err != nil {
		return nil, err
	}

	workerDir := filepath.Join(outputDir, mapCategoryToDirectory(activity.Category), activity.ID)
	if err := os.MkdirAll(workerDir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)

	var written []string
	for _, name := range names {
		path := filepath.Join(workerDir, name)
		if _, err := os.Stat(path); err == nil && !force {
			return written, fmt.Errorf("%s already exists; use --force to overwrite", path)
		}

		src, err := render(name, templates[name], data)
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func render(name, tmplStr string, data workerData) ([]byte, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", name, err)
	}
	return src, nil
}

func newWorkerData(a registry.Activity) (workerData, error) {
	timeout := 10 * time.Second
	if a.Timeout != "" {
		d, err := time.ParseDuration(a.Timeout)
		if err != nil {
			return workerData{}, fmt.Errorf("activity %s has invalid timeout: %w", a.ID, err)
		}
		timeout = d
	}

	data := workerData{
		ID:          a.ID,
		Name:        a.DisplayName,
		PackageName: strings.ReplaceAll(a.ID, "-", ""),
		TaskType:    a.TaskType,
		Description: a.Description,
		Timeout:     timeout,
		Fields:      schemaFields(a.InputSchema),
	}
	if req, ok := a.InputSchema["required"].([]interface{}); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				data.Required = append(data.Required, s)
			}
		}
	}
	return data, nil
}

// schemaFields reads the properties of an input schema in name order.
func schemaFields(schema map[string]interface{}) []field {
	props, _ := schema["properties"].(map[string]interface{})
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]field, 0, len(names))
	for _, name := range names {
		details, _ := props[name].(map[string]interface{})
		schemaType, nullable := propertyType(details["type"])
		desc, _ := details["description"].(string)

		f := field{
			JSONName:    name,
			GoName:      upperFirst(name),
			GoType:      goTypeFromJSONType(schemaType),
			SchemaType:  schemaType,
			Description: desc,
			Nullable:    nullable,
		}
		if nullable && !strings.HasPrefix(f.GoType, "[]") && !strings.HasPrefix(f.GoType, "map") {
			f.GoType = "*" + f.GoType
		}
		fields = append(fields, f)
	}
	return fields
}

// propertyType accepts "number" as well as ["number", "null"].
func propertyType(raw interface{}) (string, bool) {
	switch t := raw.(type) {
	case string:
		return t, false
	case []interface{}:
		var base string
		nullable := false
		for _, v := range t {
			s, _ := v.(string)
			if s == "null" {
				nullable = true
			} else if base == "" {
				base = s
			}
		}
		return base, nullable
	}
	return "", false
}

func goTypeFromJSONType(jsonType string) string {
	switch jsonType {
	case "string":
		return "string"
	case "number":
		return "float64"
	case "integer":
		return "int"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	if strings.HasSuffix(s, "Id") {
		s = strings.TrimSuffix(s, "Id") + "ID"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func mapCategoryToDirectory(category string) string {
	switch category {
	case "finance", "affordability":
		return "finance"
	case "notification", "communication":
		return "communication"
	case "data-access", "storage":
		return "data-access"
	default:
		return strings.ToLower(category)
	}
}
