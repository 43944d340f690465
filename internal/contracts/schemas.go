package contracts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	DealChangedEvent    = "DealChangedEvent"
	ActScheduledEvent   = "ActScheduledEvent"
	CurrentEventVersion = "1.0.0"
)

//go:embed schemas/events
var schemasFS embed.FS

const schemasRoot = "schemas/events"

var compiledSchemas map[string]*jsonschema.Schema

func init() {
	schemas, err := compileSchemas(schemasFS)
	if err != nil {
		panic(fmt.Sprintf("contracts: %v", err))
	}
	compiledSchemas = schemas
}

// compileSchemas сначала регистрирует все файлы как ресурсы (для $ref), затем компилирует
func compileSchemas(fsys fs.FS) (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string
	err := fs.WalkDir(fsys, schemasRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := fsys.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking schema resources: %w", err)
	}

	compiled := make(map[string]*jsonschema.Schema, len(paths))
	for _, path := range paths {
		key := keyFromPath(path)
		if key == "" {
			return nil, fmt.Errorf("unexpected schema path %s", path)
		}
		schema, err := compiler.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("could not compile schema %s: %w", path, err)
		}
		compiled[key] = schema
	}
	return compiled, nil
}

// keyFromPath: "schemas/events/deal-changed/v1.json" -> "DealChangedEvent/1.0.0"
func keyFromPath(path string) string {
	trimmed := strings.TrimPrefix(path, schemasRoot+"/")
	trimmed = strings.TrimSuffix(trimmed, ".json")

	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || !strings.HasPrefix(parts[1], "v") {
		return ""
	}

	caser := cases.Title(language.English)
	var name strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		name.WriteString(caser.String(p))
	}
	name.WriteString("Event")

	return fmt.Sprintf("%s/%s.0.0", name.String(), strings.TrimPrefix(parts[1], "v"))
}

// ValidateEvent проверяет тело сообщения по схеме события указанной версии
func ValidateEvent(eventType, eventVersion string, body []byte) error {
	schema, ok := compiledSchemas[eventType+"/"+eventVersion]
	if !ok {
		return fmt.Errorf("schema for event '%s' version '%s' not found", eventType, eventVersion)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("message body is not a valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
