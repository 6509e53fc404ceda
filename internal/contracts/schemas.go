package contracts

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed schemas
var schemasFS embed.FS

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	// Добавляем все схемы как ресурсы, чтобы они могли ссылаться
	// друг на друга через `$ref`.
	err := fs.WalkDir(schemasFS, "schemas/events", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".json") {
			file, _ := schemasFS.Open(path)
			defer file.Close()
			if err := compiler.AddResource(path, file); err != nil {
				log.Fatalf("failed to add schema resource %s: %v", path, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("error walking and adding schema resources: %v", err)
	}

	// Снова обходим для компиляции и регистрации.
	err = fs.WalkDir(schemasFS, "schemas/events", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".json") {
			schema, err := compiler.Compile(path)
			if err != nil {
				log.Printf("WARNING: could not compile schema %s: %v. Skipping.", path, err)
				return nil
			}

			key := generateKeyFromPath(path)
			compiledSchemas[key] = schema
		}
		return nil
	})
	if err != nil {
		log.Fatalf("error walking and compiling schemas: %v", err)
	}
}

// generateKeyFromPath преобразует путь вида "schemas/events/raw-listing/v1.json"
// в ключ вида "RawListingEvent/1.0.0".
func generateKeyFromPath(path string) string {
	trimmedPath := strings.TrimPrefix(path, "schemas/events/")
	trimmedPath = strings.TrimSuffix(trimmedPath, ".json")

	parts := strings.Split(trimmedPath, "/")
	if len(parts) != 2 {
		return ""
	}

	caser := cases.Title(language.English)

	eventNameParts := strings.Split(parts[0], "-")
	for i, p := range eventNameParts {
		eventNameParts[i] = caser.String(p)
	}
	eventName := strings.Join(eventNameParts, "") + "Event"

	version := strings.TrimPrefix(parts[1], "v") + ".0.0"

	return eventName + "/" + version
}

// Validate проверяет payload (уже декодированное JSON-значение) по
// зарегистрированной схеме.
func Validate(schemaKey string, payload interface{}) error {
	schema, ok := compiledSchemas[schemaKey]
	if !ok {
		return fmt.Errorf("contracts: unknown schema %q", schemaKey)
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("contracts: payload does not match schema %q: %w", schemaKey, err)
	}
	return nil
}

// ValidateRawListing - валидация одной сырой записи на границе нормализатора.
func ValidateRawListing(payload interface{}) error {
	return Validate("RawListingEvent/1.0.0", payload)
}
