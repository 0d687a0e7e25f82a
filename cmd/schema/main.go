package main

import (
	"encoding/json"
	"flag"
	"os"
	"reflect"

	"exodus-server/internal/engine"
	"exodus-server/pkg/logger"

	"github.com/invopop/jsonschema"
)

// Печатает JSON Schema конфига генерации (для редакторов YAML и валидации в CI).
func main() {
	logger.Init()

	out := flag.String("o", "", "Output file (stdout if empty)")
	flag.Parse()

	r := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := r.ReflectFromType(reflect.TypeOf(engine.Config{}))
	schema.Title = "Exodus layer generation config"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		logger.Log.Fatal("Failed to marshal schema:", err)
	}

	if *out == "" {
		os.Stdout.Write(append(data, '\n'))
		return
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		logger.Log.Fatal("Failed to write schema:", err)
	}
	logger.Log.WithField("path", *out).Info("Schema written")
}
