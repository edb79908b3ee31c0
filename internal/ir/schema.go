package ir

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonschema"
)

//go:embed record.schema.json
var recordSchemaJSON []byte

var (
	recordSchemaOnce sync.Once
	recordSchema     *jsonschema.Schema
	recordSchemaErr  error
)

// RecordSchema returns the JSON schema describing a serialized Config.
func RecordSchema() []byte {
	out := make([]byte, len(recordSchemaJSON))
	copy(out, recordSchemaJSON)
	return out
}

func compiledRecordSchema() (*jsonschema.Schema, error) {
	recordSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		recordSchema, recordSchemaErr = compiler.Compile(recordSchemaJSON)
		if recordSchemaErr != nil {
			recordSchemaErr = fmt.Errorf("compile record schema: %w", recordSchemaErr)
		}
	})
	return recordSchema, recordSchemaErr
}

// ValidateRecordJSON checks serialized record bytes against the record
// schema. It is the contract check run before a record leaves the CLI.
func ValidateRecordJSON(data []byte) error {
	schema, err := compiledRecordSchema()
	if err != nil {
		return err
	}
	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("record schema validation failed: %v", result.Errors)
}

// ValidateRecord serializes cfg and checks it against the record schema.
func ValidateRecord(cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return ValidateRecordJSON(data)
}
