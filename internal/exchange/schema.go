package exchange

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ShravyaChalla/fetch-rewards-assessment/constants"
)

const objectIDPattern = `^[0-9a-fA-F]{24}$`

// BuildCollectionSchema returns the JSON Schema a record of collection c must satisfy.
// The schemas only pin what the decomposers rely on structurally: the record id,
// the embedded line-item array and the cpg reference. Everything else stays loose
// so a missing or odd scalar becomes null downstream instead of failing the run.
func BuildCollectionSchema(c constants.Collection) map[string]any {
	props := map[string]any{
		"_id": objectIDProp(),
	}
	switch c {
	case constants.CollectionReceipts:
		props["userId"] = map[string]any{
			"anyOf": []any{
				map[string]any{"type": []string{"string", "null"}},
				objectIDProp(),
			},
		}
		props["rewardsReceiptItemList"] = map[string]any{
			"type":  []string{"array", "null"},
			"items": map[string]any{"type": []string{"object", "null"}},
		}
	case constants.CollectionBrands:
		props["cpg"] = map[string]any{
			"type": []string{"object", "null"},
			"properties": map[string]any{
				"$id":  objectIDProp(),
				"$ref": map[string]any{"type": []string{"string", "null"}},
			},
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   []string{"_id"},
	}
}

func objectIDProp() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"$oid": map[string]any{"type": "string", "pattern": objectIDPattern},
		},
		"required": []string{"$oid"},
	}
}

// compileSchema compiles schemaMap into a validator.
func compileSchema(name string, schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	url := name + ".schema.json"
	if err := compiler.AddResource(url, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}
