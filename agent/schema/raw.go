package schema

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	contractx "github.com/supportline/supportline/agent/contract"
)

//go:embed jsonschema/*.json
var schemaFS embed.FS

// Documents the registry can check raw JSON against. intent_result covers
// the reasoning engine's classifier output, which never becomes a
// StructuredRecord but still has to be shape-checked before decoding.
const (
	DocOrderInfo    = "order_info"
	DocRefundResult = "refund_result"
	DocIntentResult = "intent_result"
)

var compiled = mustCompileDocs()

func mustCompileDocs() map[string]*gojsonschema.Schema {
	docs := map[string]*gojsonschema.Schema{}
	for _, name := range []string{DocOrderInfo, DocRefundResult, DocIntentResult} {
		raw, err := schemaFS.ReadFile("jsonschema/" + name + ".json")
		if err != nil {
			panic(fmt.Sprintf("schema: missing embedded document %s: %v", name, err))
		}
		s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			panic(fmt.Sprintf("schema: compile document %s: %v", name, err))
		}
		docs[name] = s
	}
	return docs
}

// ValidateRaw checks raw JSON (typically a reasoning-engine response)
// against the named document before anyone attempts to decode it.
func ValidateRaw(doc string, raw []byte) error {
	s, ok := compiled[doc]
	if !ok {
		return fmt.Errorf("%w: unknown schema document %q", contractx.ErrSchemaViolation, doc)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", contractx.ErrSchemaViolation, doc, err)
	}
	if result.Valid() {
		return nil
	}

	fields := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		fields = append(fields, fmt.Sprintf("%s (%s)", e.Field(), e.Description()))
	}
	return fmt.Errorf("%w: %s: %s", contractx.ErrSchemaViolation, doc, strings.Join(fields, "; "))
}
