package catalog

import (
	"embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// cue.Context is not safe for concurrent use; catalogs are loaded rarely so
// a single guarded context is enough.
var (
	schemaMu     sync.Mutex
	schemaCtx    *cue.Context
	schemaDef    cue.Value
	schemaLoaded bool
)

func loadSchema() error {
	if schemaLoaded {
		return nil
	}

	content, err := schemaFS.ReadFile("schemas/catalog.cue")
	if err != nil {
		return fmt.Errorf("could not read embedded catalog schema: %w", err)
	}

	ctx := cuecontext.New()
	inst := ctx.CompileBytes(content, cue.Filename("catalog.cue"))
	if instErr := inst.Err(); instErr != nil {
		return fmt.Errorf("could not compile catalog schema: %w", instErr)
	}

	def := inst.LookupPath(cue.ParsePath("#Catalog"))
	if !def.Exists() {
		return fmt.Errorf("catalog schema has no #Catalog definition")
	}

	schemaCtx = ctx
	schemaDef = def
	schemaLoaded = true
	return nil
}

// validateSchema unifies a decoded catalog document with #Catalog.
func validateSchema(data map[string]any) error {
	schemaMu.Lock()
	defer schemaMu.Unlock()

	if err := loadSchema(); err != nil {
		return err
	}

	dataValue := schemaCtx.Encode(data)
	if encErr := dataValue.Err(); encErr != nil {
		return fmt.Errorf("error encoding catalog: %w", encErr)
	}

	unified := schemaDef.Unify(dataValue)
	if err := unified.Err(); err != nil {
		return err
	}

	// Concreteness catches missing required fields.
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return err
	}
	return nil
}
