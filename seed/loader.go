// Package seed loads the initial catalog from a YAML document, either a file
// on disk or the catalog embedded in the binary.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/giygas/healthplans-api/entities"
	"github.com/giygas/healthplans-api/interfaces"
	"github.com/giygas/healthplans-api/logging"
	"github.com/giygas/healthplans-api/validation"
	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Compile-time check to ensure Loader implements CatalogLoader
var _ interfaces.CatalogLoader = (*Loader)(nil)

// Loader reads a catalog from path, or the embedded catalog when path is empty
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load parses the catalog. Records failing form validation are dropped with a
// warning rather than failing the whole load.
func (l *Loader) Load(ctx context.Context) (entities.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return entities.Catalog{}, err
	}

	source := "embedded"
	raw := defaultCatalog
	if l.path != "" {
		data, err := os.ReadFile(l.path)
		if err != nil {
			return entities.Catalog{}, fmt.Errorf("failed to read seed file %s: %w", l.path, err)
		}
		raw = data
		source = l.path
	}

	start := time.Now()
	catalog, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return entities.Catalog{}, fmt.Errorf("failed to parse seed %s: %w", source, err)
	}

	catalog = dropInvalid(catalog)
	logging.Info("Catalog seed loaded",
		"source", source,
		"companies", len(catalog.Companies),
		"medicines", len(catalog.Medicines),
		"filters", len(catalog.Filters),
		"plans", len(catalog.Plans),
		"users", len(catalog.Users),
		"duration", time.Since(start).String(),
	)
	return catalog, nil
}

// Decode parses a YAML catalog document. Unknown fields are rejected.
func Decode(r io.Reader) (entities.Catalog, error) {
	var catalog entities.Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&catalog); err != nil {
		if err == io.EOF {
			return entities.Catalog{}, nil
		}
		return entities.Catalog{}, err
	}
	return catalog, nil
}

// Encode writes catalog as YAML
func Encode(w io.Writer, catalog entities.Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(catalog); err != nil {
		return err
	}
	return enc.Close()
}

func dropInvalid(catalog entities.Catalog) entities.Catalog {
	out := entities.Catalog{Users: catalog.Users}

	for _, c := range catalog.Companies {
		if err := validation.ValidateCompany(c); err != nil {
			logging.Warn("Skipping invalid seed company", "id", c.ID, "error", err)
			continue
		}
		out.Companies = append(out.Companies, c)
	}
	for _, m := range catalog.Medicines {
		if err := validation.ValidateMedicine(m); err != nil {
			logging.Warn("Skipping invalid seed medicine", "id", m.ID, "error", err)
			continue
		}
		out.Medicines = append(out.Medicines, m)
	}
	for _, f := range catalog.Filters {
		if err := validation.ValidateFilter(f, out.Filters); err != nil {
			logging.Warn("Skipping invalid seed filter", "id", f.ID, "error", err)
			continue
		}
		out.Filters = append(out.Filters, f)
	}
	for _, p := range catalog.Plans {
		if err := validation.ValidatePlan(p); err != nil {
			logging.Warn("Skipping invalid seed plan", "id", p.ID, "error", err)
			continue
		}
		out.Plans = append(out.Plans, p)
	}
	return out
}
