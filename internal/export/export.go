// Package export dumps a backend collection as YAML or JSON for the
// export subcommand.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arisanku/arisan-admin/internal/api"
)

// Output formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Document is the exported file body.
type Document struct {
	Resource   string    `json:"resource" yaml:"resource"`
	ExportedAt time.Time `json:"exportedAt" yaml:"exportedAt"`
	Count      int       `json:"count" yaml:"count"`
	Items      any       `json:"items" yaml:"items"`
}

type fetcher func(ctx context.Context, s *api.Services) (any, error)

func list[T any](fn func(context.Context) ([]T, error)) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		items, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
		return items, nil
	}
}

var resources = map[string]fetcher{
	"arisan":   func(ctx context.Context, s *api.Services) (any, error) { return list(s.Arisan.List)(ctx) },
	"patungan": func(ctx context.Context, s *api.Services) (any, error) { return list(s.Patungan.List)(ctx) },
	"events":   func(ctx context.Context, s *api.Services) (any, error) { return list(s.Events.List)(ctx) },
	"settings": func(ctx context.Context, s *api.Services) (any, error) { return list(s.Settings.List)(ctx) },
	"users":    func(ctx context.Context, s *api.Services) (any, error) { return list(s.Users.List)(ctx) },
	"gallery":  func(ctx context.Context, s *api.Services) (any, error) { return list(s.Gallery.List)(ctx) },
	"orders":   func(ctx context.Context, s *api.Services) (any, error) { return list(s.Orders.List)(ctx) },
	"koperasi": func(ctx context.Context, s *api.Services) (any, error) { return list(s.Summary.Koperasi)(ctx) },
}

// Resources lists the names accepted by Collect.
func Resources() []string {
	names := make([]string, 0, len(resources))
	for name := range resources {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Collect fetches the named collection.
func Collect(ctx context.Context, s *api.Services, resource string) (Document, error) {
	name := strings.ToLower(strings.TrimSpace(resource))
	fetch, ok := resources[name]
	if !ok {
		return Document{}, fmt.Errorf("unknown resource %q (want one of %s)", resource, strings.Join(Resources(), ", "))
	}
	items, err := fetch(ctx, s)
	if err != nil {
		return Document{}, fmt.Errorf("fetch %s: %w", name, err)
	}
	return Document{
		Resource:   name,
		ExportedAt: time.Now().UTC().Truncate(time.Second),
		Count:      reflect.ValueOf(items).Len(),
		Items:      items,
	}, nil
}

// Write encodes doc to w in the given format.
func Write(w io.Writer, format string, doc Document) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}
