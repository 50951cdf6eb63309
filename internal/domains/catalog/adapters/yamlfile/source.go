// Package yamlfile loads the menu from a YAML document.
package yamlfile

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Apurer/go-gin-kiosk/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-kiosk/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-kiosk/internal/platform/localstorage"
)

var _ ports.Source = (*Source)(nil)

// document mirrors the catalog file:
//
//	items:
//	  - id: 1
//	    name: Salada de Frutas
//	    price: "6.00"
//	    image: https://example.com/salada.jpeg
type document struct {
	Items []itemRecord `yaml:"items" validate:"required,min=1,dive"`
}

type itemRecord struct {
	ID    int64  `yaml:"id" validate:"gt=0"`
	Name  string `yaml:"name" validate:"required"`
	Price string `yaml:"price" validate:"required"`
	Image string `yaml:"image" validate:"omitempty,url"`
}

// Source reads a catalog file on every Items call.
type Source struct {
	path string
}

func NewSource(path string) *Source {
	return &Source{path: path}
}

func (s *Source) Items(_ context.Context) ([]domain.Item, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses and validates a catalog document. Duplicate ids and price
// sign are left to domain.NewCatalog.
func Decode(r io.Reader) ([]domain.Item, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog file: %w", err)
	}
	if err := localstorage.Validator().Struct(doc); err != nil {
		return nil, fmt.Errorf("invalid catalog file: %w", err)
	}
	items := make([]domain.Item, 0, len(doc.Items))
	for _, rec := range doc.Items {
		price, err := decimal.NewFromString(rec.Price)
		if err != nil {
			return nil, fmt.Errorf("item %d: price %q: %w", rec.ID, rec.Price, err)
		}
		items = append(items, domain.Item{
			ID:        rec.ID,
			Name:      rec.Name,
			UnitPrice: price,
			ImageRef:  rec.Image,
		})
	}
	return items, nil
}
