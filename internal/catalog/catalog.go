// Package catalog loads the seed catalog: schemes, the default vendor and
// the disbursement bundle.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"

	disbursementmodels "expenseai/internal/disbursement/models"
	schememodels "expenseai/internal/scheme/models"
)

//go:embed catalog.toml
var defaultCatalog []byte

// Vendor identifies the vendor seeded when none is registered.
type Vendor struct {
	IdentityKey string
	Name        string
}

// Catalog is the validated seed data.
type Catalog struct {
	Schemes       []*schememodels.Scheme
	DefaultVendor Vendor
	Bundle        []disbursementmodels.Product
}

type fileScheme struct {
	SchemeID      string  `toml:"scheme_id"`
	Name          string  `toml:"name"`
	Description   string  `toml:"description"`
	MaxIncome     float64 `toml:"max_income"`
	MinFamilySize int     `toml:"min_family_size"`
}

type fileVendor struct {
	IdentityKey string `toml:"identity_key"`
	Name        string `toml:"name"`
}

type fileProduct struct {
	Item  string `toml:"item"`
	Qty   string `toml:"qty"`
	Price string `toml:"price"`
}

type file struct {
	Schemes       []fileScheme  `toml:"schemes"`
	DefaultVendor fileVendor    `toml:"default_vendor"`
	Bundle        []fileProduct `toml:"bundle"`
}

// Load reads the catalog at path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Parse decodes and validates TOML catalog data. Unknown keys are rejected.
func Parse(data []byte) (*Catalog, error) {
	var f file
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{
		DefaultVendor: Vendor{IdentityKey: f.DefaultVendor.IdentityKey, Name: f.DefaultVendor.Name},
	}
	for _, s := range f.Schemes {
		scheme := &schememodels.Scheme{
			SchemeID:      s.SchemeID,
			Name:          s.Name,
			Description:   s.Description,
			MaxIncome:     s.MaxIncome,
			MinFamilySize: s.MinFamilySize,
		}
		if err := scheme.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		c.Schemes = append(c.Schemes, scheme)
	}
	for _, p := range f.Bundle {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog: bundle item %q price: %w", p.Item, err)
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("catalog: bundle item %q must have a positive price", p.Item)
		}
		c.Bundle = append(c.Bundle, disbursementmodels.Product{Item: p.Item, Qty: p.Qty, Price: price})
	}

	if len(c.Schemes) == 0 {
		return nil, errors.New("catalog: at least one scheme is required")
	}
	if len(c.Bundle) == 0 {
		return nil, errors.New("catalog: bundle must not be empty")
	}
	if c.DefaultVendor.IdentityKey == "" {
		return nil, errors.New("catalog: default_vendor.identity_key is required")
	}
	return c, nil
}
