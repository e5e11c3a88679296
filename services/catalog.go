package services

import (
	"github/itish2003/deepsearch/models"
)

// Catalog is the ordered set of datasets a search runs over. It is never
// mutated after Load returns; reloading builds a new Catalog.
type Catalog struct {
	datasets []*models.Dataset
	byName   map[string]*models.Dataset
}

// NewCatalog keeps datasets in the given order. Later duplicates of a name
// are dropped.
func NewCatalog(datasets ...*models.Dataset) *Catalog {
	c := &Catalog{byName: make(map[string]*models.Dataset, len(datasets))}
	for _, ds := range datasets {
		if ds == nil {
			continue
		}
		if _, dup := c.byName[ds.Name]; dup {
			continue
		}
		c.byName[ds.Name] = ds
		c.datasets = append(c.datasets, ds)
	}
	return c
}

// Datasets returns the datasets in load order.
func (c *Catalog) Datasets() []*models.Dataset {
	if c == nil {
		return nil
	}
	return c.datasets
}

// Get looks up a dataset by name.
func (c *Catalog) Get(name string) (*models.Dataset, bool) {
	if c == nil {
		return nil, false
	}
	ds, ok := c.byName[name]
	return ds, ok
}

// Names returns dataset names in load order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Datasets()))
	for _, ds := range c.Datasets() {
		names = append(names, ds.Name)
	}
	return names
}

// Columns returns every distinct column name across datasets, first seen first.
func (c *Catalog) Columns() []string {
	seen := make(map[string]bool)
	var out []string
	for _, ds := range c.Datasets() {
		for _, col := range ds.Columns {
			if !seen[col] {
				seen[col] = true
				out = append(out, col)
			}
		}
	}
	return out
}
