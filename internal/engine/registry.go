package engine

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"

	"realestate/internal/models"
)

// ErrUnknownDataset is returned for dataset names outside the fixed set.
var ErrUnknownDataset = errors.New("unknown dataset")

// DatasetSpec points a dataset at its source file.
type DatasetSpec struct {
	ID   models.DatasetID
	Path string
}

// Registry holds the loaded table of every dataset. It is never modified
// after construction, so readers need no locking.
type Registry struct {
	order  []models.DatasetID
	tables map[models.DatasetID]*Table
}

// NewRegistry wraps already-built tables, in models.AllDatasets order.
func NewRegistry(tables map[models.DatasetID]*Table) *Registry {
	r := &Registry{tables: make(map[models.DatasetID]*Table, len(tables))}
	for _, id := range models.AllDatasets {
		if t, ok := tables[id]; ok {
			r.order = append(r.order, id)
			r.tables[id] = t
		}
	}
	return r
}

// Load reads every dataset in parallel. Any failure aborts the whole load
// and nothing partially loaded is returned.
func Load(ctx context.Context, specs []DatasetSpec) (*Registry, error) {
	start := time.Now()
	log.Infof("Loading %d datasets...", len(specs))

	seen := make(map[models.DatasetID]bool, len(specs))
	for _, spec := range specs {
		if !models.KnownDataset(spec.ID) {
			return nil, errors.Wrapf(ErrUnknownDataset, "%q", spec.ID)
		}
		if seen[spec.ID] {
			return nil, errors.Newf("dataset %q listed twice", spec.ID)
		}
		seen[spec.ID] = true
	}

	tables := make([]*Table, len(specs))
	g, ctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := LoadTable(spec.Path)
			if err != nil {
				return errors.Wrapf(err, "dataset %q", spec.ID)
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, t := range tables {
			t.Release()
		}
		return nil, err
	}

	byID := make(map[models.DatasetID]*Table, len(specs))
	for i, spec := range specs {
		byID[spec.ID] = tables[i]
	}
	log.Infof("Registry ready: %d datasets in %v", len(byID), time.Since(start))
	return NewRegistry(byID), nil
}

// Table returns the table for id.
func (r *Registry) Table(id models.DatasetID) (*Table, bool) {
	if r == nil {
		return nil, false
	}
	t, ok := r.tables[id]
	return t, ok
}

// Datasets lists the loaded dataset IDs.
func (r *Registry) Datasets() []models.DatasetID {
	if r == nil {
		return nil
	}
	out := make([]models.DatasetID, len(r.order))
	copy(out, r.order)
	return out
}

// Release frees all tables. The registry must not be used afterwards.
func (r *Registry) Release() {
	if r == nil {
		return
	}
	for _, t := range r.tables {
		t.Release()
	}
}
