package catalog

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"shapekit/internal/shape"
	"shapekit/internal/transform"
	"shapekit/internal/union"
)

// Result is the outcome of one derivation. Record is set for every rule but
// index, which sets Index.
type Result struct {
	Name     string
	Rule     Rule
	From     string
	Record   *shape.RecordShape
	Index    *union.Index
	Duration time.Duration
}

// Derive runs every declared derivation, at most WithWorkers at once.
// Results come back in declaration order. The first failure cancels the
// derivations not yet started and is returned.
func (c *Catalog) Derive(ctx context.Context) ([]Result, error) {
	defs := c.file.Derive
	results := make([]Result, len(defs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.workers)

	for i := range defs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			start := time.Now()
			res, err := c.derive(defs[i])
			res.Duration = time.Since(start)

			c.cfg.logger.LogDerive(DeriveEvent{
				Name:     defs[i].Name,
				Rule:     defs[i].Rule,
				From:     defs[i].From,
				Duration: res.Duration,
				Err:      err,
			})

			if err != nil {
				return fmt.Errorf("derive %s: %w", defs[i].Name, err)
			}

			results[i] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// DeriveOne runs the derivation declared as name.
func (c *Catalog) DeriveOne(name string) (Result, error) {
	for _, d := range c.file.Derive {
		if d.Name == name {
			start := time.Now()
			res, err := c.derive(d)
			res.Duration = time.Since(start)

			return res, err
		}
	}

	return Result{}, fmt.Errorf("catalog: derivation %q %w", name, ErrNotDeclared)
}

func (c *Catalog) derive(d DeriveDef) (Result, error) {
	res := Result{Name: d.Name, Rule: d.Rule, From: d.From}

	if d.Rule == RuleFind || d.Rule == RuleIndex {
		u := c.unions[d.From]

		discriminant := d.Discriminant
		if discriminant == "" {
			discriminant = u.Discriminant
		}

		if d.Rule == RuleFind {
			variant, err := union.FindVariant(u, discriminant, d.Value)
			res.Record = variant

			return res, err
		}

		idx, err := union.IndexByDiscriminant(u, discriminant)
		res.Index = idx

		return res, err
	}

	r := c.records[d.From]

	switch d.Rule {
	case RuleDeepOptional:
		res.Record = transform.DeepOptional(r)
	case RuleDeepNullable:
		res.Record = transform.DeepNullable(r)
	case RuleWiden:
		widened, err := transform.WidenField(r, d.Field)
		if err != nil {
			return res, err
		}

		res.Record = widened
	default:
		return res, fmt.Errorf("unknown rule %q", d.Rule)
	}

	return res, nil
}
