package pgstore

import (
	"context"

	"github.com/dalemusser/projecthub/internal/domain/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Geo reads erp_province, erp_amper and erp_tambon.
type Geo struct {
	pool *pgxpool.Pool
}

func (g *Geo) Provinces(ctx context.Context) ([]models.Province, error) {
	rows, err := g.pool.Query(ctx, `SELECT code, name_1 FROM erp_province ORDER BY code ASC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(r pgx.CollectableRow) (models.Province, error) {
		var p models.Province
		err := r.Scan(&p.Code, &p.Name1)
		return p, err
	})
}

func (g *Geo) Districts(ctx context.Context, province string) ([]models.District, error) {
	rows, err := g.pool.Query(ctx, `SELECT code, name_1, province FROM erp_amper WHERE province = $1 ORDER BY code ASC`, province)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(r pgx.CollectableRow) (models.District, error) {
		var d models.District
		err := r.Scan(&d.Code, &d.Name1, &d.Province)
		return d, err
	})
}

func (g *Geo) Villages(ctx context.Context, province, district string) ([]models.Village, error) {
	rows, err := g.pool.Query(ctx,
		`SELECT code, name_1, province, amper FROM erp_tambon WHERE province = $1 AND amper = $2 ORDER BY code ASC`,
		province, district)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(r pgx.CollectableRow) (models.Village, error) {
		var v models.Village
		err := r.Scan(&v.Code, &v.Name1, &v.Province, &v.District)
		return v, err
	})
}

// collect is pgx.CollectRows that returns an empty slice instead of nil.
func collect[T any](rows pgx.Rows, fn pgx.RowToFunc[T]) ([]T, error) {
	out, err := pgx.CollectRows(rows, fn)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
