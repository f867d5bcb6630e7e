/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package orm

import (
	"context"

	"github.com/tomoncle/panache/database"
	"github.com/tomoncle/panache/types"
	"github.com/uptrace/bun"
)

// Operations executes entity queries. Implementations hold no per-call state
// and are safe for concurrent use.
type Operations interface {
	// Count returns the number of entity rows matching query.
	Count(ctx context.Context, entity Entity, query string, params map[string]any) (int64, error)

	// List scans matching rows into dest, a pointer to a slice of the entity.
	// A nil page returns every row.
	List(ctx context.Context, entity Entity, dest any, query string, params map[string]any, page *types.PageRequest) error

	// FindByID scans the row with primary key id into dest.
	FindByID(ctx context.Context, entity Entity, dest any, id any) error

	// Persist inserts models, a pointer to an entity or to a slice of them.
	Persist(ctx context.Context, entity Entity, models any) error

	// Delete removes matching rows and returns how many were removed.
	Delete(ctx context.Context, entity Entity, query string, params map[string]any) (int64, error)
}

type bunOperations struct {
	db     bun.IDB
	logger database.Logger
}

// Option customizes operations built by New.
type Option func(*bunOperations)

// WithLogger sets the logger used for debug output.
func WithLogger(logger database.Logger) Option {
	return func(o *bunOperations) { o.logger = logger }
}

// New returns Operations running on db, which may be a *bun.DB, bun.Tx or bun.Conn.
func New(db bun.IDB, opts ...Option) Operations {
	o := &bunOperations{db: db, logger: database.GetLogger()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *bunOperations) Count(ctx context.Context, entity Entity, query string, params map[string]any) (int64, error) {
	cq, err := compile(entity, query, params)
	if err != nil {
		return 0, err
	}
	q := o.db.NewSelect().Model(entity.Model())
	if cq.where != "" {
		q = q.Where(cq.where, cq.args...)
	}
	o.logger.Debug("count", "entity", entity.Name(), "query", query)
	n, err := q.Count(ctx)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}

func (o *bunOperations) List(ctx context.Context, entity Entity, dest any, query string, params map[string]any, page *types.PageRequest) error {
	cq, err := compile(entity, query, params)
	if err != nil {
		return err
	}
	q := o.db.NewSelect().Model(dest)
	if cq.where != "" {
		q = q.Where(cq.where, cq.args...)
	}
	for _, order := range cq.orders {
		q = q.OrderExpr(order)
	}
	if page != nil {
		q = q.Order(page.GetOrders()...).
			Offset(page.GetOffset()).
			Limit(page.GetPageSize())
	}
	o.logger.Debug("list", "entity", entity.Name(), "query", query)
	return q.Scan(ctx)
}

func (o *bunOperations) FindByID(ctx context.Context, entity Entity, dest any, id any) error {
	return o.db.NewSelect().Model(dest).Where("?PKs = ?", id).Scan(ctx)
}

func (o *bunOperations) Persist(ctx context.Context, entity Entity, models any) error {
	_, err := o.db.NewInsert().Model(models).Exec(ctx)
	return err
}

func (o *bunOperations) Delete(ctx context.Context, entity Entity, query string, params map[string]any) (int64, error) {
	cq, err := compile(entity, query, params)
	if err != nil {
		return 0, err
	}
	q := o.db.NewDelete().Model(entity.Model())
	if cq.where != "" {
		q = q.Where(cq.where, cq.args...)
	} else {
		q = q.Where("1 = 1")
	}
	o.logger.Debug("delete", "entity", entity.Name(), "query", query)
	res, err := q.Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
