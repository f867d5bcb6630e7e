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

package repository

import (
	"context"

	"github.com/tomoncle/panache/orm"
	"github.com/tomoncle/panache/types"
)

type baseRepositoryImpl[T any] struct {
	ops    orm.Operations
	entity orm.Entity
}

// NewRepository returns a generic repository for T delegating to ops.
func NewRepository[T any](ops orm.Operations) Repository[T] {
	return newBaseRepository[T](ops)
}

func newBaseRepository[T any](ops orm.Operations) *baseRepositoryImpl[T] {
	return &baseRepositoryImpl[T]{ops: ops, entity: orm.EntityOf[T]()}
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context, query string, params map[string]any) (int64, error) {
	return r.ops.Count(ctx, r.entity, query, params)
}

func (r *baseRepositoryImpl[T]) CountAll(ctx context.Context) (int64, error) {
	return r.ops.Count(ctx, r.entity, "", nil)
}

func (r *baseRepositoryImpl[T]) Exists(ctx context.Context, query string, params map[string]any) (bool, error) {
	n, err := r.ops.Count(ctx, r.entity, query, params)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *baseRepositoryImpl[T]) FindByID(ctx context.Context, id any) (*T, error) {
	entity := new(T)
	if err := r.ops.FindByID(ctx, r.entity, entity, id); err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) List(ctx context.Context, query string, params map[string]any) ([]*T, error) {
	entities := make([]*T, 0)
	if err := r.ops.List(ctx, r.entity, &entities, query, params, nil); err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) ListAll(ctx context.Context) ([]*T, error) {
	return r.List(ctx, "", nil)
}

// Page counts first and skips the row query when nothing matches.
func (r *baseRepositoryImpl[T]) Page(ctx context.Context, query string, params map[string]any, page *types.PageRequest) (*types.Pagination[T], error) {
	if page == nil {
		page = types.NewPageRequest(1, 0)
	}
	pagination := types.NewDefaultPagination[T](page.GetPage(), page.GetPageSize())
	total, err := r.ops.Count(ctx, r.entity, query, params)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return pagination, nil
	}
	entities := make([]*T, 0, page.GetPageSize())
	if err := r.ops.List(ctx, r.entity, &entities, query, params, page); err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = entities
	return pagination, nil
}

func (r *baseRepositoryImpl[T]) Persist(ctx context.Context, entity ...*T) error {
	if len(entity) == 0 {
		return nil
	}
	entities := make([]*T, len(entity))
	copy(entities, entity)
	return r.ops.Persist(ctx, r.entity, &entities)
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, query string, params map[string]any) (int64, error) {
	return r.ops.Delete(ctx, r.entity, query, params)
}
