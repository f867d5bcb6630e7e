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

	"github.com/tomoncle/panache/types"
)

// CountRepository counts entities matching a query with named parameters.
type CountRepository interface {
	Count(ctx context.Context, query string, params map[string]any) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	Exists(ctx context.Context, query string, params map[string]any) (bool, error)
}

// QueryRepository reads entities.
type QueryRepository[T any] interface {
	FindByID(ctx context.Context, id any) (*T, error)
	List(ctx context.Context, query string, params map[string]any) ([]*T, error)
	ListAll(ctx context.Context) ([]*T, error)
	Page(ctx context.Context, query string, params map[string]any, page *types.PageRequest) (*types.Pagination[T], error)
}

// WriteRepository mutates entities.
type WriteRepository[T any] interface {
	Persist(ctx context.Context, entity ...*T) error
	Delete(ctx context.Context, query string, params map[string]any) (int64, error)
}

// Repository combines count, read and write access for one entity type.
type Repository[T any] interface {
	CountRepository
	QueryRepository[T]
	WriteRepository[T]
}
