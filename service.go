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

package panache

import (
	"context"
	"sync"

	"github.com/tomoncle/panache/orm"
	"github.com/tomoncle/panache/repository"
	"github.com/tomoncle/panache/types"
)

type Service[T any] interface {
	// Get returns a single entity by its identifier.
	Get(ctx context.Context, id any) (*T, error)

	// All returns all entities.
	All(ctx context.Context) ([]*T, error)

	// List returns entities matching query.
	List(ctx context.Context, query string, params map[string]any) ([]*T, error)

	// Count returns the number of entities matching query.
	Count(ctx context.Context, query string, params map[string]any) (int64, error)

	// Page returns one page of entities matching query.
	Page(ctx context.Context, query string, params map[string]any, page *types.PageRequest) (*types.Pagination[T], error)

	// Save inserts one or more new entities.
	Save(ctx context.Context, model ...*T) error

	// Delete removes entities matching query.
	Delete(ctx context.Context, query string, params map[string]any) (int64, error)
}

type baseServiceImpl[T any] struct {
	repo repository.Repository[T]
	once sync.Once
}

// NewService returns a Service for T on the process-wide orm.Instance().
func NewService[T any]() Service[T] {
	return &baseServiceImpl[T]{}
}

var (
	personsOnce sync.Once
	persons     *repository.PersonRepository
)

// Persons returns the shared PersonRepository on orm.Instance().
func Persons() *repository.PersonRepository {
	personsOnce.Do(func() { persons = repository.NewPersonRepository(orm.Instance()) })
	return persons
}

func (s *baseServiceImpl[T]) baseRepo() repository.Repository[T] {
	s.once.Do(func() { s.repo = repository.NewRepository[T](orm.Instance()) })
	return s.repo
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, id any) (*T, error) {
	return s.baseRepo().FindByID(ctx, id)
}

func (s *baseServiceImpl[T]) All(ctx context.Context) ([]*T, error) {
	return s.baseRepo().ListAll(ctx)
}

func (s *baseServiceImpl[T]) List(ctx context.Context, query string, params map[string]any) ([]*T, error) {
	return s.baseRepo().List(ctx, query, params)
}

func (s *baseServiceImpl[T]) Count(ctx context.Context, query string, params map[string]any) (int64, error) {
	return s.baseRepo().Count(ctx, query, params)
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, query string, params map[string]any, page *types.PageRequest) (*types.Pagination[T], error) {
	return s.baseRepo().Page(ctx, query, params, page)
}

func (s *baseServiceImpl[T]) Save(ctx context.Context, model ...*T) error {
	return s.baseRepo().Persist(ctx, model...)
}

func (s *baseServiceImpl[T]) Delete(ctx context.Context, query string, params map[string]any) (int64, error) {
	return s.baseRepo().Delete(ctx, query, params)
}
