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
)

var instance Operations = globalOperations{}

// Instance returns the process-wide Operations bound to database.GetDB().
// The database is looked up on every call, so Instance may be captured
// before database.InitDB runs; calls made before then fail with
// ErrNotInitialized.
func Instance() Operations {
	return instance
}

type globalOperations struct{}

func (globalOperations) ops() (Operations, error) {
	db := database.GetDB()
	if db == nil {
		return nil, ErrNotInitialized
	}
	return New(db), nil
}

func (g globalOperations) Count(ctx context.Context, entity Entity, query string, params map[string]any) (int64, error) {
	ops, err := g.ops()
	if err != nil {
		return 0, err
	}
	return ops.Count(ctx, entity, query, params)
}

func (g globalOperations) List(ctx context.Context, entity Entity, dest any, query string, params map[string]any, page *types.PageRequest) error {
	ops, err := g.ops()
	if err != nil {
		return err
	}
	return ops.List(ctx, entity, dest, query, params, page)
}

func (g globalOperations) FindByID(ctx context.Context, entity Entity, dest any, id any) error {
	ops, err := g.ops()
	if err != nil {
		return err
	}
	return ops.FindByID(ctx, entity, dest, id)
}

func (g globalOperations) Persist(ctx context.Context, entity Entity, models any) error {
	ops, err := g.ops()
	if err != nil {
		return err
	}
	return ops.Persist(ctx, entity, models)
}

func (g globalOperations) Delete(ctx context.Context, entity Entity, query string, params map[string]any) (int64, error) {
	ops, err := g.ops()
	if err != nil {
		return 0, err
	}
	return ops.Delete(ctx, entity, query, params)
}
