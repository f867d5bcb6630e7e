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

	"github.com/tomoncle/panache/model"
	"github.com/tomoncle/panache/orm"
)

// PersonRepository gives access to Person rows. Count goes straight to the
// operations it was built with; the remaining methods come from the generic
// repository it holds.
type PersonRepository struct {
	Repository[model.Person]

	ops    orm.Operations
	entity orm.Entity
}

var _ Repository[model.Person] = (*PersonRepository)(nil)

// NewPersonRepository builds a PersonRepository on ops. Pass orm.Instance()
// for the process-wide operations.
func NewPersonRepository(ops orm.Operations) *PersonRepository {
	return &PersonRepository{
		Repository: NewRepository[model.Person](ops),
		ops:        ops,
		entity:     orm.EntityOf[model.Person](),
	}
}

// Count returns the number of persons matching query, an empty query
// counting every person. query and params reach the operations unchanged,
// and so does any error they return.
func (r *PersonRepository) Count(ctx context.Context, query string, params map[string]any) (int64, error) {
	return r.ops.Count(ctx, r.entity, query, params)
}
