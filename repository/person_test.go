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
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/panache/internal/testdb"
	"github.com/tomoncle/panache/model"
	"github.com/tomoncle/panache/orm"
	"github.com/tomoncle/panache/types"
	"github.com/uptrace/bun"
)

// recordingOps records Count calls and answers with fixed results.
type recordingOps struct {
	orm.Operations

	mu     sync.Mutex
	calls  []countCall
	result int64
	err    error
}

type countCall struct {
	entity orm.Entity
	query  string
	params map[string]any
}

func (o *recordingOps) Count(_ context.Context, entity orm.Entity, query string, params map[string]any) (int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, countCall{entity, query, params})
	return o.result, o.err
}

func personDB(t *testing.T, names ...string) (*bun.DB, *PersonRepository) {
	t.Helper()
	db := testdb.Open(t, (*model.Person)(nil))
	repo := NewPersonRepository(orm.New(db))
	for _, n := range names {
		require.NoError(t, repo.Persist(context.Background(), &model.Person{Name: n}))
	}
	return db, repo
}

func TestPersonCountForwardsUnchanged(t *testing.T) {
	ops := &recordingOps{result: 42}
	repo := NewPersonRepository(ops)
	params := map[string]any{"name": "Alice", "status": model.StatusLiving}

	n, err := repo.Count(context.Background(), "name = :name and status = :status", params)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	require.Len(t, ops.calls, 1)
	call := ops.calls[0]
	assert.Equal(t, "Person", call.entity.Name())
	assert.Equal(t, "name = :name and status = :status", call.query)
	assert.Equal(t, params, call.params)
	assert.Len(t, params, 2)
}

func TestPersonCountPropagatesError(t *testing.T) {
	failure := errors.New("connection reset")
	ops := &recordingOps{err: failure}
	repo := NewPersonRepository(ops)

	n, err := repo.Count(context.Background(), "", nil)
	assert.Zero(t, n)
	assert.Same(t, failure, err)
}

func TestPersonCountAll(t *testing.T) {
	_, repo := personDB(t, "Alice", "Bob", "Alice")
	ctx := context.Background()

	n, err := repo.Count(ctx, "", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = repo.Count(ctx, "", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	all, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, n, all)
}

func TestPersonCountByName(t *testing.T) {
	_, repo := personDB(t, "Alice", "Bob", "Alice")
	ctx := context.Background()

	n, err := repo.Count(ctx, "name = :name", map[string]any{"name": "Alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.Count(ctx, "name = :name", types.With("name", "Nobody").Map())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPersonCountMissingParameter(t *testing.T) {
	_, repo := personDB(t, "Alice")

	n, err := repo.Count(context.Background(), "name = :name", map[string]any{})
	assert.Zero(t, n)
	var be *orm.BindingError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "name", be.Name)
}

func TestPersonCountMatchesDirectQuery(t *testing.T) {
	db, repo := personDB(t, "Alice", "Bob", "Carol", "Alice")
	ctx := context.Background()

	want, err := db.NewSelect().Model((*model.Person)(nil)).Where("name = ?", "Alice").Count(ctx)
	require.NoError(t, err)

	got, err := repo.Count(ctx, "name = :name", map[string]any{"name": "Alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(want), got)
}

func TestPersonCountIsRepeatable(t *testing.T) {
	_, repo := personDB(t, "Alice", "Bob")
	ctx := context.Background()
	params := map[string]any{"name": "Bob"}

	first, err := repo.Count(ctx, "name = :name", params)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		n, err := repo.Count(ctx, "name = :name", params)
		require.NoError(t, err)
		assert.Equal(t, first, n)
	}
	assert.Equal(t, map[string]any{"name": "Bob"}, params)
}

func TestPersonCountReflectsWrites(t *testing.T) {
	_, repo := personDB(t, "Alice")
	ctx := context.Background()

	require.NoError(t, repo.Persist(ctx, &model.Person{Name: "Alice"}))
	n, err := repo.Count(ctx, "name = :name", map[string]any{"name": "Alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestPersonCountConcurrent(t *testing.T) {
	_, repo := personDB(t, "Alice", "Bob", "Alice")
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	results := make([]int64, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				results[i], errs[i] = repo.Count(ctx, "name = :name", map[string]any{"name": "Alice"})
			} else {
				results[i], errs[i] = repo.Count(ctx, "unique_name is null and name in :names", map[string]any{"names": []string{"Bob"}})
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		want := int64(1)
		if i%2 == 0 {
			want = 2
		}
		assert.Equal(t, want, results[i], "worker %d", i)
	}
}
