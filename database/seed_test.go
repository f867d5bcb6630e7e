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

package database_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/panache/database"
	"github.com/tomoncle/panache/internal/testdb"
	"github.com/tomoncle/panache/model"
)

const personsYAML = `
- name: Alice
  unique_name: alice
- name: Bob
  status: DECEASED
- name: Carol
  status: 0
`

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSeedFromYAML(t *testing.T) {
	db := testdb.Open(t, (*model.Person)(nil))
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "persons.yaml")
	writeFixture(t, path, personsYAML)

	n, err := database.SeedFromYAML[model.Person](ctx, db, path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var bob model.Person
	require.NoError(t, db.NewSelect().Model(&bob).Where("name = ?", "Bob").Scan(ctx))
	assert.Equal(t, model.StatusDeceased, bob.Status)

	_, err = database.SeedFromYAML[model.Person](ctx, db, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSeedFixtures(t *testing.T) {
	db := testdb.Open(t, (*model.Person)(nil))
	ctx := context.Background()
	root := t.TempDir()
	writeFixture(t, filepath.Join(root, "test", "person.yaml"), personsYAML)

	n, err := database.SeedFixtures(ctx, db, root, "test")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = database.SeedFixtures(ctx, db, root, "production")
	require.NoError(t, err)
	assert.Zero(t, n)
}
