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

package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/uptrace/bun"
	"gopkg.in/yaml.v3"
)

// FixtureLoader inserts the rows stored in the YAML file at path and
// reports how many were written.
type FixtureLoader func(ctx context.Context, db bun.IDB, path string) (int, error)

var (
	fixturesMu sync.RWMutex
	fixtures   = map[string]FixtureLoader{}
)

// RegisteredFixture binds a loader to a fixture name. SeedFixtures looks for
// "<root>/<environment>/<name>.yaml".
func RegisteredFixture(name string, loader FixtureLoader) {
	fixturesMu.Lock()
	defer fixturesMu.Unlock()
	fixtures[name] = loader
}

// YAMLFixture returns a FixtureLoader decoding a YAML list of T.
func YAMLFixture[T any]() FixtureLoader {
	return func(ctx context.Context, db bun.IDB, path string) (int, error) {
		return SeedFromYAML[T](ctx, db, path)
	}
}

// SeedFromYAML decodes a YAML sequence of T from path and inserts it in one
// statement.
func SeedFromYAML[T any](ctx context.Context, db bun.IDB, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read fixture file: %w", err)
	}
	var rows []*T
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return 0, fmt.Errorf("failed to parse fixture file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if _, err := db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// SeedFixtures runs every registered loader whose file exists for the
// environment. Loaders run in name order; missing files are skipped.
func SeedFixtures(ctx context.Context, db bun.IDB, root, environment string) (int, error) {
	fixturesMu.RLock()
	names := make([]string, 0, len(fixtures))
	for name := range fixtures {
		names = append(names, name)
	}
	fixturesMu.RUnlock()
	sort.Strings(names)

	total := 0
	for _, name := range names {
		path := filepath.Join(root, environment, name+".yaml")
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		fixturesMu.RLock()
		loader := fixtures[name]
		fixturesMu.RUnlock()

		n, err := loader(ctx, db, path)
		if err != nil {
			return total, fmt.Errorf("fixture %s: %w", name, err)
		}
		total += n
	}
	return total, nil
}
