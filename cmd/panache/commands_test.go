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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamFlags(t *testing.T) {
	flags := paramFlags{
		values: []string{"name=007", "full=Smith, John", "empty="},
		ints:   []string{"max= 10"},
		lists:  []string{"names=Alice", "names=Bob, Jr", "ids=1"},
	}
	params, err := flags.parse()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":  "007",
		"full":  "Smith, John",
		"empty": "",
		"max":   int64(10),
		"names": []string{"Alice", "Bob, Jr"},
		"ids":   []string{"1"},
	}, params)

	for _, bad := range []paramFlags{
		{values: []string{"novalue"}},
		{values: []string{"=1"}},
		{ints: []string{"max=ten"}},
		{values: []string{"a=1"}, ints: []string{"a=1"}},
		{values: []string{"a=1"}, lists: []string{"a=1"}},
		{lists: []string{"nolist"}},
	} {
		_, err := bad.parse()
		assert.Error(t, err, "%+v", bad)
	}
}

func TestCountCommand(t *testing.T) {
	dir := t.TempDir()
	fixture := filepath.Join(dir, "persons.yaml")
	require.NoError(t, os.WriteFile(fixture, []byte(`- name: Alice
- name: Bob
- name: Alice
- name: "007"
- name: "Smith, John"
`), 0o644))
	cfgPath := filepath.Join(dir, "panache.yaml")
	dbName := filepath.Join(dir, "people")
	require.NoError(t, os.WriteFile(cfgPath, []byte("database:\n  connection:\n    dbname: "+dbName+"\n"), 0o644))

	run := func(args ...string) string {
		var out bytes.Buffer
		cmd := newRootCommand()
		cmd.SetOut(&out)
		cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
		require.NoError(t, cmd.Execute())
		return strings.TrimSpace(out.String())
	}

	assert.Equal(t, "5 persons inserted", run("seed", "--file", fixture))
	assert.Equal(t, "5", run("count"))
	assert.Equal(t, "2", run("count", "-q", "name = :name", "-p", "name=Alice"))
	assert.Equal(t, "1", run("count", "-q", "name = :name", "-p", "name=007"))
	assert.Equal(t, "1", run("count", "-q", "name = :name", "-p", "name=Smith, John"))
	assert.Equal(t, "3", run("count", "-q", "name in :names", "--list", "names=Alice", "--list", "names=Bob"))
	assert.Equal(t, "2", run("count", "-q", "id <= :max", "--int-param", "max=2"))

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfgPath, "count", "-q", "name = :name"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binding")
}
