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
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tomoncle/panache/config"
	"github.com/tomoncle/panache/database"
	"github.com/tomoncle/panache/model"
	"github.com/tomoncle/panache/orm"
	"github.com/tomoncle/panache/repository"
)

type rootOptions struct {
	configPath string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "panache",
		Short:         "Query and maintain the person store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")

	cmd.AddCommand(
		newCountCommand(opts),
		newMigrateCommand(opts),
		newSeedCommand(opts),
		newHealthCommand(opts),
	)
	return cmd
}

// withDatabase loads config, opens the global database, runs fn and closes it.
func withDatabase(ctx context.Context, opts *rootOptions, migrate bool, fn func(ctx context.Context) error) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	cfg.ApplyLogging()
	if _, err := database.InitDatabaseWithOptions(&cfg.Database, migrate); err != nil {
		return err
	}
	defer func() { _ = database.CloseDB() }()
	return fn(ctx)
}

func newCountCommand(opts *rootOptions) *cobra.Command {
	var (
		query  string
		params paramFlags
	)
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count persons matching a query",
		Example: `  panache count
  panache count --query "name = :name" --param name=Alice
  panache count --query "id <= :max" --int-param max=10
  panache count --query "name in :names" --list names=Alice --list names=Bob`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bound, err := params.parse()
			if err != nil {
				return err
			}
			return withDatabase(cmd.Context(), opts, false, func(ctx context.Context) error {
				n, err := repository.NewPersonRepository(orm.Instance()).Count(ctx, query, bound)
				if err != nil {
					return fmt.Errorf("count failed (%s): %w", orm.Classify(err), err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "predicate, e.g. \"name = :name\"")
	params.register(cmd)
	return cmd
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables for registered models",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), opts, true, func(context.Context) error {
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}

func newSeedCommand(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert persons from a YAML fixture",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), opts, true, func(ctx context.Context) error {
				n, err := database.SeedFromYAML[model.Person](ctx, database.GetDB(), file)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d persons inserted\n", n)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML list of persons")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newHealthCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Ping the database and print pool statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), opts, false, func(ctx context.Context) error {
				out := map[string]any{
					"health": database.GetHealthStatus(ctx),
					"stats":  database.GetDatabaseStats(),
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			})
		},
	}
}

// paramFlags collects named parameters from the command line. Values are
// bound as strings unless given with --int-param; repeating --list for the
// same name builds a list.
type paramFlags struct {
	values []string
	ints   []string
	lists  []string
}

func (f *paramFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.values, "param", "p", nil, "string parameter as name=value")
	cmd.Flags().StringArrayVar(&f.ints, "int-param", nil, "integer parameter as name=value")
	cmd.Flags().StringArrayVar(&f.lists, "list", nil, "list element as name=value, repeat to add elements")
}

func (f *paramFlags) parse() (map[string]any, error) {
	params := make(map[string]any)
	bind := func(flag, raw string, convert func(string) (any, error)) error {
		name, value, err := splitParam(flag, raw)
		if err != nil {
			return err
		}
		if _, dup := params[name]; dup {
			return fmt.Errorf("parameter %q is bound more than once", name)
		}
		v, err := convert(value)
		if err != nil {
			return fmt.Errorf("invalid --%s %q: %w", flag, raw, err)
		}
		params[name] = v
		return nil
	}

	for _, raw := range f.values {
		if err := bind("param", raw, func(v string) (any, error) { return v, nil }); err != nil {
			return nil, err
		}
	}
	for _, raw := range f.ints {
		if err := bind("int-param", raw, func(v string) (any, error) {
			return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		}); err != nil {
			return nil, err
		}
	}

	lists := make(map[string][]string)
	for _, raw := range f.lists {
		name, value, err := splitParam("list", raw)
		if err != nil {
			return nil, err
		}
		if _, dup := params[name]; dup {
			return nil, fmt.Errorf("parameter %q is bound more than once", name)
		}
		lists[name] = append(lists[name], value)
	}
	for name, values := range lists {
		params[name] = values
	}
	return params, nil
}

// splitParam splits name=value; the value is kept verbatim.
func splitParam(flag, raw string) (string, string, error) {
	name, value, ok := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("invalid --%s %q, expected name=value", flag, raw)
	}
	return name, value, nil
}
