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

package model

import (
	"database/sql/driver"
	"fmt"

	"github.com/tomoncle/panache/types"
	"gopkg.in/yaml.v3"
)

// Status is the life status of a Person, stored as its ordinal.
type Status int

const (
	StatusLiving Status = iota
	StatusDeceased
)

var statusNames = map[Status][2]string{
	StatusLiving:   {"LIVING", "alive"},
	StatusDeceased: {"DECEASED", "no longer alive"},
}

var statuses = []Status{StatusLiving, StatusDeceased}

var _ types.BaseEnum = StatusLiving

func (s Status) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s Status) Number() int { return int(s) }

func (s Status) String() string { return s.Name() }

func (s Status) Name() string {
	if n, ok := statusNames[s]; ok {
		return n[0]
	}
	return types.IllegalName
}

func (s Status) Desc() string {
	if n, ok := statusNames[s]; ok {
		return n[1]
	}
	return types.IllegalDesc
}

// ParseStatus resolves a status by its name, ignoring case.
func ParseStatus(name string) (Status, error) {
	if s, ok := types.EnumByName(statuses, name); ok {
		return s, nil
	}
	return Status(types.IllegalValue), fmt.Errorf("unknown status: %q", name)
}

// Value implements driver.Valuer.
func (s Status) Value() (driver.Value, error) {
	return int64(s), nil
}

// Scan implements sql.Scanner.
func (s *Status) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = StatusLiving
	case int64:
		*s = Status(v)
	case []byte:
		return s.Scan(string(v))
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
			return fmt.Errorf("invalid status value %q: %w", v, err)
		}
		*s = Status(n)
	default:
		return fmt.Errorf("unsupported status value type %T", value)
	}
	return nil
}

// UnmarshalYAML accepts both the status name and its ordinal.
func (s *Status) UnmarshalYAML(node *yaml.Node) error {
	var n int
	if err := node.Decode(&n); err == nil {
		*s = Status(n)
		return nil
	}
	parsed, err := ParseStatus(node.Value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
