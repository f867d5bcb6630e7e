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

import "reflect"

// Entity describes a persisted struct type.
type Entity struct {
	typ   reflect.Type
	model any
}

// EntityOf returns the descriptor of the struct type T.
func EntityOf[T any]() Entity {
	return Entity{
		typ:   reflect.TypeOf((*T)(nil)).Elem(),
		model: (*T)(nil),
	}
}

// Name is the Go type name, the name accepted after "from".
func (e Entity) Name() string {
	if e.typ == nil {
		return ""
	}
	return e.typ.Name()
}

// Type returns the struct type.
func (e Entity) Type() reflect.Type { return e.typ }

// Model returns a typed nil pointer usable as a Bun model.
func (e Entity) Model() any { return e.model }

// IsZero reports whether e was not built with EntityOf.
func (e Entity) IsZero() bool { return e.typ == nil }

func (e Entity) String() string { return e.Name() }
