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
	"time"

	"github.com/tomoncle/panache/database"
	"github.com/uptrace/bun"
)

// PersonPriority orders the person table among registered models.
const PersonPriority = 10

func init() {
	database.RegisteredModel(database.NewModelAdapter((*Person)(nil), PersonPriority))
	database.RegisteredFixture("person", database.YAMLFixture[Person]())
}

// Person is a persisted person record.
type Person struct {
	bun.BaseModel `bun:"table:person,alias:p" yaml:"-"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id" yaml:"id"`
	Name       string    `bun:"name,notnull" json:"name" yaml:"name"`
	UniqueName string    `bun:"unique_name,unique,nullzero" json:"unique_name" yaml:"unique_name"`
	Status     Status    `bun:"status,type:integer,notnull,default:0" json:"status" yaml:"status"`
	BirthDate  time.Time `bun:"birth_date,nullzero" json:"birth_date" yaml:"birth_date"`
}
