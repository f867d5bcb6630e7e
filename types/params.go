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

package types

// Parameters collects named query parameters.
//
//	types.With("name", "Alice").And("status", model.StatusLiving).Map()
type Parameters struct {
	values map[string]any
}

// With starts a parameter set holding a single name/value pair.
func With(name string, value any) *Parameters {
	return (&Parameters{values: make(map[string]any)}).And(name, value)
}

// And adds or replaces a named value and returns the receiver.
func (p *Parameters) And(name string, value any) *Parameters {
	if p.values == nil {
		p.values = make(map[string]any)
	}
	p.values[name] = value
	return p
}

// Map returns a copy of the collected values.
func (p *Parameters) Map() map[string]any {
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}
