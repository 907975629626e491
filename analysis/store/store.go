// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package store implements a flow-fact store keyed by receivers, and the alias oracles it consults to invalidate
// facts.
package store

import (
	"github.com/awslabs/argot-flowexpr/analysis/receiver"
	"github.com/awslabs/argot-flowexpr/internal/funcutil"
)

// A Store maps receivers to facts of type V. Receivers are compared with receiver.Receiver.Key, so equal receivers
// share their entry. A Store is not safe for concurrent use.
type Store[V any] struct {
	aliases receiver.AliasStore
	entries map[string]entry[V]
}

type entry[V any] struct {
	r receiver.Receiver
	v V
}

// New returns an empty store answering alias queries with aliases. A nil aliases never reports aliasing.
func New[V any](aliases receiver.AliasStore) *Store[V] {
	return &Store[V]{aliases: aliases, entries: map[string]entry[V]{}}
}

// CanAlias implements receiver.AliasStore.
func (s *Store[V]) CanAlias(a, b receiver.Receiver) bool {
	return s.aliases != nil && s.aliases.CanAlias(a, b)
}

// Insert records v for r, replacing the previous fact. Receivers that contain an Unknown denote no stable value and
// are not inserted; Insert returns false for them.
func (s *Store[V]) Insert(r receiver.Receiver, v V) bool {
	if receiver.ContainsUnknown(r) {
		return false
	}
	s.entries[r.Key()] = entry[V]{r: r, v: v}
	return true
}

// Get returns the fact of r.
func (s *Store[V]) Get(r receiver.Receiver) (V, bool) {
	e, ok := s.entries[r.Key()]
	return e.v, ok
}

// Remove removes the fact of r.
func (s *Store[V]) Remove(r receiver.Receiver) {
	delete(s.entries, r.Key())
}

// Len returns the number of facts in the store.
func (s *Store[V]) Len() int { return len(s.entries) }

// Receivers returns the receivers with a fact, sorted by key.
func (s *Store[V]) Receivers() []receiver.Receiver {
	return funcutil.Map(funcutil.SortedKeys(s.entries), func(k string) receiver.Receiver { return s.entries[k].r })
}

func (s *Store[V]) removeIf(f func(receiver.Receiver) bool) {
	for k, e := range s.entries {
		if f(e.r) {
			delete(s.entries, k)
		}
	}
}

// UpdateForAssignment removes the facts that may no longer hold after target has been assigned. An assignment to a
// local variable invalidates the receivers that mention it. An assignment to any other location invalidates the
// receivers that may reach it through a modifiable path, except variables, which only change when they are assigned
// themselves.
func (s *Store[V]) UpdateForAssignment(target receiver.Receiver) {
	if _, ok := target.(*receiver.LocalVariable); ok {
		s.removeIf(func(r receiver.Receiver) bool { return r.ContainsSyntacticEqualReceiver(target) })
		return
	}
	s.removeIf(func(r receiver.Receiver) bool {
		switch r.(type) {
		case *receiver.LocalVariable, *receiver.ThisReference, *receiver.ClassName, *receiver.ValueLiteral:
			return false
		}
		return r.ContainsModifiableAliasOf(s, target)
	})
}

// UpdateForCall removes the facts that a call may invalidate. Calls to deterministic functions have no visible
// effect. Other calls may assign any location that is reachable by other code.
func (s *Store[V]) UpdateForCall(deterministic bool) {
	if deterministic {
		return
	}
	s.removeIf(func(r receiver.Receiver) bool { return !r.IsUnassignableByOtherCode() })
}

// Copy returns a copy of s with the same alias oracle.
func (s *Store[V]) Copy() *Store[V] {
	c := New[V](s.aliases)
	for k, e := range s.entries {
		c.entries[k] = e
	}
	return c
}

// Join returns the store holding the facts of the receivers present in both s and other, merged with merge. A fact is
// dropped when merge returns false.
func (s *Store[V]) Join(other *Store[V], merge func(a, b V) (V, bool)) *Store[V] {
	res := New[V](s.aliases)
	for k, e := range s.entries {
		o, ok := other.entries[k]
		if !ok {
			continue
		}
		if v, keep := merge(e.v, o.v); keep {
			res.entries[k] = entry[V]{r: e.r, v: v}
		}
	}
	return res
}
