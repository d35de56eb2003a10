// Copyright 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package fsa

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// StateSet is an unordered set of states.
type StateSet map[StateID]struct{}

// NewStateSet returns a set holding ids.
func NewStateSet(ids ...StateID) StateSet {
	s := make(StateSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains test whether id is present
func (s StateSet) Contains(id StateID) bool {
	_, present := s[id]
	return present
}

// Insert adds id; it returns true when the set changed
func (s StateSet) Insert(id StateID) bool {
	if _, present := s[id]; present {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Extend adds every element of other
func (s StateSet) Extend(other StateSet) {
	for id := range other {
		s[id] = struct{}{}
	}
}

func (s StateSet) Len() int { return len(s) }

func (s StateSet) Equal(other StateSet) bool {
	return maps.Equal(s, other)
}

// Sorted returns the elements of s in ascending order;
// this is the canonical form of the set.
func (s StateSet) Sorted() []StateID {
	ids := maps.Keys(s)
	slices.Sort(ids)
	return ids
}
