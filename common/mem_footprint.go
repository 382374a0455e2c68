// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// MemoryFootprint describes the memory consumption of a data structure as a
// tree of named components.
type MemoryFootprint struct {
	value    uintptr
	children map[string]*MemoryFootprint
}

// MemoryFootprintProvider is implemented by types reporting their memory usage.
type MemoryFootprintProvider interface {
	GetMemoryFootprint() *MemoryFootprint
}

// NewMemoryFootprint creates a new MemoryFootprint instance for a data structure
func NewMemoryFootprint(value uintptr) *MemoryFootprint {
	return &MemoryFootprint{
		value:    value,
		children: make(map[string]*MemoryFootprint),
	}
}

// AddChild attaches the MemoryFootprint of a subcomponent. Nil children are ignored.
func (mf *MemoryFootprint) AddChild(name string, child *MemoryFootprint) {
	if child == nil {
		return
	}
	mf.children[name] = child
}

// GetChild returns the footprint of the named subcomponent or nil.
func (mf *MemoryFootprint) GetChild(name string) *MemoryFootprint {
	return mf.children[name]
}

// Value provides the amount of bytes consumed by the structure (excluding its subcomponents)
func (mf *MemoryFootprint) Value() uintptr {
	return mf.value
}

// Total provides the amount of bytes consumed by the structure including all
// its subcomponents. Shared components are counted once.
func (mf *MemoryFootprint) Total() uintptr {
	return includeObjectIntoTotal(mf, map[*MemoryFootprint]bool{})
}

func includeObjectIntoTotal(mf *MemoryFootprint, includedObjects map[*MemoryFootprint]bool) (total uintptr) {
	if includedObjects[mf] {
		return 0
	}
	includedObjects[mf] = true
	total = mf.value
	for _, child := range mf.children {
		total += includeObjectIntoTotal(child, includedObjects)
	}
	return total
}

func (mf *MemoryFootprint) String() string {
	str, _ := mf.ToString(".")
	return str
}

// ToString provides the memory footprint as a tree summary in a string.
// The name param allows to give a name to the root of the tree.
func (mf *MemoryFootprint) ToString(name string) (string, error) {
	var sb strings.Builder
	err := mf.toStringBuilder(&sb, name, map[*MemoryFootprint]bool{})
	return sb.String(), err
}

func (mf *MemoryFootprint) toStringBuilder(sb *strings.Builder, path string, visited map[*MemoryFootprint]bool) error {
	if visited[mf] {
		return nil
	}
	visited[mf] = true
	if err := memoryAmountToString(sb, mf.Total()); err != nil {
		return err
	}
	sb.WriteRune(' ')
	sb.WriteString(path)
	sb.WriteRune('\n')
	names := maps.Keys(mf.children)
	slices.Sort(names)
	for _, name := range names {
		if err := mf.children[name].toStringBuilder(sb, path+"/"+name, visited); err != nil {
			return err
		}
	}
	return nil
}

func memoryAmountToString(sb *strings.Builder, bytes uintptr) error {
	const unit = 1024
	const prefixes = "KMGTPE"
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp+1 < len(prefixes); n /= unit {
		div *= unit
		exp++
	}
	_, err := fmt.Fprintf(sb, "%.1f %cB", float64(bytes)/float64(div), prefixes[exp])
	return err
}
