package kpfits

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ExtensionKind distinguishes array extensions from tabular ones.
type ExtensionKind int

const (
	KindImage ExtensionKind = iota
	KindTable
)

func (k ExtensionKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindTable:
		return "table"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ExtensionDescriptor describes one HDU of a kernel-phase product: its name,
// whether it is an image array or a table, its shape and, for the primary
// HDU, its header cards. Shapes are in row-major order, so an image written
// as (frames, wavelengths, kernels) reads back in exactly that order. Table
// shapes are modeled uniformly as [rows, cols].
//
// Header is never nil for a descriptor produced by a loader; an extension
// without header data carries an empty map.
type ExtensionDescriptor struct {
	Name   string
	Kind   ExtensionKind
	Shape  []int
	Header map[string]any
}

// Rank returns the number of axes of the extension.
func (ed *ExtensionDescriptor) Rank() int {
	return len(ed.Shape)
}

func (ed *ExtensionDescriptor) String() string {
	dims := make([]string, 0, len(ed.Shape))
	for _, d := range ed.Shape {
		dims = append(dims, fmt.Sprintf("%d", d))
	}
	return fmt.Sprintf("%s %s(%s)", ed.Name, ed.Kind, strings.Join(dims, "x"))
}

// Directory maps extension names to their descriptors. It is the input
// contract of the validator: built once by a loader, never mutated by a
// validation run. Name uniqueness is the loader's concern (last write wins).
type Directory map[string]*ExtensionDescriptor

// Names returns the extension names in sorted order.
func (dir Directory) Names() []string {
	names := maps.Keys(dir)
	slices.Sort(names)
	return names
}
