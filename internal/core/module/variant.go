// Package module builds rendering modules for bootstrap plans.
package module

import (
	"fmt"

	"github.com/zeusync/vecview/internal/core/platform"
)

// Variant is one build of the rendering module.
type Variant struct {
	Name                 string `yaml:"name" json:"name"`
	RequiresSharedMemory bool   `yaml:"requires_shared_memory" json:"requiresSharedMemory"`
	RequiresSIMD         bool   `yaml:"requires_simd" json:"requiresSimd"`
	Workers              int    `yaml:"workers" json:"workers"`
}

// DefaultVariants lists the stock builds, most capable first.
func DefaultVariants() []Variant {
	return []Variant{
		{Name: "index-0", RequiresSharedMemory: true, RequiresSIMD: true, Workers: 4},
		{Name: "index-1", RequiresSharedMemory: true, Workers: 4},
		{Name: "index-2", Workers: 1},
	}
}

// Names returns the variant names in order, suitable as a bootstrap plan.
func Names(variants []Variant) []string {
	names := make([]string, len(variants))
	for i, v := range variants {
		names[i] = v.Name
	}
	return names
}

// Supports reports whether caps satisfy every requirement of v.
func (v Variant) Supports(caps platform.Capabilities) bool {
	if v.RequiresSharedMemory && !caps.SharedMemory {
		return false
	}
	if v.RequiresSIMD && !caps.SIMD {
		return false
	}
	return true
}

// Validate checks a variant list for empty or repeated names.
func Validate(variants []Variant) error {
	seen := make(map[string]struct{}, len(variants))
	for i, v := range variants {
		if v.Name == "" {
			return fmt.Errorf("variant %d: %w", i, ErrUnnamedVariant)
		}
		if _, ok := seen[v.Name]; ok {
			return fmt.Errorf("variant %s: %w", v.Name, ErrDuplicateVariant)
		}
		seen[v.Name] = struct{}{}
	}
	return nil
}
