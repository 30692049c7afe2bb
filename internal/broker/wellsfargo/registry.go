package wellsfargo

import "strings"

// Registry is the ordered set of sub-accounts discovered during login:
// masked numbers in discovery order plus their displayed balances.
// Written once during login, read-only afterward. Order matters: the
// position of a mask is later used as a loop bound when walking the
// trade selector, so it must be preserved exactly as discovered.
type Registry struct {
	masks    []string
	balances map[string]float64
}

func NewRegistry() *Registry {
	return &Registry{balances: map[string]float64{}}
}

func (r *Registry) Add(mask string, balance float64) {
	r.masks = append(r.masks, mask)
	r.balances[mask] = balance
}

func (r *Registry) Len() int {
	return len(r.masks)
}

// Masks returns the masked numbers in discovery order.
func (r *Registry) Masks() []string {
	out := make([]string, len(r.masks))
	copy(out, r.masks)
	return out
}

func (r *Registry) Balance(mask string) (float64, bool) {
	b, ok := r.balances[mask]
	return b, ok
}

// digits strips the mask glyphs, leaving the visible digits used as
// the selection key in account dropdowns.
func digits(mask string) string {
	return strings.ReplaceAll(mask, "*", "")
}
