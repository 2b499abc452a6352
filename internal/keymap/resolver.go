package keymap

import (
	"slices"
	"strings"
)

// Resolver looks up actions for tea.KeyMsg.String() values and renders key
// hints for the status line.
type Resolver struct {
	actions map[string]Action
	keys    map[Action][]string
	labels  map[Action]string
}

// NewResolver indexes bindings. A key bound twice resolves to the later
// binding; keys listed for an action keep their first-seen order.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		actions: make(map[string]Action),
		keys:    make(map[Action][]string),
		labels:  make(map[Action]string),
	}
	for _, b := range bindings {
		for _, k := range b.Keys {
			r.actions[k] = b.Action
			if !slices.Contains(r.keys[b.Action], k) {
				r.keys[b.Action] = append(r.keys[b.Action], k)
			}
		}
		if _, ok := r.labels[b.Action]; !ok {
			r.labels[b.Action] = strings.ToLower(b.Description)
		}
	}
	return r
}

// Resolve returns the action bound to key, or "" when unbound.
func (r *Resolver) Resolve(key string) Action {
	return r.actions[key]
}

// KeysFor returns the keys bound to action in binding order.
func (r *Resolver) KeysFor(action Action) []string {
	return r.keys[action]
}

// Hint renders "key label" pairs for actions, using each action's first
// key. Unbound actions are skipped.
func (r *Resolver) Hint(actions ...Action) string {
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		keys := r.keys[a]
		if len(keys) == 0 {
			continue
		}
		parts = append(parts, displayKey(keys[0])+" "+r.labels[a])
	}
	return strings.Join(parts, " · ")
}

func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
