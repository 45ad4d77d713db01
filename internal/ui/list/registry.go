// Package list implements a selectable list: an item registry with an
// active item and a selection, a scrollable view over it and a drop-down
// composition in single-select mode.
package list

import "slices"

// Item is one registered entry.
type Item struct {
	ID   string
	Name string
}

// ChangeFunc observes selection changes. wasDestroyed is true when the
// change came from an item being unregistered rather than from the user.
type ChangeFunc func(selected []string, wasDestroyed bool)

type changeObserver struct {
	id int
	fn ChangeFunc
}

// Registry tracks the mounted items in order, the active item and the
// selected ids. Only the registry mutates its collections; callers read
// copies.
type Registry struct {
	items    []Item
	active   string
	selected []string
	single   bool

	observers []changeObserver
	nextObs   int
}

// NewRegistry returns an empty multi-select registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewSingleRegistry returns a registry where at most one id is selected.
func NewSingleRegistry() *Registry {
	return &Registry{single: true}
}

// Single reports whether the registry is in single-select mode.
func (r *Registry) Single() bool { return r.single }

func (r *Registry) index(id string) int {
	for i, it := range r.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Register appends item, or renames it if the id is already registered.
func (r *Registry) Register(item Item) {
	if i := r.index(item.ID); i >= 0 {
		r.items[i].Name = item.Name
		return
	}
	r.items = append(r.items, item)
}

// Rename changes the display name of id. Unknown ids are ignored.
func (r *Registry) Rename(id, name string) {
	if i := r.index(id); i >= 0 {
		r.items[i].Name = name
	}
}

// Unregister removes id. If it was active, the previous item becomes active;
// removing the first item clears the active id so ActiveID falls back to
// whatever is first. If it was selected, observers are notified
// with wasDestroyed set.
func (r *Registry) Unregister(id string) {
	i := r.index(id)
	if i < 0 {
		return
	}
	r.items = slices.Delete(r.items, i, i+1)
	if r.active == id {
		switch {
		case i > 0:
			r.active = r.items[i-1].ID
		default:
			r.active = ""
		}
	}
	if j := slices.Index(r.selected, id); j >= 0 {
		r.selected = slices.Delete(r.selected, j, j+1)
		r.notify(true)
	}
}

// Clear unregisters every item.
func (r *Registry) Clear() {
	for len(r.items) > 0 {
		r.Unregister(r.items[len(r.items)-1].ID)
	}
}

// GetName returns the display name of id.
func (r *Registry) GetName(id string) (string, bool) {
	if i := r.index(id); i >= 0 {
		return r.items[i].Name, true
	}
	return "", false
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	return r.index(id) >= 0
}

// Items returns a copy of the registered items in order.
func (r *Registry) Items() []Item {
	return slices.Clone(r.items)
}

// Len is the number of registered items.
func (r *Registry) Len() int { return len(r.items) }

// Index returns the position of id, or -1.
func (r *Registry) Index(id string) int { return r.index(id) }

// Selection returns a copy of the selected ids in selection order.
func (r *Registry) Selection() []string {
	return slices.Clone(r.selected)
}

// IsSelected reports whether id is selected.
func (r *Registry) IsSelected(id string) bool {
	return slices.Contains(r.selected, id)
}

// ActiveID returns the active item, defaulting to the first registered one.
func (r *Registry) ActiveID() string {
	if r.active != "" && r.index(r.active) >= 0 {
		return r.active
	}
	if len(r.items) > 0 {
		return r.items[0].ID
	}
	return ""
}

// SetActive makes id active. Unknown ids are ignored.
func (r *Registry) SetActive(id string) bool {
	if r.index(id) < 0 {
		return false
	}
	r.active = id
	return true
}

// MoveUp activates the previous item. It reports false at the top.
func (r *Registry) MoveUp() bool {
	return r.move(-1)
}

// MoveDown activates the next item. It reports false at the bottom.
func (r *Registry) MoveDown() bool {
	return r.move(1)
}

func (r *Registry) move(delta int) bool {
	i := r.index(r.ActiveID())
	if i < 0 {
		return false
	}
	next := i + delta
	if next < 0 || next >= len(r.items) {
		return false
	}
	r.active = r.items[next].ID
	return true
}

// Toggle flips the membership of id in the selection. In single-select mode
// selecting an id replaces the selection, and toggling the selected id
// leaves it empty. Unknown ids are ignored.
func (r *Registry) Toggle(id string) {
	if r.index(id) < 0 {
		return
	}
	if j := slices.Index(r.selected, id); j >= 0 {
		r.selected = slices.Delete(r.selected, j, j+1)
	} else if r.single {
		r.selected = []string{id}
	} else {
		r.selected = append(r.selected, id)
	}
	r.notify(false)
}

// ToggleActive toggles the active item.
func (r *Registry) ToggleActive() {
	if id := r.ActiveID(); id != "" {
		r.Toggle(id)
	}
}

// Click activates id and toggles it.
func (r *Registry) Click(id string) {
	if r.SetActive(id) {
		r.Toggle(id)
	}
}

// SetSelection replaces the selection with the registered ids in ids.
// Observers are notified only when the selection changes.
func (r *Registry) SetSelection(ids []string) {
	next := make([]string, 0, len(ids))
	for _, id := range ids {
		if r.index(id) >= 0 && !slices.Contains(next, id) {
			next = append(next, id)
		}
	}
	if r.single && len(next) > 1 {
		next = next[:1]
	}
	if slices.Equal(next, r.selected) {
		return
	}
	r.selected = next
	r.notify(false)
}

// OnChange registers fn and returns a function that removes it.
func (r *Registry) OnChange(fn ChangeFunc) func() {
	r.nextObs++
	id := r.nextObs
	r.observers = append(r.observers, changeObserver{id: id, fn: fn})
	return func() {
		r.observers = slices.DeleteFunc(r.observers, func(o changeObserver) bool { return o.id == id })
	}
}

func (r *Registry) notify(wasDestroyed bool) {
	for _, o := range slices.Clone(r.observers) {
		o.fn(slices.Clone(r.selected), wasDestroyed)
	}
}
