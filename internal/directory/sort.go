package directory

// Sort selects the primary listing key and its direction. The zero value
// means "no sort requested".
type Sort struct {
	Key  string
	Desc bool
}

// Sort keys accepted by the listing endpoints.
const (
	SortByName  = "name"
	SortByEmail = "email"
	SortByRole  = "role"
)

// ToggleSort computes the next sort state when key is selected while current
// is active: selecting the active key flips the direction, selecting a new
// key starts ascending on it.
func ToggleSort(current Sort, key string) Sort {
	if current.Key == key {
		return Sort{Key: key, Desc: !current.Desc}
	}
	return Sort{Key: key, Desc: false}
}

// less orders two string keys honoring the sort direction. Equal keys report
// false both ways, which lets a stable sort keep insertion order for ties.
func (s Sort) less(a, b string) bool {
	if a == b {
		return false
	}
	if s.Desc {
		return a > b
	}
	return a < b
}
