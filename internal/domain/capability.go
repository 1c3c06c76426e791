package domain

// Capability is a single permitted action. Access control is a flat
// role -> capability lookup, not a role hierarchy.
type Capability string

const (
	CapListUsers     Capability = "users.list"
	CapCreateUser    Capability = "users.create"
	CapListStores    Capability = "stores.list"
	CapCreateStore   Capability = "stores.create"
	CapListRatings   Capability = "ratings.list"
	CapRateStore     Capability = "ratings.rate"
	CapViewOwnRating Capability = "ratings.view_own"
	CapViewDashboard Capability = "dashboard.view"
)

var roleCapabilities = map[Role]map[Capability]struct{}{
	RoleAdmin: {
		CapListUsers:   {},
		CapCreateUser:  {},
		CapListStores:  {},
		CapCreateStore: {},
		CapListRatings: {},
	},
	RoleUser: {
		CapListStores:    {},
		CapRateStore:     {},
		CapViewOwnRating: {},
	},
	// A store owner sees only their own store's feedback through the
	// dashboard; they cannot browse the directory.
	RoleStoreOwner: {
		CapViewDashboard: {},
	},
}

// Can reports whether the role is granted the capability.
func (r Role) Can(c Capability) bool {
	_, ok := roleCapabilities[r][c]
	return ok
}

// Capabilities returns the set of capabilities granted to the role.
func (r Role) Capabilities() []Capability {
	caps := make([]Capability, 0, len(roleCapabilities[r]))
	for c := range roleCapabilities[r] {
		caps = append(caps, c)
	}
	return caps
}
