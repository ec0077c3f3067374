package dispatch

// Region is the part of the page a control lives in.
type Region string

const (
	RegionCards  Region = "cards"
	RegionItems  Region = "items"
	RegionFooter Region = "footer"
)

// Role identifies what a control does, independent of how it is styled.
type Role string

const (
	RoleBuy       Role = "buy"
	RoleIncrement Role = "increment"
	RoleDecrement Role = "decrement"
	RoleClear     Role = "clear"
)

type Action int

const (
	ActionNone Action = iota
	ActionAdd
	ActionIncrement
	ActionDecrement
	ActionClear
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionIncrement:
		return "increment"
	case ActionDecrement:
		return "decrement"
	case ActionClear:
		return "clear"
	default:
		return "none"
	}
}

// Resolve maps a control to a cart action. A role is only honoured in the
// region that renders it, so a buy control can never be read as an
// increment and vice versa.
func Resolve(region Region, role Role) Action {
	switch {
	case region == RegionCards && role == RoleBuy:
		return ActionAdd
	case region == RegionItems && role == RoleIncrement:
		return ActionIncrement
	case region == RegionItems && role == RoleDecrement:
		return ActionDecrement
	case region == RegionFooter && role == RoleClear:
		return ActionClear
	default:
		return ActionNone
	}
}
