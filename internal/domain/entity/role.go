package entity

// Role enumerates the user roles known to the system.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Status enumerates account lifecycle states.
type Status string

const (
	StatusNew     Status = "NEW"
	StatusActive  Status = "ACTIVE"
	StatusBlocked Status = "BLOCKED"
)

func (r Role) String() string {
	return string(r)
}

func (s Status) String() string {
	return string(s)
}
