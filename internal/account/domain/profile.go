package domain

import "time"

// Profile is the role-specific extension record created together with an
// Account. The sealed interface makes "exactly one profile kind or none"
// structural: an account creation carries a single Profile value, and its
// concrete type decides the role.
type Profile interface {
	Role() Role
}

// AdminProfile extends an account with platform-administration attributes.
type AdminProfile struct {
	AccountID  int64
	AdminLevel string
	Department string
}

func (AdminProfile) Role() Role { return RoleAdmin }

// FounderProfile extends an account with startup-founder attributes.
type FounderProfile struct {
	AccountID   int64
	CompanyName string
}

func (FounderProfile) Role() Role { return RoleFounder }

// EmployeeProfile extends an account with employment attributes and links it
// to a startup.
type EmployeeProfile struct {
	AccountID        int64
	StartupID        int64
	EmployeeRole     string
	PerformanceScore float64
	HireDate         time.Time
}

func (EmployeeProfile) Role() Role { return RoleEmployee }

// ProfileLinks reports which profile rows exist for an account. Well-formed
// data has at most one link set; the resolver still has to behave
// deterministically on malformed data.
type ProfileLinks struct {
	Admin    bool
	Founder  bool
	Employee bool
}

// EffectiveRole derives the account's role from the linkage. On malformed
// data with multiple links the most privileged role wins
// (Admin > StartupFounder > Employee > User) so the result never depends on
// query or iteration order.
func (l ProfileLinks) EffectiveRole() Role {
	switch {
	case l.Admin:
		return RoleAdmin
	case l.Founder:
		return RoleFounder
	case l.Employee:
		return RoleEmployee
	default:
		return RoleUser
	}
}
