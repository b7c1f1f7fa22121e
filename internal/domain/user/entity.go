package user

type Role string

const (
	RoleOwner   Role = "owner"   // Signs off approvals and payouts
	RoleManager Role = "manager" // Generates, edits and verifies payroll
	RoleViewer  Role = "viewer"
)

// SystemActor stamps records produced by scheduled jobs.
const SystemActor = "system"

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleViewer:
		return true
	}
	return false
}
