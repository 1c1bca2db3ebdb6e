package models

// Department is the organizational unit an employee belongs to
type Department string

const (
	DeptEngineering Department = "Engineering"
	DeptSales       Department = "Sales"
	DeptMarketing   Department = "Marketing"
	DeptHR          Department = "HR"
	DeptOperations  Department = "Operations"
)

// Departments lists every known department in generation order
func Departments() []Department {
	return []Department{DeptEngineering, DeptSales, DeptMarketing, DeptHR, DeptOperations}
}

// Role is an employee seniority level
type Role string

const (
	RoleJunior Role = "Junior"
	RoleMid    Role = "Mid"
	RoleSenior Role = "Senior"
	RoleLead   Role = "Lead"
)

// Roles lists every known role in generation order
func Roles() []Role {
	return []Role{RoleJunior, RoleMid, RoleSenior, RoleLead}
}

// EmployeeProfile holds the static attributes of one employee.
// Profiles are immutable after generation.
type EmployeeProfile struct {
	ID          string     `json:"employee_id"`
	Name        string     `json:"name"`
	Department  Department `json:"department"`
	Role        Role       `json:"role"`
	TenureYears float64    `json:"tenure_years"`
	SkillLevel  float64    `json:"skill_level"`
}
