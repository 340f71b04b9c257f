package domain

// Department is one of the fixed organizational units that can own a ticket.
type Department string

const (
	DepartmentRoboticsSoftware    Department = "Robotics Software"
	DepartmentRoboticsElectronics Department = "Robotics Electronics"
	DepartmentApplicationTeam     Department = "Application Team"
	DepartmentProduction          Department = "Production"
	DepartmentMechanical          Department = "Mechanical"
	DepartmentPurchase            Department = "Purchase"
	DepartmentSales               Department = "Sales / Customer Success"
	DepartmentProject             Department = "Project"
)

// departments holds the closed set in display order.
var departments = []Department{
	DepartmentRoboticsSoftware,
	DepartmentRoboticsElectronics,
	DepartmentApplicationTeam,
	DepartmentProduction,
	DepartmentMechanical,
	DepartmentPurchase,
	DepartmentSales,
	DepartmentProject,
}

// Departments returns the department list in display order.
func Departments() []Department {
	out := make([]Department, len(departments))
	copy(out, departments)
	return out
}

// IsValidDepartment reports whether name belongs to the closed department set.
func IsValidDepartment(name Department) bool {
	for _, d := range departments {
		if d == name {
			return true
		}
	}
	return false
}
