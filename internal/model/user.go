package model

// Role of a user account. Credentials and registration live in the external
// auth service; this profile only carries what scheduling views need.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// users
type User struct {
	Base

	Username  string `gorm:"type:varchar(50);not null;uniqueIndex" json:"username"`
	FirstName string `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName  string `gorm:"type:varchar(50)" json:"last_name"`
	Email     string `gorm:"type:varchar(50);not null;uniqueIndex" json:"email"`
	Phone     string `gorm:"type:varchar(10);not null;uniqueIndex" json:"phone"`
	Role      Role   `gorm:"type:varchar(32);not null" json:"role"`

	// Navigation fields (handy for Preload).
	Doctor  *Doctor  `gorm:"foreignKey:UserID" json:"-"`
	Patient *Patient `gorm:"foreignKey:UserID" json:"-"`
}
