package models

// User is the identity record: credentials only. Everything another user is
// allowed to see lives on the Profile row.
type User struct {
	BaseModel
	Username     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	Email        string `gorm:"type:varchar(100);uniqueIndex" json:"email,omitempty"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// Profile holds the public-facing data for a user. It is created together
// with the identity row at signup and keyed by the same ID.
type Profile struct {
	BaseModel
	FullName string `gorm:"type:varchar(100);not null" json:"fullName"`
	Email    string `gorm:"type:varchar(100)" json:"email,omitempty"`
}

// TableName specifies the table name for the Profile model.
func (Profile) TableName() string {
	return "profiles"
}
