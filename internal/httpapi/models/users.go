package models

// Roles understood by the permission policies.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID        int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email     string `json:"email" gorm:"uniqueIndex;size:254;not null"`
	FirstName string `json:"first_name" gorm:"size:150"`
	LastName  string `json:"last_name" gorm:"size:150"`
	Bio       string `json:"bio" gorm:"type:text"`
	Role      string `json:"role" gorm:"size:15;default:'user';not null"`

	// One-time credential exchanged for a bearer token. Regenerated on every
	// signup call, never exposed in JSON.
	ConfirmationCode string `json:"-" gorm:"size:50"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}
