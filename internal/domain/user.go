package domain

// User is the single demo account. The password is stored as plain text,
// the schema carries no authentication.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id" yaml:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username" yaml:"username"`
	Password string `gorm:"not null" json:"-" yaml:"password"`
}

func (User) TableName() string {
	return "users"
}
