package models

type User struct {
	BaseModel

	Username string `gorm:"size:255;not null;uniqueIndex"`
	Email    string `gorm:"size:255;not null;uniqueIndex"`
	Password string `gorm:"not null" json:"-"` // bcrypt hash
}

func (User) TableName() string {
	return "user"
}
