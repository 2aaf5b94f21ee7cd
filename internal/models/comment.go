package models

type Comment struct {
	BaseModel

	Content string `gorm:"type:text;not null"`
	UserID  uint   `gorm:"not null;index"`
	PostID  uint   `gorm:"not null;index"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Post Post `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Comment) TableName() string {
	return "comment"
}
