package models

type Post struct {
	BaseModel

	Title   string `gorm:"size:255;not null"`
	Content string `gorm:"type:text;not null"`
	UserID  uint   `gorm:"not null;index"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Post) TableName() string {
	return "post"
}
