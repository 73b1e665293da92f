package models

import "fmt"

type Post struct {
	ID     uint   `gorm:"primaryKey"`
	Title  string `gorm:"size:100;not null"`
	Body   string `gorm:"type:text;not null;default:''"`
	UserID uint   `gorm:"index;not null"`
	User   *User  `gorm:"foreignKey:UserID"`
}

func (p Post) String() string {
	return fmt.Sprintf("Post(id=%d, title=%q, user_id=%d)", p.ID, p.Title, p.UserID)
}
