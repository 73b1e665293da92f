package models

import "fmt"

// Profile holds optional personal details; user_id is unique so each user has one at most.
type Profile struct {
	ID        uint    `gorm:"primaryKey"`
	FirstName *string `gorm:"size:40"`
	LastName  *string `gorm:"size:40"`
	Bio       *string
	UserID    uint  `gorm:"uniqueIndex;not null"`
	User      *User `gorm:"foreignKey:UserID"`
}

func (p Profile) String() string {
	return fmt.Sprintf("Profile(id=%d, user_id=%d)", p.ID, p.UserID)
}
