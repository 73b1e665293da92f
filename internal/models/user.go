package models

import "fmt"

// User is a row of the users table. It owns at most one Profile and any number of Posts.
type User struct {
	ID       uint     `gorm:"primaryKey"`
	Username string   `gorm:"size:32;uniqueIndex;not null"`
	Profile  *Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Posts    []Post   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (u User) String() string {
	return fmt.Sprintf("User(id=%d, username=%q)", u.ID, u.Username)
}
