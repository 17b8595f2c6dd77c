package model

import "time"

// Person maps to the 'persons' table. Persons are address-book entries a
// task can be delegated to, owned by a single user.
type Person struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"userId"`
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	Email       string    `gorm:"type:varchar(255)" json:"email"`
	PhoneNumber string    `gorm:"type:varchar(50)" json:"phoneNumber"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName sets the database table for this model.
func (Person) TableName() string {
	return "persons"
}
