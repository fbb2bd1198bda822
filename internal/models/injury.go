package models

import "time"

type Injury struct {
	PlayerID  int       `gorm:"primaryKey;autoIncrement:false" json:"player_id"`
	Date      string    `gorm:"primaryKey;size:32" json:"date"`
	Status    string    `gorm:"size:32;index" json:"status"`
	Comment   string    `gorm:"type:text" json:"comment"`
	UpdatedAt time.Time `json:"updated_at"`

	Player Player `gorm:"foreignKey:PlayerID" json:"-"`
}

func (Injury) TableName() string {
	return "injuries"
}
