package model

type AuthorModel struct {
	AuthorID      uint   `gorm:"primaryKey;autoIncrement;column:author_id" json:"author_id"`
	AuthorName    string `gorm:"type:text;not null;column:name" json:"name"`
	AuthorSurname string `gorm:"type:text;not null;column:surname" json:"surname"`
}

func (AuthorModel) TableName() string { return "authors" }
