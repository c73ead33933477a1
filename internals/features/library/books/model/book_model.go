package model

import (
	authorModel "library_backend/internals/features/library/authors/model"

	"gorm.io/datatypes"
)

// BookModel is one catalog title. BookCount is the number of copies the library owns.
type BookModel struct {
	BookID          uint           `gorm:"primaryKey;autoIncrement;column:book_id" json:"book_id"`
	BookName        string         `gorm:"type:text;not null;column:name" json:"name"`
	BookCount       int            `gorm:"not null;default:1;check:chk_books_count_non_negative,count >= 0;column:count" json:"count"`
	BookReleaseDate datatypes.Date `gorm:"column:release_date" json:"release_date"`
	BookAuthorID    uint           `gorm:"not null;index:ix_books_author_id;column:author_id" json:"author_id"`

	Author *authorModel.AuthorModel `gorm:"foreignKey:BookAuthorID;references:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (BookModel) TableName() string { return "books" }

// BookWithCount is a book row plus an aggregate computed alongside it.
type BookWithCount struct {
	BookModel `gorm:"embedded"`
	RecCount  int64 `gorm:"column:rec_count" json:"rec_count"`
}
