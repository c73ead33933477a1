package model

type StudentModel struct {
	StudentID           uint    `gorm:"primaryKey;autoIncrement;column:student_id" json:"student_id"`
	StudentName         string  `gorm:"type:text;not null;uniqueIndex:student_unique_key,priority:1;column:name" json:"name"`
	StudentSurname      string  `gorm:"type:text;not null;uniqueIndex:student_unique_key,priority:2;column:surname" json:"surname"`
	StudentPhone        string  `gorm:"type:text;not null;uniqueIndex:student_unique_key,priority:3;column:phone" json:"phone"`
	StudentEmail        string  `gorm:"type:text;not null;uniqueIndex:email_unique_key;column:email" json:"email"`
	StudentAverageScore float64 `gorm:"not null;default:0;column:average_score" json:"average_score"`
	StudentScholarship  bool    `gorm:"not null;default:false;column:scholarship" json:"scholarship"`
}

func (StudentModel) TableName() string { return "students" }

// StudentWithReadCount pairs a student with the number of books they took.
type StudentWithReadCount struct {
	StudentModel `gorm:"embedded"`
	ReadBooks    int64 `gorm:"column:read_books" json:"read_books"`
}
