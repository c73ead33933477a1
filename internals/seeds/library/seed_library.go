package library

import (
	_ "embed"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	authorModel "library_backend/internals/features/library/authors/model"
	bookModel "library_backend/internals/features/library/books/model"
	receiptModel "library_backend/internals/features/library/receipts/model"
	studentModel "library_backend/internals/features/library/students/model"
)

//go:embed data_library.json
var catalogJSON []byte

type bookSeed struct {
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
}

type authorSeed struct {
	Name    string     `json:"name"`
	Surname string     `json:"surname"`
	Books   []bookSeed `json:"books"`
}

type catalogSeed struct {
	Authors  []authorSeed `json:"authors"`
	Students []string     `json:"students"`
	Receipts int          `json:"receipts"`
}

var emailDomains = []string{"mail", "inbox", "yandex", "bk"}

// SeedLibrary fills an empty store with the demo catalog, ten students and a
// handful of receipts issued in mid-2024. A store that already has authors is left alone.
func SeedLibrary(db *gorm.DB, rng *rand.Rand) error {
	var n int64
	if err := db.Model(&authorModel.AuthorModel{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		log.Println("[SEED] authors already present, skipping")
		return nil
	}

	var data catalogSeed
	if err := sonic.Unmarshal(catalogJSON, &data); err != nil {
		return fmt.Errorf("decode catalog: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var bookIDs []uint
		for _, a := range data.Authors {
			author := authorModel.AuthorModel{AuthorName: a.Name, AuthorSurname: a.Surname}
			if err := tx.Create(&author).Error; err != nil {
				return err
			}
			for _, b := range a.Books {
				released, err := time.Parse(time.DateOnly, b.ReleaseDate)
				if err != nil {
					return fmt.Errorf("book %q: %w", b.Title, err)
				}
				book := bookModel.BookModel{
					BookName:        b.Title,
					BookCount:       rng.IntN(10) + 1,
					BookReleaseDate: datatypes.Date(released),
					BookAuthorID:    author.AuthorID,
				}
				if err := tx.Create(&book).Error; err != nil {
					return err
				}
				bookIDs = append(bookIDs, book.BookID)
			}
		}

		var studentIDs []uint
		for i, full := range data.Students {
			name, surname, _ := strings.Cut(full, " ")
			st := studentModel.StudentModel{
				StudentName:         name,
				StudentSurname:      surname,
				StudentPhone:        randomPhone(rng),
				StudentEmail:        fmt.Sprintf("testemail%d@%s.ru", i+1, emailDomains[rng.IntN(len(emailDomains))]),
				StudentAverageScore: randomAverage(rng),
				StudentScholarship:  rng.IntN(2) == 1,
			}
			if err := tx.Create(&st).Error; err != nil {
				return err
			}
			studentIDs = append(studentIDs, st.StudentID)
		}

		issueFrom := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
		issueTo := time.Date(2024, 7, 10, 17, 0, 0, 0, time.UTC)
		returnFrom := time.Date(2024, 7, 11, 12, 0, 0, 0, time.UTC)
		returnTo := time.Now().UTC()

		open := map[[2]uint]bool{}
		for i := 0; i < data.Receipts; i++ {
			r := receiptModel.ReceivingBookModel{
				ReceiptBookID:    bookIDs[rng.IntN(len(bookIDs))],
				ReceiptStudentID: studentIDs[rng.IntN(len(studentIDs))],
				DateOfIssue:      randomTime(rng, issueFrom, issueTo),
			}
			key := [2]uint{r.ReceiptBookID, r.ReceiptStudentID}
			if rng.IntN(2) == 1 || open[key] {
				ret := randomTime(rng, returnFrom, returnTo)
				r.DateOfReturn = &ret
			} else {
				open[key] = true
			}
			if err := tx.Create(&r).Error; err != nil {
				return err
			}
		}

		log.Printf("[SEED] authors=%d books=%d students=%d receipts=%d",
			len(data.Authors), len(bookIDs), len(studentIDs), data.Receipts)
		return nil
	})
}

func randomPhone(rng *rand.Rand) string {
	var b strings.Builder
	b.WriteString("+79")
	for i := 0; i < 9; i++ {
		b.WriteByte(byte('0' + rng.IntN(10)))
	}
	return b.String()
}

// randomAverage is the mean of thirty 1..10 marks, rounded to two places.
func randomAverage(rng *rand.Rand) float64 {
	sum := 0
	for i := 0; i < 30; i++ {
		sum += rng.IntN(10) + 1
	}
	return float64(int(float64(sum)/30*100+0.5)) / 100
}

func randomTime(rng *rand.Rand, from, to time.Time) time.Time {
	span := to.Sub(from)
	if span <= 0 {
		return from
	}
	return from.Add(time.Duration(rng.Int64N(int64(span/time.Second))) * time.Second)
}
