package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	receiptModel "library_backend/internals/features/library/receipts/model"
	"library_backend/internals/helpers/apperr"
	"library_backend/internals/testutil"
)

func newService(t *testing.T, opts Options) (*ReceiptsService, *testutil.Library, func() []receiptModel.ReceivingBookModel) {
	t.Helper()
	db := testutil.NewDB(t)
	lib := testutil.SeedLibrary(t, db)
	if opts.Now == nil {
		opts.Now = testutil.Clock
	}
	all := func() []receiptModel.ReceivingBookModel {
		var rows []receiptModel.ReceivingBookModel
		require.NoError(t, db.Order("receipt_id").Find(&rows).Error)
		return rows
	}
	return NewReceiptsService(db, opts), lib, all
}

func Test_IssueAndReturn(t *testing.T) {
	ctx := context.Background()
	svc, lib, all := newService(t, Options{})
	book, student := lib.WarAndPeace.BookID, lib.Alice.StudentID

	r, err := svc.IssueBook(ctx, book, student)
	require.NoError(t, err)
	assert.True(t, r.IsOutstanding())
	assert.True(t, r.DateOfIssue.Equal(testutil.Now))

	_, err = svc.IssueBook(ctx, book, student)
	assert.True(t, apperr.IsConflict(err))
	assert.EqualError(t, err, "A student with id 1 has already taken a book with id 1")

	returned, err := svc.ReturnBook(ctx, book, student)
	require.NoError(t, err)
	require.NotNil(t, returned.DateOfReturn)
	assert.True(t, returned.DateOfReturn.Equal(testutil.Now))

	_, err = svc.ReturnBook(ctx, book, student)
	assert.True(t, apperr.IsNotFound(err))
	assert.EqualError(t, err, "Student 1 did not take book 1")

	_, err = svc.IssueBook(ctx, book, student)
	require.NoError(t, err)

	rows := all()
	require.Len(t, rows, 2)
	assert.False(t, rows[0].IsOutstanding())
	assert.True(t, rows[1].IsOutstanding())
}

func Test_IssueBook_UnknownParties(t *testing.T) {
	ctx := context.Background()
	svc, lib, all := newService(t, Options{})

	_, err := svc.IssueBook(ctx, 9999, lib.Alice.StudentID)
	assert.True(t, apperr.IsNotFound(err))
	assert.False(t, IsStudentMissing(err))

	_, err = svc.IssueBook(ctx, lib.WarAndPeace.BookID, 9999)
	assert.True(t, apperr.IsNotFound(err))
	assert.True(t, IsStudentMissing(err))

	assert.Empty(t, all())
}

func Test_ReturnBook_OnlyClosesMatchingReceipt(t *testing.T) {
	ctx := context.Background()
	svc, lib, all := newService(t, Options{})

	_, err := svc.IssueBook(ctx, lib.WarAndPeace.BookID, lib.Alice.StudentID)
	require.NoError(t, err)
	_, err = svc.IssueBook(ctx, lib.WarAndPeace.BookID, lib.Bob.StudentID)
	require.NoError(t, err)
	_, err = svc.IssueBook(ctx, lib.Chameleon.BookID, lib.Alice.StudentID)
	require.NoError(t, err)

	_, err = svc.ReturnBook(ctx, lib.WarAndPeace.BookID, lib.Alice.StudentID)
	require.NoError(t, err)

	rows := all()
	require.Len(t, rows, 3)
	assert.False(t, rows[0].IsOutstanding())
	assert.True(t, rows[1].IsOutstanding())
	assert.True(t, rows[2].IsOutstanding())
}

func seedDebtors(t *testing.T, svc *ReceiptsService, lib *testutil.Library) {
	t.Helper()
	db := svc.db
	// held 30 days, still out
	testutil.Receipt(t, db, lib.WarAndPeace.BookID, lib.Alice.StudentID, testutil.DaysAgo(30), nil)
	// held 19 days, returned yesterday
	testutil.Receipt(t, db, lib.Chameleon.BookID, lib.Bob.StudentID, testutil.DaysAgo(20), testutil.Ptr(testutil.DaysAgo(1)))
	// held 5 days, still out
	testutil.Receipt(t, db, lib.Boys.BookID, lib.Carol.StudentID, testutil.DaysAgo(5), nil)
	// held 5 days long ago
	testutil.Receipt(t, db, lib.AnnaKarenina.BookID, lib.Alice.StudentID, testutil.DaysAgo(40), testutil.Ptr(testutil.DaysAgo(35)))
}

func Test_Debtors(t *testing.T) {
	ctx := context.Background()

	t.Run("returned late receipts are listed by default", func(t *testing.T) {
		svc, lib, _ := newService(t, Options{})
		seedDebtors(t, svc, lib)

		rows, err := svc.Debtors(ctx)

		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, lib.WarAndPeace.BookID, rows[0].ReceiptBookID)
		assert.Equal(t, 30, rows[0].DaysHeld(svc.Now()))
		assert.Equal(t, lib.Chameleon.BookID, rows[1].ReceiptBookID)
		assert.Equal(t, 19, rows[1].DaysHeld(svc.Now()))
	})

	t.Run("outstanding only", func(t *testing.T) {
		svc, lib, _ := newService(t, Options{DebtorsOutstandingOnly: true})
		seedDebtors(t, svc, lib)

		rows, err := svc.Debtors(ctx)

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, lib.Alice.StudentID, rows[0].ReceiptStudentID)
	})

	t.Run("threshold is configurable", func(t *testing.T) {
		svc, lib, _ := newService(t, Options{DebtorsDays: 3})
		seedDebtors(t, svc, lib)

		rows, err := svc.Debtors(ctx)

		require.NoError(t, err)
		assert.Len(t, rows, 4)
		assert.Equal(t, 3, svc.DebtorsDays())
	})

	t.Run("none", func(t *testing.T) {
		svc, _, _ := newService(t, Options{})

		rows, err := svc.Debtors(ctx)

		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func Test_AverageLoansPerStudent(t *testing.T) {
	ctx := context.Background()
	svc, lib, _ := newService(t, Options{})
	db := svc.db

	july := func(day int) time.Time { return time.Date(2024, time.July, day, 10, 0, 0, 0, time.UTC) }
	testutil.Receipt(t, db, lib.WarAndPeace.BookID, lib.Alice.StudentID, july(1), testutil.Ptr(july(3)))
	testutil.Receipt(t, db, lib.Chameleon.BookID, lib.Alice.StudentID, july(10), nil)
	testutil.Receipt(t, db, lib.Boys.BookID, lib.Bob.StudentID, july(15), nil)
	testutil.Receipt(t, db, lib.Boys.BookID, lib.Carol.StudentID, time.Date(2024, time.June, 25, 10, 0, 0, 0, time.UTC), nil)

	avg, ok, err := svc.AverageLoansPerStudent(ctx, svc.Now())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 1.5, avg, 1e-9)

	avg, ok, err = svc.AverageLoansPerStudent(ctx, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 1.0, avg, 1e-9)

	_, ok, err = svc.AverageLoansPerStudent(ctx, time.Date(2024, time.August, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_AverageLoansPerStudent_UsesConfiguredLocation(t *testing.T) {
	ctx := context.Background()
	msk := time.FixedZone("MSK", 3*60*60)
	svc, lib, _ := newService(t, Options{Location: msk})

	// 22:00 UTC on July 31 is already August 1 in MSK.
	testutil.Receipt(t, svc.db, lib.Boys.BookID, lib.Bob.StudentID, time.Date(2024, time.July, 31, 22, 0, 0, 0, time.UTC), nil)

	_, ok, err := svc.AverageLoansPerStudent(ctx, time.Date(2024, time.July, 15, 0, 0, 0, 0, msk))
	require.NoError(t, err)
	assert.False(t, ok)

	avg, ok, err := svc.AverageLoansPerStudent(ctx, time.Date(2024, time.August, 15, 0, 0, 0, 0, msk))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 1.0, avg, 1e-9)
}

func Test_MostReadingStudents(t *testing.T) {
	ctx := context.Background()
	svc, lib, _ := newService(t, Options{})
	db := svc.db

	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 9, 0, 0, 0, time.UTC) }

	// Bob: three loans, one returned
	testutil.Receipt(t, db, lib.WarAndPeace.BookID, lib.Bob.StudentID, day(time.February, 1), testutil.Ptr(day(time.February, 9)))
	testutil.Receipt(t, db, lib.Boys.BookID, lib.Bob.StudentID, day(time.March, 1), nil)
	testutil.Receipt(t, db, lib.PrideAndPrejudice.BookID, lib.Bob.StudentID, day(time.April, 1), nil)
	// Alice: three loans, two returned
	testutil.Receipt(t, db, lib.WarAndPeace.BookID, lib.Alice.StudentID, day(time.January, 5), testutil.Ptr(day(time.January, 20)))
	testutil.Receipt(t, db, lib.AnnaKarenina.BookID, lib.Alice.StudentID, day(time.May, 5), testutil.Ptr(day(time.May, 20)))
	testutil.Receipt(t, db, lib.Chameleon.BookID, lib.Alice.StudentID, day(time.June, 5), nil)
	// Carol: one loan this year, two last year
	testutil.Receipt(t, db, lib.Boys.BookID, lib.Carol.StudentID, day(time.July, 1), nil)
	for _, m := range []time.Month{time.March, time.October} {
		issued := time.Date(2023, m, 1, 9, 0, 0, 0, time.UTC)
		testutil.Receipt(t, db, lib.WarAndPeace.BookID, lib.Carol.StudentID, issued, testutil.Ptr(issued.AddDate(0, 0, 7)))
	}

	rows, err := svc.MostReadingStudents(ctx, svc.Now())

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, lib.Alice.StudentID, rows[0].StudentID, "more returns wins the tie")
	assert.Equal(t, int64(3), rows[0].ReadBooks)
	assert.Equal(t, "alice@example.com", rows[0].StudentEmail)
	assert.Equal(t, lib.Bob.StudentID, rows[1].StudentID)
	assert.Equal(t, int64(3), rows[1].ReadBooks)
	assert.Equal(t, lib.Carol.StudentID, rows[2].StudentID)
	assert.Equal(t, int64(1), rows[2].ReadBooks)

	rows, err = svc.MostReadingStudents(ctx, time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func Test_Now_IsInConfiguredLocation(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	svc := NewReceiptsService(nil, Options{Location: msk, Now: testutil.Clock})

	now := svc.Now()

	assert.Equal(t, msk, now.Location())
	assert.Equal(t, 15, now.Hour())
	assert.Equal(t, DefaultDebtorsDays, svc.DebtorsDays())
}

func Test_ReturnBook_AmbiguousReceipts(t *testing.T) {
	ctx := context.Background()
	svc, lib, all := newService(t, Options{})

	// legacy data written before the outstanding index existed
	require.NoError(t, svc.db.Exec("DROP INDEX ux_receiving_books_outstanding").Error)
	testutil.Receipt(t, svc.db, lib.Boys.BookID, lib.Bob.StudentID, testutil.DaysAgo(6), nil)
	testutil.Receipt(t, svc.db, lib.Boys.BookID, lib.Bob.StudentID, testutil.DaysAgo(3), nil)

	_, err := svc.ReturnBook(ctx, lib.Boys.BookID, lib.Bob.StudentID)

	assert.True(t, apperr.IsConflict(err))
	assert.EqualError(t, err, "Found more than one entry with input (book=5, student=2)")
	for _, r := range all() {
		assert.True(t, r.IsOutstanding(), "nothing is closed when the target is ambiguous")
	}
}
