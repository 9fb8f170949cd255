package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"schoolms_backend/internals/features/library/book_issues/model"
	helper "schoolms_backend/internals/helpers"
	"schoolms_backend/internals/services/mail"
)

type ReminderResult struct {
	Overdue int `json:"overdue"`
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// SendOverdueReminders mails every borrower holding a book past its due
// date. Borrowers without an email are skipped; a failed send does not
// stop the run.
func SendOverdueReminders(ctx context.Context, db *gorm.DB, mailer mail.Mailer, today time.Time, perDay int64, schoolName string) (ReminderResult, error) {
	var res ReminderResult
	issues, err := Overdue(db, today)
	if err != nil {
		return res, err
	}
	res.Overdue = len(issues)
	if len(issues) == 0 {
		return res, nil
	}
	borrowers, err := ResolveBorrowers(db, issues)
	if err != nil {
		return res, err
	}

	log := logrus.WithField("component", "overdue-reminder")
	for _, is := range issues {
		b, ok := borrowers[model.BorrowerKey{Kind: is.BookIssueBorrowerType, ID: is.BookIssueBorrowerID}]
		if !ok || strings.TrimSpace(b.Email()) == "" {
			res.Skipped++
			continue
		}
		if err := mailer.Send(ctx, reminderMessage(is, b, today, perDay, schoolName)); err != nil {
			res.Failed++
			log.WithError(err).WithField("book_issue_id", is.BookIssueID).Warn("reminder not sent")
			continue
		}
		res.Sent++
	}
	return res, nil
}

func reminderMessage(is model.BookIssueModel, b model.Borrower, today time.Time, perDay int64, schoolName string) mail.Message {
	title := "a library book"
	if is.Book != nil {
		title = fmt.Sprintf("%q", is.Book.BookTitle)
	}
	days := is.DaysOverdue(today)
	text := fmt.Sprintf(
		"Dear %s,\n\nYou borrowed %s on %s. It was due on %s and is now %d day(s) overdue.\n"+
			"The fine so far is %d. Please return it to the library as soon as possible.\n\n%s",
		b.Name(), title, helper.FormatDate(is.BookIssueIssueDate), helper.FormatDate(is.BookIssueDueDate),
		days, is.FineEstimate(today, perDay), schoolName,
	)
	return mail.Message{
		To:      []mail.Address{{Name: b.Name(), Email: b.Email()}},
		Subject: "Overdue library book",
		Text:    text,
	}
}
