package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/hrviet/daotao/internal/config"
	"github.com/hrviet/daotao/internal/db"
	"github.com/hrviet/daotao/internal/exam"
)

func main() {
	var (
		examID   = flag.String("exam", "", "filter attempts by exam id")
		examinee = flag.String("examinee", "", "filter attempts by examinee id")
		status   = flag.String("status", "", "filter attempts by status")
		limit    = flag.Int("limit", 50, "max rows")
	)
	flag.Parse()

	cfg := config.FromEnv()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	defer dbh.Close()
	store := exam.NewSQLStore(dbh, cfg.DBDriver)

	switch flag.Arg(0) {
	case "exams":
		listExams(ctx, store)
	case "attempts", "":
		listAttempts(ctx, store, exam.AttemptListOpts{
			ExamID:     *examID,
			ExamineeID: *examinee,
			Status:     exam.Status(*status),
			Limit:      *limit,
		})
	default:
		fmt.Fprintf(os.Stderr, "usage: daotao-cli [flags] exams|attempts\n")
		os.Exit(2)
	}
}

func listExams(ctx context.Context, store *exam.SQLStore) {
	exams, err := store.ListExams(ctx)
	if err != nil {
		log.Fatalf("list exams: %v", err)
	}

	color.Cyan("\nExam definitions")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Title", "Questions", "Minutes", "Status"})
	for _, e := range exams {
		table.Append([]string{
			e.ID,
			e.Title,
			strconv.Itoa(e.QuestionCount),
			strconv.Itoa(e.DurationMinutes),
			string(e.Status),
		})
	}
	table.Render()
}

func listAttempts(ctx context.Context, store *exam.SQLStore, opts exam.AttemptListOpts) {
	attempts, err := store.ListAttempts(ctx, opts)
	if err != nil {
		log.Fatalf("list attempts: %v", err)
	}

	color.Cyan("\nAttempts")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Exam", "Examinee", "Date", "Score", "Status"})
	for _, a := range attempts {
		table.Append([]string{
			a.ID,
			a.ExamID,
			a.ExamineeID,
			a.AttemptDate,
			fmt.Sprintf("%d/%d", a.CorrectCount, a.TotalCount),
			statusLabel(a.Status),
		})
	}
	table.Render()
}

func statusLabel(s exam.Status) string {
	switch s {
	case exam.StatusPassed:
		return color.GreenString(string(s))
	case exam.StatusFailed:
		return color.RedString(string(s))
	case exam.StatusInProgress:
		return color.YellowString(string(s))
	default:
		return string(s)
	}
}
