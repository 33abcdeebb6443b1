// Command studentctl is the terminal client for the student-performance API.
// Each subcommand corresponds to one screen of the original web UI: signup,
// login, the dashboard table, add-student, add-marks, and view-marks search.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"gradebook/internal/client"
	"gradebook/internal/config"
	"gradebook/internal/model"
	"gradebook/internal/session"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const usage = `usage: studentctl <command> [flags]

commands:
  signup   register a new user
  login    log in and store the session token
  logout   drop the stored session token
  list     show the dashboard table (use --filter to search)
  add      add a student
  update   update a student's fields
  marks    record or update marks for a student
  delete   delete a student
`

func main() {
	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	statePath := cfg.StateFile
	if statePath == "" {
		statePath, err = session.DefaultPath()
		if err != nil {
			logger.Fatal().Err(err).Msg("resolve state file")
		}
	}
	store, err := session.Open(statePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("open session store")
	}

	api := client.New(cfg.APIBaseURL)
	api.SetToken(store.Token())

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	app := &app{logger: logger, store: store, api: api}
	ctx := context.Background()

	// Same reachability check the old dashboard ran on page load: log only,
	// each command still reports its own errors.
	switch os.Args[1] {
	case "signup", "login", "list", "add", "update", "marks", "delete":
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := api.Ping(pingCtx); err != nil {
			logger.Warn().Str("url", cfg.APIBaseURL).Msg("backend not reachable")
		}
		cancel()
	}

	switch os.Args[1] {
	case "signup":
		err = app.signup(ctx, os.Args[2:])
	case "login":
		err = app.login(ctx, os.Args[2:])
	case "logout":
		err = app.logout()
	case "list":
		err = app.list(ctx, os.Args[2:])
	case "add":
		err = app.add(ctx, os.Args[2:])
	case "update":
		err = app.update(ctx, os.Args[2:])
	case "marks":
		err = app.marks(ctx, os.Args[2:])
	case "delete":
		err = app.delete(ctx, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, badStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

type app struct {
	logger zerolog.Logger
	store  *session.Store
	api    *client.Client
}

func (a *app) requireLogin() error {
	if !a.store.LoggedIn() {
		return fmt.Errorf("not logged in; run `studentctl login` first")
	}
	return nil
}

func (a *app) signup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if err := a.api.Signup(ctx, *name, *email, *password); err != nil {
		return err
	}
	fmt.Println(goodStyle.Render("Signup success. You can now log in."))
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	token, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := a.store.SetToken(token); err != nil {
		return err
	}
	fmt.Println(goodStyle.Render("Logged in."))
	return nil
}

func (a *app) logout() error {
	if err := a.store.Clear(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	filter := fs.String("filter", "", "substring search over name, roll, and grade")
	fs.Parse(args)

	if err := a.requireLogin(); err != nil {
		return err
	}

	students, err := a.api.List(ctx)
	if err != nil {
		return err
	}

	if *filter != "" {
		students = filterStudents(students, *filter)
	}
	if len(students) == 0 {
		if *filter != "" {
			fmt.Println("No students found matching your search.")
		} else {
			fmt.Println("No students found.")
		}
		return nil
	}

	renderTable(students)
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "student name")
	roll := fs.String("roll", "", "roll number")
	grade := fs.String("grade", "", "class/grade label")
	email := fs.String("email", "", "email address (optional)")
	fs.Parse(args)

	if err := a.requireLogin(); err != nil {
		return err
	}

	student, err := a.api.CreateStudent(ctx, *name, *roll, *grade, *email)
	if err != nil {
		return err
	}
	fmt.Println(goodStyle.Render(fmt.Sprintf("Added %s (roll %s, id %s)", student.Name, student.Roll, student.ID)))
	return nil
}

func (a *app) update(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	name := fs.String("name", "", "student name")
	roll := fs.String("roll", "", "roll number")
	grade := fs.String("grade", "", "class/grade label")
	email := fs.String("email", "", "email address")
	remarks := fs.String("remarks", "", "free-text remarks")

	id, err := parseIDArgs(fs, args, "usage: studentctl update <id> [flags]")
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	// Only flags the user actually set are sent, so untouched fields stay as
	// they are on the server.
	var upd client.StudentUpdate
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			upd.Name = name
		case "roll":
			upd.Roll = roll
		case "grade":
			upd.Grade = grade
		case "email":
			upd.Email = email
		case "remarks":
			upd.Remarks = remarks
		}
	})

	student, err := a.api.UpdateStudent(ctx, id, upd)
	if err != nil {
		return err
	}
	fmt.Println(goodStyle.Render(fmt.Sprintf("Updated %s (roll %s)", student.Name, student.Roll)))
	return nil
}

func (a *app) marks(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("marks", flag.ExitOnError)
	math := fs.Float64("math", 0, "math score (0-100)")
	science := fs.Float64("science", 0, "science score (0-100)")
	english := fs.Float64("english", 0, "english score (0-100)")
	remarks := fs.String("remarks", "", "free-text remarks")

	id, err := parseIDArgs(fs, args, "usage: studentctl marks <id> [flags]")
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	// An explicit --math 0 records a zero; an omitted flag leaves the score
	// untouched.
	var m client.Marks
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "math":
			m.Math = math
		case "science":
			m.Science = science
		case "english":
			m.English = english
		case "remarks":
			m.Remarks = remarks
		}
	})

	student, err := a.api.UpdateMarks(ctx, id, m)
	if err != nil {
		return err
	}
	fmt.Println(goodStyle.Render(fmt.Sprintf("Marks saved for %s: total %.0f, average %.2f, grade %s",
		student.Name, student.TotalMarks(), student.AverageMarks(), student.LetterGrade())))
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	yes := fs.Bool("yes", false, "skip the confirmation prompt")

	id, err := parseIDArgs(fs, args, "usage: studentctl delete <id> [--yes]")
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	if !*yes {
		fmt.Printf("Delete student %s? This action cannot be undone. [y/N] ", id)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if answer := strings.ToLower(strings.TrimSpace(answer)); answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := a.api.DeleteStudent(ctx, id); err != nil {
		return err
	}
	fmt.Println("Deleted.")
	return nil
}

// parseIDArgs takes the student id that leads the argument list, then parses
// the remainder as flags. The stdlib flag package stops at the first
// positional argument, so the id has to come before any flags.
func parseIDArgs(fs *flag.FlagSet, args []string, usageLine string) (string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", errors.New(usageLine)
	}
	if err := fs.Parse(args[1:]); err != nil {
		return "", err
	}
	if fs.NArg() != 0 {
		return "", errors.New(usageLine)
	}
	return args[0], nil
}

func filterStudents(students []model.Student, filter string) []model.Student {
	needle := strings.ToLower(filter)
	var out []model.Student
	for _, s := range students {
		if strings.Contains(strings.ToLower(s.Name), needle) ||
			strings.Contains(strings.ToLower(s.Roll), needle) ||
			strings.Contains(strings.ToLower(s.Grade), needle) {
			out = append(out, s)
		}
	}
	return out
}

func renderTable(students []model.Student) {
	cols := []string{"NAME", "ROLL", "CLASS", "MATH", "SCI", "ENG", "TOTAL", "AVG", "GRADE", "ID"}
	fmt.Println(headerStyle.Render(fmt.Sprintf("%-20s %-8s %-8s %5s %5s %5s %7s %7s %-5s %s",
		cols[0], cols[1], cols[2], cols[3], cols[4], cols[5], cols[6], cols[7], cols[8], cols[9])))

	for _, s := range students {
		letter := s.LetterGrade()
		row := fmt.Sprintf("%-20s %-8s %-8s %5s %5s %5s %7s %7s %-5s %s",
			clip(s.Name, 20), s.Roll, s.Grade,
			score(s.Scores.Math), score(s.Scores.Science), score(s.Scores.English),
			total(&s), average(&s), gradeStyle(letter).Render(letter), s.ID)
		fmt.Println(row)
	}
}

func gradeStyle(letter string) lipgloss.Style {
	switch letter {
	case "A+", "A":
		return goodStyle
	case "B", "C":
		return warnStyle
	case "D", "F":
		return badStyle
	default:
		return lipgloss.NewStyle()
	}
}

func score(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f", *v)
}

func total(s *model.Student) string {
	if !s.HasMarks() {
		return "-"
	}
	return fmt.Sprintf("%.0f", s.TotalMarks())
}

func average(s *model.Student) string {
	if !s.HasMarks() {
		return "-"
	}
	return fmt.Sprintf("%.2f", s.AverageMarks())
}

// clip shortens s to n characters, counting runes so multi-byte names are
// never cut mid-character.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
