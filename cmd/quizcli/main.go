package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/excellent-grade/gradetest-api/pkg/client"
	"github.com/excellent-grade/gradetest-api/pkg/client/session"
)

func main() {
	baseURL := flag.String("api", "http://localhost:8080", "base URL of the grade test API")
	storePath := flag.String("credentials", "", "path of the credentials file (defaults to the user config dir)")
	flag.Parse()

	path := *storePath
	if path == "" {
		var err error
		path, err = client.DefaultStorePath()
		if err != nil {
			log.Fatalf("cannot resolve credentials path: %v", err)
		}
	}

	api := client.New(*baseURL)
	auth := client.NewAuth(api, client.NewFileStore(path))
	catalog := client.NewCatalog(api)

	if err := auth.Hydrate(); err != nil {
		log.Printf("could not restore session: %v", err)
	}

	// Ctrl-C cancels the in-flight request instead of killing the process
	// mid-quiz.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli{
		api:     api,
		auth:    auth,
		catalog: catalog,
		in:      bufio.NewScanner(os.Stdin),
	}
	app.run(ctx)
}

type cli struct {
	api     *client.Client
	auth    *client.Auth
	catalog *client.Catalog
	in      *bufio.Scanner
}

func (c *cli) run(ctx context.Context) {
	fmt.Println("Grade Test")
	for {
		if ctx.Err() != nil {
			return
		}
		if user := c.auth.CurrentUser(); user != nil {
			fmt.Printf("\nSigned in as %s %s\n", user.Name, user.Surname)
			fmt.Println("1) take a quiz  2) my results  3) logout  q) quit")
		} else {
			fmt.Println("\n1) login  2) register  q) quit")
		}

		switch c.prompt("> ") {
		case "1":
			if c.auth.IsAuthenticated() {
				c.takeQuiz(ctx)
			} else {
				c.login(ctx)
			}
		case "2":
			if c.auth.IsAuthenticated() {
				c.showResults(ctx)
			} else {
				c.register(ctx)
			}
		case "3":
			if c.auth.IsAuthenticated() {
				if err := c.auth.Logout(); err != nil {
					fmt.Printf("logout failed: %v\n", err)
				}
			}
		case "q", "":
			return
		}
	}
}

func (c *cli) prompt(label string) string {
	fmt.Print(label)
	if !c.in.Scan() {
		return ""
	}
	return strings.TrimSpace(c.in.Text())
}

func (c *cli) promptUint(label string) uint {
	raw := c.prompt(label)
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(parsed)
}

func (c *cli) login(ctx context.Context) {
	phone := c.prompt("phone: ")
	user, err := c.auth.Login(ctx, phone)
	if err != nil {
		fmt.Printf("login failed: %v\n", err)
		return
	}
	fmt.Printf("welcome back, %s!\n", user.Name)
}

func (c *cli) register(ctx context.Context) {
	input := client.RegisterInput{
		Name:    c.prompt("name: "),
		Surname: c.prompt("surname: "),
		Phone:   c.prompt("phone: "),
	}
	user, err := c.auth.Register(ctx, input)
	if err != nil {
		fmt.Printf("registration failed: %v\n", err)
		return
	}
	fmt.Printf("welcome, %s!\n", user.Name)
}

func (c *cli) takeQuiz(ctx context.Context) {
	subjects, err := c.catalog.LoadSubjects(ctx, "")
	if err != nil {
		fmt.Printf("could not load subjects: %v\n", err)
		return
	}
	if len(subjects) == 0 {
		fmt.Println("no subjects available")
		return
	}

	fmt.Println("\nSubjects:")
	for _, s := range subjects {
		fmt.Printf("  %d) %s\n", s.ID, s.Title)
	}
	subjectID := c.promptUint("subject id: ")

	grades, err := c.catalog.LoadGrades(ctx, subjectID)
	if err != nil {
		fmt.Printf("could not load grades: %v\n", err)
		return
	}
	if len(grades) == 0 {
		fmt.Println("no grades in that subject")
		return
	}

	fmt.Println("\nGrades:")
	for _, g := range grades {
		if !g.IsActive {
			continue
		}
		fmt.Printf("  %d) %s (%d questions, %d min)\n", g.ID, g.Title, g.QuestionCount, g.TimeMinutes)
	}
	gradeID := c.promptUint("grade id: ")

	sess := session.New(c.api)
	if err := sess.Start(ctx, subjectID, gradeID); err != nil {
		fmt.Printf("could not start the quiz: %v\n", err)
		return
	}

	questions := sess.Questions()
	for {
		q := sess.Current()
		if q == nil {
			return
		}

		fmt.Printf("\n[%d/%d] %s\n", sess.Index()+1, len(questions), q.Text)
		for i, o := range q.Options {
			fmt.Printf("  %d) %s\n", i+1, o.Variant)
		}

		cmd := c.prompt("answer number (p=prev, s=submit): ")
		switch cmd {
		case "p":
			sess.Prev()
			continue
		case "s":
			if !sess.CanSubmit() {
				fmt.Println("answer every question first")
				continue
			}
			result, err := sess.Submit(ctx)
			if err != nil {
				fmt.Printf("submit failed, you can retry: %v\n", err)
				continue
			}
			fmt.Printf("\nDone! Score: %d/%d in %ds\n", result.Score, len(questions), result.TimeSec)
			return
		default:
			choice, err := strconv.Atoi(cmd)
			if err != nil || choice < 1 || choice > len(q.Options) {
				fmt.Println("pick one of the listed numbers")
				continue
			}
			if err := sess.Answer(q.ID, q.Options[choice-1].ID); err != nil {
				fmt.Printf("could not record the answer: %v\n", err)
				continue
			}
			if sess.Index() == len(questions)-1 && sess.CanSubmit() {
				fmt.Println("all questions answered; use 's' to submit")
			}
			sess.Next()
		}
	}
}

func (c *cli) showResults(ctx context.Context) {
	results, err := c.api.ListResults(ctx, 0, 20, 0)
	if err != nil {
		fmt.Printf("could not load results: %v\n", err)
		return
	}
	if len(results) == 0 {
		fmt.Println("no results yet")
		return
	}

	fmt.Println("\nYour results:")
	for _, r := range results {
		title := fmt.Sprintf("grade %d", r.GradeID)
		if r.Grade != nil {
			title = r.Grade.Title
			if r.Grade.Subject != nil {
				title = r.Grade.Subject.Title + " / " + title
			}
		}
		when := r.StartedAt.Format(time.DateOnly)
		switch {
		case !r.IsFinished():
			fmt.Printf("  %s  %s  in progress\n", when, title)
		case r.TotalQuestions() > 0:
			fmt.Printf("  %s  %s  %d/%d in %ds\n", when, title, r.Score, r.TotalQuestions(), r.TimeSec)
		default:
			fmt.Printf("  %s  %s  %d in %ds\n", when, title, r.Score, r.TimeSec)
		}
	}
}
