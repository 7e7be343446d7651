package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/studyplan/internal/app"
	"github.com/shrimpsizemoose/studyplan/internal/models"
	"github.com/shrimpsizemoose/studyplan/internal/planner"
)

const (
	defaultDueCount = 5
	commandTimeout  = 10 * time.Second

	userHelp = `Available commands:
/courses - List courses with their current grade
/gpa - Show the overall GPA
/due [n] - Show the next n pending assignments (default 5)
/today - Show today's classes
/help - Show this message`

	adminHelp = userHelp + `

Admin commands:
/grade add <course_id> <category> <score>/<max> weight <w> - Record a grade
/token <user> [rotate] - Issue, show or rotate an API token

Examples:
/grade add 3 Exam 88/100 weight 0.5
/token ada`
)

type commandHandler func(context.Context, *tgbotapi.Message) error

func (b *Bot) routeUserCommands(cmd string) (commandHandler, bool) {
	commands := map[string]commandHandler{
		"start":   b.handleStart,
		"help":    b.handleHelp,
		"courses": b.handleCourses,
		"gpa":     b.handleGPA,
		"due":     b.handleDue,
		"today":   b.handleToday,
	}
	handler, found := commands[cmd]
	return handler, found
}

func (b *Bot) routeAdminCommands(cmd string) (commandHandler, bool) {
	commands := map[string]commandHandler{
		"grade": b.handleGrade,
		"token": b.handleToken,
	}
	handler, found := commands[cmd]
	return handler, found
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		b.sendHelp(msg.Chat.ID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	cmd := msg.Command()
	handler, ok := b.routeUserCommands(cmd)
	if !ok && msg.From != nil && b.admins[msg.From.ID] {
		handler, ok = b.routeAdminCommands(cmd)
	}
	if !ok {
		b.sendHelp(msg.Chat.ID)
		return
	}

	if err := handler(ctx, msg); err != nil {
		logger.Error.Printf("Command /%s error: %v", cmd, err)
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("Error: %s", userFacing(err)))
	}
}

// userFacing hides store failure details from chat.
func userFacing(err error) string {
	if errors.Is(err, app.ErrFetchFailed) {
		return "could not reach the planner database, try again later"
	}
	return err.Error()
}

func (b *Bot) isAdmin(msg *tgbotapi.Message) bool {
	return msg.From != nil && b.admins[msg.From.ID]
}

func (b *Bot) handleHelp(ctx context.Context, msg *tgbotapi.Message) error {
	text := userHelp
	if b.isAdmin(msg) {
		text = adminHelp
	}
	return b.sendMessage(msg.Chat.ID, text)
}

func (b *Bot) sendHelp(chatID int64) error {
	return b.sendMessage(chatID, "Use commands to talk to the planner. Send /help for the list.")
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	text := "Hi! I keep track of your courses, deadlines and grades.\n\n"
	if b.isAdmin(msg) {
		text += "You are a planner admin. Use /help to see every command."
	} else {
		text += "Try /due to see what is coming up."
	}
	return b.sendMessage(msg.Chat.ID, text)
}

func (b *Bot) handleCourses(ctx context.Context, msg *tgbotapi.Message) error {
	report, err := b.service.CourseReport(ctx)
	if err != nil {
		return err
	}
	if len(report.Courses) == 0 {
		return b.sendMessage(msg.Chat.ID, "No courses yet")
	}

	var out strings.Builder
	out.WriteString("Courses:\n\n")
	for _, c := range report.Courses {
		grade := "no grades yet"
		if c.Average != nil {
			grade = fmt.Sprintf("%s (%.1f%%)", c.Letter, *c.Average)
		}
		out.WriteString(fmt.Sprintf("#%d %s, %d cr: %s\n", c.CourseID, c.Name, c.Credits, grade))
	}
	return b.sendMessage(msg.Chat.ID, out.String())
}

func (b *Bot) handleGPA(ctx context.Context, msg *tgbotapi.Message) error {
	report, err := b.service.CourseReport(ctx)
	if err != nil {
		return err
	}
	return b.sendMessage(msg.Chat.ID, fmt.Sprintf(
		"GPA: %s\nGraded courses: %d of %d",
		report.GPA,
		report.GradedCount,
		len(report.Courses),
	))
}

func (b *Bot) handleDue(ctx context.Context, msg *tgbotapi.Message) error {
	n := defaultDueCount
	if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
		parsed, err := strconv.Atoi(arg)
		if err != nil || parsed <= 0 {
			return fmt.Errorf("count must be a positive number, got %q", arg)
		}
		n = parsed
	}

	assignments, err := b.service.Assignments(ctx, planner.Filter{Status: planner.StatusPending}, planner.SortByDueDate)
	if err != nil {
		return err
	}
	upcoming := planner.Upcoming(assignments, n)
	if len(upcoming) == 0 {
		return b.sendMessage(msg.Chat.ID, "Nothing due, enjoy the break")
	}

	now := b.now()
	var out strings.Builder
	out.WriteString("Upcoming:\n\n")
	for _, a := range upcoming {
		due := planner.DueLabel(a.DueDate, now)
		out.WriteString(fmt.Sprintf("%s [%s] %s, %s\n", due.Text, a.Priority, a.Title, a.Type))
	}
	return b.sendMessage(msg.Chat.ID, out.String())
}

func (b *Bot) handleToday(ctx context.Context, msg *tgbotapi.Message) error {
	now := b.now()
	sessions, err := b.service.Schedule(ctx, int(now.Weekday()))
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return b.sendMessage(msg.Chat.ID, "No classes today")
	}

	var out strings.Builder
	out.WriteString(fmt.Sprintf("Classes on %s:\n\n", now.Format("Mon Jan 2")))
	for _, s := range sessions {
		out.WriteString(fmt.Sprintf("%s-%s %s", models.MinutesToClock(s.Start), models.MinutesToClock(s.End), s.Course))
		if s.Instructor != "" {
			out.WriteString(" with " + s.Instructor)
		}
		out.WriteString("\n")
	}
	return b.sendMessage(msg.Chat.ID, out.String())
}

const gradeUsage = "usage: /grade add <course_id> <category> <score>/<max> weight <w>"

// parseGradeArgs reads "add <course_id> <category> <score>/<max> weight <w>".
func parseGradeArgs(args []string) (*models.Grade, error) {
	if len(args) != 6 || args[0] != "add" || args[4] != "weight" {
		return nil, errors.New(gradeUsage)
	}

	courseID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid course id %q", args[1])
	}

	rawScore, rawMax, found := strings.Cut(args[3], "/")
	if !found {
		return nil, fmt.Errorf("score must look like 88/100, got %q", args[3])
	}
	score, err := strconv.ParseFloat(rawScore, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid score %q", rawScore)
	}
	maxScore, err := strconv.ParseFloat(rawMax, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid max score %q", rawMax)
	}
	weight, err := strconv.ParseFloat(args[5], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid weight %q", args[5])
	}

	return &models.Grade{
		CourseID: courseID,
		Category: args[2],
		Score:    score,
		MaxScore: maxScore,
		Weight:   weight,
	}, nil
}

func (b *Bot) handleGrade(ctx context.Context, msg *tgbotapi.Message) error {
	g, err := parseGradeArgs(strings.Fields(msg.CommandArguments()))
	if err != nil {
		return err
	}
	if err := b.service.SaveGrade(ctx, g); err != nil {
		return err
	}

	summary, err := b.service.CourseSummary(ctx, g.CourseID)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("✅ Recorded %s %.4g/%.4g (weight %.2f) for %s",
		g.Category, g.Score, g.MaxScore, g.Weight, summary.Name)
	if summary.Average != nil {
		text += fmt.Sprintf("\nCourse average: %.1f%% (%s)", *summary.Average, summary.Letter)
	}
	return b.sendMessage(msg.Chat.ID, text)
}

func (b *Bot) handleToken(ctx context.Context, msg *tgbotapi.Message) error {
	if b.tokens == nil {
		return errors.New("token issuing needs [auth] redis_url in the config")
	}
	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 || len(args) > 2 || (len(args) == 2 && args[1] != "rotate") {
		return errors.New("usage: /token <user> [rotate]")
	}
	user := args[0]

	var (
		info  *models.TokenInfo
		state = "Existing"
		err   error
	)
	if len(args) == 2 {
		info, err = b.tokens.RotateToken(ctx, user)
		state = "Rotated"
	} else {
		var isNew bool
		info, isNew, err = b.tokens.FetchOrCreateToken(ctx, user)
		if isNew {
			state = "New"
		}
	}
	if err != nil {
		return fmt.Errorf("failed to fetch token: %w", err)
	}

	return b.sendMessage(msg.Chat.ID, fmt.Sprintf("%s token for %s:\n%s\nRequests so far: %d",
		state, info.User, info.Token, info.RequestCount))
}

func (b *Bot) sendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.out.Send(msg)
	return err
}
