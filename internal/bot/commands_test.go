package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/studyplan/internal/app"
	"github.com/shrimpsizemoose/studyplan/internal/models"
	"github.com/shrimpsizemoose/studyplan/internal/store/memory"
)

const (
	adminID = int64(42)
	userID  = int64(7)
	chatID  = int64(1001)
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return args.Get(0).(tgbotapi.Message), args.Error(1)
}

// lastText returns the text of the most recent message sent.
func (m *mockSender) lastText(t *testing.T) string {
	require.NotEmpty(t, m.Calls)
	msg, ok := m.Calls[len(m.Calls)-1].Arguments.Get(0).(tgbotapi.MessageConfig)
	require.True(t, ok)
	return msg.Text
}

func setupBot(t *testing.T) (*Bot, *mockSender, *app.Service) {
	cfg, err := app.ParseConfig("planner.toml", []byte("[server]\nport = \":1\"\n[bot]\nadmin_ids = [42]\n"))
	require.NoError(t, err)

	service := app.NewServiceWith(cfg, memory.NewMemoryStore(), nil)
	out := &mockSender{}
	out.On("Send", mock.Anything).Return(tgbotapi.Message{}, nil)

	b := newBot(cfg, service, nil, out)
	// Wednesday
	b.now = func() time.Time { return time.Date(2024, 9, 4, 8, 0, 0, 0, time.UTC) }
	return b, out, service
}

func command(from int64, text string) *tgbotapi.Message {
	length := len(text)
	if i := strings.IndexByte(text, ' '); i >= 0 {
		length = i
	}
	return &tgbotapi.Message{
		Text:     text,
		From:     &tgbotapi.User{ID: from},
		Chat:     &tgbotapi.Chat{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
	}
}

func seedCourse(t *testing.T, s *app.Service) models.Course {
	course := models.Course{
		Name:       "Algorithms",
		Instructor: "Dr. Knuth",
		Credits:    3,
		Schedule:   models.Schedule{{Day: 3, Start: 540, End: 630}},
	}
	require.NoError(t, s.SaveCourse(context.Background(), &course))
	return course
}

func TestHelpDependsOnRole(t *testing.T) {
	b, out, _ := setupBot(t)

	b.handleMessage(command(userID, "/help"))
	assert.NotContains(t, out.lastText(t), "/grade add")

	b.handleMessage(command(adminID, "/help"))
	assert.Contains(t, out.lastText(t), "/grade add")
}

func TestPlainTextGetsHint(t *testing.T) {
	b, out, _ := setupBot(t)

	b.handleMessage(&tgbotapi.Message{Text: "hello", From: &tgbotapi.User{ID: userID}, Chat: &tgbotapi.Chat{ID: chatID}})
	assert.Contains(t, out.lastText(t), "/help")
}

func TestAdminCommandsHiddenFromUsers(t *testing.T) {
	b, out, service := setupBot(t)
	course := seedCourse(t, service)

	b.handleMessage(command(userID, "/grade add 1 Exam 90/100 weight 0.5"))
	assert.Contains(t, out.lastText(t), "Send /help")

	grades, err := service.Grades(context.Background(), course.ID)
	require.NoError(t, err)
	assert.Empty(t, grades)
}

func TestGradeAddAndGPA(t *testing.T) {
	b, out, service := setupBot(t)
	course := seedCourse(t, service)

	b.handleMessage(command(adminID, "/grade add 1 Exam 90/100 weight 0.6"))
	assert.Contains(t, out.lastText(t), "Recorded Exam 90/100")
	b.handleMessage(command(adminID, "/grade add 1 Homework 8/10 weight 0.4"))
	assert.Contains(t, out.lastText(t), "Course average: 86.0% (B)")

	grades, err := service.Grades(context.Background(), course.ID)
	require.NoError(t, err)
	assert.Len(t, grades, 2)

	b.handleMessage(command(userID, "/gpa"))
	assert.Equal(t, "GPA: 2.70\nGraded courses: 1 of 1", out.lastText(t))

	b.handleMessage(command(userID, "/courses"))
	assert.Contains(t, out.lastText(t), "#1 Algorithms, 3 cr: B (86.0%)")
}

func TestGradeAddRejectsBadInput(t *testing.T) {
	b, out, service := setupBot(t)
	seedCourse(t, service)

	b.handleMessage(command(adminID, "/grade add 1 Exam 90 weight 0.6"))
	assert.Contains(t, out.lastText(t), "score must look like 88/100")

	b.handleMessage(command(adminID, "/grade add 1 Exam 90/0 weight 0.6"))
	assert.Contains(t, out.lastText(t), "Error: invalid input")

	b.handleMessage(command(adminID, "/grade add 77 Exam 90/100 weight 0.6"))
	assert.Contains(t, out.lastText(t), "course 77 does not exist")
}

func TestParseGradeArgs(t *testing.T) {
	g, err := parseGradeArgs(strings.Fields("add 3 Quiz 7.5/10 weight 0.25"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), g.CourseID)
	assert.Equal(t, "Quiz", g.Category)
	assert.Equal(t, 7.5, g.Score)
	assert.Equal(t, 10.0, g.MaxScore)
	assert.Equal(t, 0.25, g.Weight)

	for _, bad := range []string{
		"",
		"list 3",
		"add x Quiz 7/10 weight 0.2",
		"add 3 Quiz 7/10 w 0.2",
		"add 3 Quiz a/10 weight 0.2",
		"add 3 Quiz 7/b weight 0.2",
		"add 3 Quiz 7/10 weight heavy",
	} {
		_, err := parseGradeArgs(strings.Fields(bad))
		assert.Error(t, err, bad)
	}
}

func TestDueAndToday(t *testing.T) {
	b, out, service := setupBot(t)
	course := seedCourse(t, service)
	ctx := context.Background()
	now := b.now()

	for i, title := range []string{"Heaps", "Graphs", "Tries"} {
		a := models.Assignment{
			CourseID: course.ID,
			Title:    title,
			DueDate:  now.Add(time.Duration(i)*24*time.Hour + time.Hour),
		}
		require.NoError(t, service.SaveAssignment(ctx, &a))
	}

	b.handleMessage(command(userID, "/due 2"))
	text := out.lastText(t)
	assert.Contains(t, text, "Due Today [medium] Heaps")
	assert.Contains(t, text, "Due Tomorrow [medium] Graphs")
	assert.NotContains(t, text, "Tries")

	b.handleMessage(command(userID, "/due zero"))
	assert.Contains(t, out.lastText(t), "count must be a positive number")

	b.handleMessage(command(userID, "/today"))
	assert.Contains(t, out.lastText(t), "09:00-10:30 Algorithms with Dr. Knuth")
}

func TestTokenNeedsRedis(t *testing.T) {
	b, out, _ := setupBot(t)

	b.handleMessage(command(adminID, "/token ada"))
	assert.Contains(t, out.lastText(t), "redis_url")
}
