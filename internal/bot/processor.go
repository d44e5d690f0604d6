package bot

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nmubot/nmu-telebot-go/internal/catalog"
	"github.com/nmubot/nmu-telebot-go/internal/config"
	"github.com/nmubot/nmu-telebot-go/internal/ctxutil"
	apperrors "github.com/nmubot/nmu-telebot-go/internal/errors"
	"github.com/nmubot/nmu-telebot-go/internal/logger"
	"github.com/nmubot/nmu-telebot-go/internal/metrics"
	"github.com/nmubot/nmu-telebot-go/internal/ratelimit"
	"github.com/nmubot/nmu-telebot-go/internal/scraper/nmu"
	"github.com/nmubot/nmu-telebot-go/internal/session"
	"github.com/nmubot/nmu-telebot-go/pkg/tgutil"
)

// User-facing texts. Kept in one place so the bot speaks with one voice.
const (
	msgChooseSemester      = "📅 Выберите учебный семестр:"
	msgSemesterNotFound    = "⚠ Семестр не найден"
	msgCoursesLoadFailed   = "⚠ Не удалось загрузить курсы. Попробуйте позже."
	msgCourseLoadFailed    = "⚠ Не удалось загрузить информацию о курсе. Попробуйте позже."
	msgCourseNotFound      = "⚠ Курс не найден. Выберите семестр заново: /start"
	msgLoadingCourse       = "⏳ Загружаю информацию о курсе..."
	msgNoMaterials         = "ℹ️ Материалы к курсу не найдены"
	msgRateLimited         = "⏳ Слишком много запросов, попробуйте позже"
	msgCourseDetailsHeader = "📚 <b>Информация о курсе</b>\n\n"
	msgBackToSemesters     = "🔙 Назад к семестрам"
)

// Sender is the subset of the Telegram API client the processor needs.
// *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Processor handles incoming Telegram updates: the /start command and the
// callback queries driving the semester/course browsing flow.
type Processor struct {
	sender    Sender
	catalog   *catalog.Service
	sessions  *session.Store
	limiter   *ratelimit.PerKeyLimiter
	logger    *logger.Logger
	metrics   *metrics.Metrics
	semesters []config.Semester
}

// ProcessorConfig holds the dependencies for creating a Processor.
type ProcessorConfig struct {
	Sender    Sender
	Catalog   *catalog.Service
	Sessions  *session.Store
	Limiter   *ratelimit.PerKeyLimiter
	Logger    *logger.Logger
	Metrics   *metrics.Metrics
	Semesters []config.Semester
}

// NewProcessor creates a new update processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	return &Processor{
		sender:    cfg.Sender,
		catalog:   cfg.Catalog,
		sessions:  cfg.Sessions,
		limiter:   cfg.Limiter,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		semesters: cfg.Semesters,
	}
}

// ProcessUpdate dispatches a single Telegram update. User-level failures are
// answered in chat and do not produce an error; the returned error covers
// only delivery failures worth logging upstream.
func (p *Processor) ProcessUpdate(ctx context.Context, update tgbotapi.Update) error {
	switch {
	case update.Message != nil:
		return p.processMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		return p.processCallback(ctx, update.CallbackQuery)
	default:
		return nil
	}
}

func (p *Processor) processMessage(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	ctx = ctxutil.WithChatID(ctx, chatID)

	if !p.allowChat(chatID) {
		_, err := p.sender.Send(tgbotapi.NewMessage(chatID, msgRateLimited))
		return err
	}

	// The bot is menu-driven; /start is the only entry point and anything
	// else is ignored.
	if !msg.IsCommand() || msg.Command() != "start" {
		return nil
	}

	p.logger.WithField("chat_id", chatID).Info("Sending semester menu")

	reply := tgbotapi.NewMessage(chatID, msgChooseSemester)
	reply.ReplyMarkup = p.semesterKeyboard()
	_, err := p.sender.Send(reply)
	return err
}

func (p *Processor) processCallback(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query.Message == nil {
		return nil
	}
	chatID := query.Message.Chat.ID
	ctx = ctxutil.WithChatID(ctx, chatID)

	if !p.allowChat(chatID) {
		// Answer with a toast instead of a message so a spamming chat
		// does not accumulate extra messages.
		_, err := p.sender.Request(tgbotapi.NewCallback(query.ID, msgRateLimited))
		return err
	}

	// Acknowledge immediately so the client stops showing the spinner.
	if _, err := p.sender.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		p.logger.WithError(err).Warn("Failed to answer callback query")
	}

	action, param, err := DecodeCallback(query.Data)
	if err != nil {
		p.logger.WithError(err).WithField("chat_id", chatID).Warn("Invalid callback data")
		return nil
	}

	switch action {
	case ActionSemester:
		return p.showSemesterCourses(ctx, chatID, query.Message.MessageID, param)
	case ActionCourse:
		return p.showCourseDetails(ctx, chatID, query.Message.MessageID, param)
	case ActionBack:
		if param == BackToSemesters {
			return p.showSemesterMenu(chatID, query.Message.MessageID)
		}
		return nil
	default:
		p.logger.WithField("action", action).Warn("Unknown callback action")
		return nil
	}
}

// showSemesterMenu edits the current message back into the semester menu.
func (p *Processor) showSemesterMenu(chatID int64, messageID int) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, msgChooseSemester, p.semesterKeyboard())
	_, err := p.sender.Send(edit)
	return err
}

// showSemesterCourses fetches the semester catalog and replaces the menu
// with the course list.
func (p *Processor) showSemesterCourses(ctx context.Context, chatID int64, messageID int, semesterID string) error {
	semester := p.findSemester(semesterID)
	if semester == nil {
		p.logger.WithError(apperrors.ErrSemesterNotFound).WithField("semester_id", semesterID).Warn("Unknown semester id")
		_, err := p.sender.Send(tgbotapi.NewEditMessageText(chatID, messageID, msgSemesterNotFound))
		return err
	}

	courses, err := p.catalog.FetchCourses(ctx, semester.URL)
	if err != nil {
		p.logger.WithError(err).WithField("semester_url", semester.URL).Error("Failed to load courses")
		_, sendErr := p.sender.Send(tgbotapi.NewEditMessageText(chatID, messageID, msgCoursesLoadFailed))
		return sendErr
	}

	p.sessions.SetCourses(chatID, courses)

	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID,
		messageID,
		fmt.Sprintf("📚 Курсы семестра %s (по алфавиту):", semester.Title),
		courseKeyboard(courses),
	)
	_, err = p.sender.Send(edit)
	return err
}

// showCourseDetails resolves the course against the chat's session and
// replaces the list with the course details, then sends the materials as a
// separate message.
func (p *Processor) showCourseDetails(ctx context.Context, chatID int64, messageID int, courseID string) error {
	courses := p.sessions.Courses(chatID)

	if _, err := p.sender.Send(tgbotapi.NewEditMessageText(chatID, messageID, msgLoadingCourse)); err != nil {
		p.logger.WithError(err).Warn("Failed to show loading indicator")
	}

	details, materials, err := p.catalog.FetchCourseDetails(ctx, courseID, courses)
	if err != nil {
		if apperrors.IsNotFound(err) {
			_, sendErr := p.sender.Send(tgbotapi.NewEditMessageText(chatID, messageID, msgCourseNotFound))
			return sendErr
		}
		p.logger.WithError(err).WithField("course_id", courseID).Error("Failed to load course details")
		_, sendErr := p.sender.Send(tgbotapi.NewEditMessageText(chatID, messageID, msgCourseLoadFailed))
		return sendErr
	}

	text := tgutil.Truncate(msgCourseDetailsHeader+catalog.RenderDetails(details), tgutil.MaxMessageLength)
	if _, err := p.sender.Send(tgutil.NewHTMLEdit(chatID, messageID, text)); err != nil {
		return err
	}

	if len(materials) == 0 {
		_, err := p.sender.Send(tgbotapi.NewMessage(chatID, msgNoMaterials))
		return err
	}
	_, err = p.sender.Send(tgutil.NewHTMLMessage(chatID, catalog.RenderMaterials(materials)))
	return err
}

func (p *Processor) allowChat(chatID int64) bool {
	if p.limiter == nil {
		return true
	}
	if p.limiter.Allow(strconv.FormatInt(chatID, 10)) {
		return true
	}
	p.logger.WithError(apperrors.ErrRateLimitExceeded).WithField("chat_id", chatID).Warn("Chat rate limit exceeded")
	p.metrics.RecordRateLimiterDrop("chat")
	return false
}

func (p *Processor) semesterKeyboard() tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(p.semesters))
	for _, s := range p.semesters {
		buttons = append(buttons, tgutil.CallbackButton(
			s.Title,
			EncodeCallback(ActionSemester, nmu.ShortID(s.URL)),
		))
	}
	return tgutil.SingleColumnKeyboard(buttons...)
}

func (p *Processor) findSemester(semesterID string) *config.Semester {
	for i := range p.semesters {
		if nmu.ShortID(p.semesters[i].URL) == semesterID {
			return &p.semesters[i]
		}
	}
	return nil
}

func courseKeyboard(courses []nmu.Course) tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(courses)+1)
	for _, c := range courses {
		buttons = append(buttons, tgutil.CallbackButton(c.Title, EncodeCallback(ActionCourse, c.ID)))
	}
	buttons = append(buttons, tgutil.CallbackButton(msgBackToSemesters, EncodeCallback(ActionBack, BackToSemesters)))
	return tgutil.SingleColumnKeyboard(buttons...)
}
