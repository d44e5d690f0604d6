package catalog

import (
	"strings"

	"github.com/nmubot/nmu-telebot-go/internal/scraper/nmu"
	"github.com/nmubot/nmu-telebot-go/pkg/tgutil"
)

// maxRenderedSyllabusItems caps the syllabus lines shown in a message;
// extraction itself keeps more, the message shows only the head.
const maxRenderedSyllabusItems = 15

// RenderDetails formats course details as a Telegram HTML message.
// The result is capped at the message length limit.
func RenderDetails(d nmu.Details) string {
	if d.Degraded {
		return tgutil.Truncate(
			tgutil.Bold("📚 "+tgutil.Escape(d.Title))+"\n\nНе удалось загрузить информацию",
			tgutil.MaxMessageLength,
		)
	}

	var b strings.Builder
	b.WriteString(tgutil.Bold("📚 " + tgutil.Escape(d.Title)))

	if d.Teacher != "" {
		b.WriteString("\n" + tgutil.Bold("Преподаватель:") + " " + tgutil.Escape(d.Teacher))
	}

	if len(d.Schedule) > 0 {
		b.WriteString("\n" + tgutil.Bold("Расписание:"))
		for _, item := range d.Schedule {
			b.WriteString("\n- " + tgutil.Escape(item))
		}
	}

	if len(d.Syllabus) > 0 {
		items := d.Syllabus
		if len(items) > maxRenderedSyllabusItems {
			items = items[:maxRenderedSyllabusItems]
		}
		b.WriteString("\n" + tgutil.Bold("Программа курса:"))
		for _, item := range items {
			b.WriteString("\n" + tgutil.Escape(item))
		}
	}

	if d.YouTube != "" || d.Rutube != "" {
		b.WriteString("\n" + tgutil.Bold("Видеолекции:"))
		if d.YouTube != "" {
			b.WriteString("\n🎬 " + tgutil.Link("YouTube", d.YouTube))
		}
		if d.Rutube != "" {
			b.WriteString("\n🎥 " + tgutil.Link("Rutube", d.Rutube))
		}
	}

	return tgutil.Truncate(b.String(), tgutil.MaxMessageLength)
}

// RenderMaterials formats the downloadable materials list as a Telegram HTML
// message, one linked file per line. Returns "" when there are no materials.
func RenderMaterials(materials []nmu.Material) string {
	if len(materials) == 0 {
		return ""
	}

	lines := make([]string, 0, len(materials)+1)
	lines = append(lines, tgutil.Bold("🔗 Материалы курса:")+"\n")
	for _, m := range materials {
		lines = append(lines, "📄 "+tgutil.Link(m.Title, m.URL))
	}

	return tgutil.Truncate(strings.Join(lines, "\n"), tgutil.MaxMessageLength)
}
