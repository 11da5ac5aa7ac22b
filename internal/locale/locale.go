// Package locale resolves the user's language and provides translated
// strings and title collation for it.
package locale

import (
	"os"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a translatable string. The key text is the English form.
type Key string

// Failure messages, one per remote operation.
const (
	MsgLoadFailed   Key = "Failed to load tasks"
	MsgCreateFailed Key = "Failed to add task"
	MsgUpdateFailed Key = "Failed to update task"
	MsgDeleteFailed Key = "Failed to delete task"
)

// Interface labels.
const (
	LabelTitle          Key = "Tasks"
	LabelAdd            Key = "Add new task"
	LabelSave           Key = "Save"
	LabelCancel         Key = "Cancel"
	LabelSort           Key = "Sort alphabetically"
	LabelResetSort      Key = "Reset sorting"
	LabelEdit           Key = "Edit"
	LabelDelete         Key = "Delete"
	LabelCopy           Key = "Copy"
	LabelSearch         Key = "Search"
	LabelReload         Key = "Reload"
	LabelHelp           Key = "Help"
	LabelQuit           Key = "Quit"
	LabelLoading        Key = "Loading tasks..."
	LabelEmpty          Key = "No tasks"
	LabelNoMatches      Key = "No matching tasks"
	PlaceholderTask     Key = "Enter a new task"
	PlaceholderSearch   Key = "Search tasks"
	StatusTaskAdded     Key = "Task added"
	StatusTaskUpdated   Key = "Task updated"
	StatusTaskDeleted   Key = "Task deleted"
	StatusCopied        Key = "Copied to clipboard"
	StatusEditCancelled Key = "Editing cancelled"
)

var supported = []language.Tag{
	language.English,
	language.Russian,
}

var translations = map[language.Tag]map[Key]string{
	language.Russian: {
		MsgLoadFailed:       "Ошибка загрузки задач",
		MsgCreateFailed:     "Ошибка добавления задачи",
		MsgUpdateFailed:     "Ошибка изменения задачи",
		MsgDeleteFailed:     "Ошибка удаления задачи",
		LabelTitle:          "Задачи",
		LabelAdd:            "Добавить новую задачу",
		LabelSave:           "Сохранить",
		LabelCancel:         "Отменить",
		LabelSort:           "Сортировать по алфавиту",
		LabelResetSort:      "Сбросить сортировку",
		LabelEdit:           "Изменить",
		LabelDelete:         "Удалить",
		LabelCopy:           "Копировать",
		LabelSearch:         "Поиск",
		LabelReload:         "Обновить",
		LabelHelp:           "Справка",
		LabelQuit:           "Выход",
		LabelLoading:        "Загрузка задач...",
		LabelEmpty:          "Задач нет",
		LabelNoMatches:      "Ничего не найдено",
		PlaceholderTask:     "Введите новую задачу",
		PlaceholderSearch:   "Поиск по задачам",
		StatusTaskAdded:     "Задача добавлена",
		StatusTaskUpdated:   "Задача изменена",
		StatusTaskDeleted:   "Задача удалена",
		StatusCopied:        "Скопировано в буфер обмена",
		StatusEditCancelled: "Изменение отменено",
	},
}

var (
	matcher  = language.NewMatcher(supported)
	messages = buildCatalog()
)

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, text := range msgs {
			// Keys and translations are static; SetString only fails on a malformed tag.
			_ = b.SetString(tag, string(key), text)
		}
	}
	return b
}

// Locale bundles the resolved language with its printer and collator.
// A Locale is not safe for concurrent use because the collator keeps
// internal buffers.
type Locale struct {
	tag      language.Tag
	printer  *message.Printer
	collator *collate.Collator
}

// New resolves name ("ru", "en-GB", "ru_RU.UTF-8") to the closest supported
// language. An empty name falls back to the environment.
func New(name string) *Locale {
	if strings.TrimSpace(name) == "" {
		name = FromEnv()
	}
	tag := Match(name)
	return &Locale{
		tag:      tag,
		printer:  message.NewPrinter(tag, message.Catalog(messages)),
		collator: collate.New(tag),
	}
}

// Match returns the supported language closest to name.
func Match(name string) language.Tag {
	name = normalize(name)
	if name == "" {
		return language.English
	}
	parsed, err := language.Parse(name)
	if err != nil {
		return language.English
	}
	_, idx, conf := matcher.Match(parsed)
	if conf == language.No {
		return language.English
	}
	return supported[idx]
}

// FromEnv returns the first non-empty locale variable.
func FromEnv() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return ""
}

// normalize turns POSIX locale names into BCP 47 ("ru_RU.UTF-8" -> "ru-RU").
func normalize(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	if name == "C" || name == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(name, "_", "-")
}

// Tag returns the resolved language.
func (l *Locale) Tag() language.Tag {
	return l.tag
}

// T translates key.
func (l *Locale) T(key Key) string {
	return l.printer.Sprintf(string(key))
}

// Compare orders two titles with the language's collation rules.
func (l *Locale) Compare(a, b string) int {
	return l.collator.CompareString(a, b)
}
