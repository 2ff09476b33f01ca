// Package i18n holds the message catalog used to render notifications. A
// Catalog is built once at startup and handed to whoever renders messages.
package i18n

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultLanguage = "en"

// Message keys.
const (
	TaskCreated       = "task_created"
	TaskCompleted     = "task_completed"
	TaskReopened      = "task_reopened"
	TaskPaused        = "task_paused"
	TaskResumed       = "task_resumed"
	TaskDeleted       = "task_deleted"
	TaskUpdated       = "task_updated"
	TaskRestored      = "task_restored"
	TaskImported      = "task_imported"
	TaskShared        = "task_shared"
	TasksReordered    = "tasks_reordered"
	TaskReminder      = "task_reminder"
	ProfileUpdated    = "profile_updated"
	AvatarUpdated     = "avatar_updated"
	WelcomeBack       = "welcome_back"
	SharedTaskName    = "shared_task_name"
	SessionLoadFailed = "session_load_failed"
	OperationFailed   = "operation_failed"
)

//go:embed messages.yaml
var embedded []byte

type Catalog struct {
	language string
	tables   map[string]map[string]string
}

// Load parses the embedded catalog and selects language.
func Load(language string) (*Catalog, error) {
	c, err := Parse(embedded)
	if err != nil {
		return nil, err
	}
	return c.WithLanguage(language)
}

func Parse(data []byte) (*Catalog, error) {
	tables := make(map[string]map[string]string)
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("failed to decode message catalog: %w", err)
	}
	if _, ok := tables[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("message catalog has no %q table", DefaultLanguage)
	}
	return &Catalog{language: DefaultLanguage, tables: tables}, nil
}

// WithLanguage returns a catalog sharing the same tables that renders in
// language.
func (c *Catalog) WithLanguage(language string) (*Catalog, error) {
	if language == "" {
		language = DefaultLanguage
	}
	if _, ok := c.tables[language]; !ok {
		return nil, fmt.Errorf("unsupported language %q", language)
	}
	return &Catalog{language: language, tables: c.tables}, nil
}

func (c *Catalog) Language() string {
	return c.language
}

func (c *Catalog) Languages() []string {
	langs := make([]string, 0, len(c.tables))
	for lang := range c.tables {
		langs = append(langs, lang)
	}
	return langs
}

// T renders key, substituting {placeholder} pairs given as
// alternating name/value arguments. Missing keys fall back to the default
// language and then to the key itself.
func (c *Catalog) T(key string, pairs ...string) string {
	text, ok := c.tables[c.language][key]
	if !ok {
		text, ok = c.tables[DefaultLanguage][key]
	}
	if !ok {
		text = key
	}

	if len(pairs) == 0 {
		return text
	}

	oldnew := make([]string, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		oldnew = append(oldnew, "{"+pairs[i]+"}", pairs[i+1])
	}
	return strings.NewReplacer(oldnew...).Replace(text)
}
