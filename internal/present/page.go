package present

import (
	"embed"
	"html/template"

	"virtual-bookclub/backend/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Form holds the values shown in the search form
type Form struct {
	Mode  model.SearchMode
	Text  string
	Limit int
}

// Page is the data passed to the index template
type Page struct {
	Form       Form
	Modes      []model.SearchMode
	Genres     []string
	MaxResults int
	Errors     map[string]string
	Notice     string // page-level message such as MsgSearchUnavailable
	View       *View  // nil until a search ran
}

// Templates parses the embedded HTML templates
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html")
}
