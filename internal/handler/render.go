package handler

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/exam-appointment-booking/internal/i18n"
	"github.com/iliyamo/exam-appointment-booking/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	t *template.Template
}

// NewRenderer parses the embedded page templates.
func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{t: t}, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.t.ExecuteTemplate(w, name, data)
}

// page is the data passed to every template.
type page struct {
	T           i18n.Messages
	Langs       []i18n.Messages
	CSRF        string
	Levels      []string
	MinDate     string
	MaxDate     string
	Form        model.Booking
	Error       string
	Date        string
	Slots       []string
	Appointment *model.Appointment
}
