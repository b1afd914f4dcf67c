package public

import (
	"bytes"
	"context"
	"html/template"
	"net/http"

	"github.com/prbeaches/directory/api/internal/interfaces/http/common"
	publicapp "github.com/prbeaches/directory/api/internal/public/application"
)

var beachFragment = template.Must(template.New("beach").Parse(`<article class="beach" data-beach-id="{{.ID}}">
  <header>
    <h2>{{.Name}}</h2>
    <p class="municipality">{{.Municipality}}</p>
    {{- if .Rating}}
    <p class="rating" data-source="{{.Rating.Source}}">{{.Rating.Display}}</p>
    {{- end}}
  </header>
  {{- if .CoverImage}}
  <img class="cover" src="{{.CoverImage}}" alt="{{.Name}}" loading="lazy">
  {{- end}}
  {{- if .Description}}
  <p class="description">{{.Description}}</p>
  {{- end}}
  {{- if .Tags}}
  <ul class="tags">{{range .Tags}}<li>{{.}}</li>{{end}}</ul>
  {{- end}}
  {{- if .Amenities}}
  <ul class="amenities">{{range .Amenities}}<li>{{.}}</li>{{end}}</ul>
  {{- end}}
  {{- if .Features}}
  <ul class="features">{{range .Features}}<li>{{.}}</li>{{end}}</ul>
  {{- end}}
  {{- if .Gallery}}
  <div class="gallery">{{range .Gallery}}<img src="{{.}}" alt="" loading="lazy">{{end}}</div>
  {{- end}}
  {{- if .Reviews}}
  <section class="reviews">
    {{- range .Reviews}}
    <blockquote data-rating="{{.Rating}}">{{.Comment}}{{if .AuthorName}}<cite>{{.AuthorName}}</cite>{{end}}</blockquote>
    {{- end}}
  </section>
  {{- end}}
</article>
`))

// writeFragment renders the detail as a cacheable HTML fragment. Beach master data changes
// rarely, so shared caches may keep it for a day.
func (h *Handler) writeFragment(ctx context.Context, w http.ResponseWriter, detail *publicapp.BeachDetail) {
	var buf bytes.Buffer
	if err := beachFragment.Execute(&buf, buildBeachDetail(detail, h.location)); err != nil {
		common.WriteError(h.log(ctx), w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", fragmentMaxAge)
	w.Header().Set("Vary", "Accept")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger := h.log(ctx)
		logger.Warn().Err(err).Msg("failed to write beach fragment")
	}
}
