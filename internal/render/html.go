package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/dBitech/milestones/internal/scene"
	"github.com/dBitech/milestones/internal/story"
)

type pageStory struct {
	ID   string
	Body template.HTML
}

type pageData struct {
	Title      string
	Background string
	SVG        template.HTML
	Stories    []pageStory
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
html, body { margin: 0; height: 100%; background: {{.Background}}; font-family: sans-serif; }
#paper-container { position: absolute; inset: 0; }
.modal-overlay { position: fixed; inset: 0; background: rgba(0, 0, 0, 0.6); display: none; align-items: center; justify-content: center; z-index: 10; }
.modal-overlay.open-modal { display: flex; }
.modal { position: relative; background: #fff; color: #222; max-width: 760px; max-height: 85vh; overflow-y: auto; padding: 24px 32px; border-radius: 6px; }
.close-btn { position: absolute; top: 8px; right: 12px; border: none; background: none; font-size: 24px; cursor: pointer; }
.video-container iframe { width: 100%; aspect-ratio: 16 / 9; }
.detailImg, .modal img { max-width: 100%; }
</style>
</head>
<body>
<div id="paper-container">{{.SVG}}</div>
<div class="modal-overlay">
<div class="modal">
<button class="close-btn" aria-label="close">&times;</button>
<div id="detailStory"></div>
</div>
</div>
{{range .Stories}}<template id="story-{{.ID}}">{{.Body}}</template>
{{end}}<script>
document.addEventListener('DOMContentLoaded', function () {
  var modal = document.querySelector('.modal-overlay');
  var detail = document.getElementById('detailStory');
  document.querySelectorAll('[data-story]').forEach(function (el) {
    el.addEventListener('click', function () {
      var tpl = document.getElementById('story-' + el.getAttribute('data-story'));
      if (!tpl) return;
      detail.innerHTML = tpl.innerHTML;
      modal.classList.add('open-modal');
    });
  });
  document.querySelector('.close-btn').addEventListener('click', function () {
    modal.classList.remove('open-modal');
  });
});
</script>
</body>
</html>
`))

// HTML writes a self-contained page: the responsive SVG plus a modal overlay
// that shows a marker's story when the marker is clicked.
func HTML(w io.Writer, s *scene.Scene, stories *story.Registry, title string) error {
	clickable := make(map[string]bool)
	var blocks []pageStory
	if stories != nil {
		for _, ev := range s.Events() {
			if ev.Story == "" {
				continue
			}
			body, ok := stories.Get(ev.Story)
			if !ok {
				continue
			}
			clickable[ev.ID] = true
			blocks = append(blocks, pageStory{ID: ev.ID, Body: body})
		}
	}

	data := pageData{
		Title:      title,
		Background: s.Config().Canvas.Background,
		// SVG escapes every piece of user text itself
		SVG:     template.HTML(SVG(s, SVGOptions{Responsive: true, Clickable: clickable})),
		Stories: blocks,
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("error rendering page: %w", err)
	}
	return nil
}
