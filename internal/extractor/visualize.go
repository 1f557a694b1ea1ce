package extractor

import (
	"html/template"
	"sort"
	"strings"

	"github.com/asp616848/live-call-insight/internal/types"
)

var vizTemplate = template.Must(template.New("viz").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; line-height: 1.6; max-width: 60em; margin: 2em auto; }
pre { white-space: pre-wrap; }
mark.concern { background: #fdd; }
mark.action_item { background: #dfd; }
mark.emotion { background: #ddf; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{len .Extractions}} extractions</p>
<pre>{{range .Spans}}{{if .Class}}<mark class="{{.Class}}" title="{{.Class}}">{{.Text}}</mark>{{else}}{{.Text}}{{end}}{{end}}</pre>
<table>
<tr><th>class</th><th>text</th><th>attributes</th></tr>
{{range .Extractions}}<tr><td>{{.Class}}</td><td>{{.Text}}</td><td>{{range $k, $v := .Attributes}}{{$k}}={{$v}} {{end}}</td></tr>
{{end}}</table>
</body>
</html>
`))

type span struct {
	Class string
	Text  string
}

// RenderVisualization highlights every extraction's first non-overlapping
// occurrence in the transcript.
func RenderVisualization(title, transcript string, extractions []types.Extraction) (string, error) {
	var b strings.Builder
	err := vizTemplate.Execute(&b, struct {
		Title       string
		Spans       []span
		Extractions []types.Extraction
	}{title, highlight(transcript, extractions), extractions})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

func highlight(transcript string, extractions []types.Extraction) []span {
	type hit struct {
		start, end int
		class      string
	}
	// case folding must not shift byte offsets
	lower := strings.ToLower(transcript)
	fold := len(lower) == len(transcript)
	if !fold {
		lower = transcript
	}
	var hits []hit
	for _, e := range extractions {
		needle := e.Text
		if fold {
			needle = strings.ToLower(needle)
		}
		if needle == "" {
			continue
		}
		from := 0
		for from < len(lower) {
			i := strings.Index(lower[from:], needle)
			if i < 0 {
				break
			}
			h := hit{start: from + i, end: from + i + len(needle), class: e.Class}
			overlaps := false
			for _, o := range hits {
				if h.start < o.end && o.start < h.end {
					overlaps = true
					break
				}
			}
			if !overlaps {
				hits = append(hits, h)
				break
			}
			from = h.start + 1
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].start < hits[j].start })

	var out []span
	pos := 0
	for _, h := range hits {
		if h.start > pos {
			out = append(out, span{Text: transcript[pos:h.start]})
		}
		out = append(out, span{Class: h.class, Text: transcript[h.start:h.end]})
		pos = h.end
	}
	if pos < len(transcript) {
		out = append(out, span{Text: transcript[pos:]})
	}
	return out
}
