package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/samvad-hq/image-gallery/internal/config"
	"github.com/samvad-hq/image-gallery/internal/loader"
)

// LoadingText is shown while the load is in flight.
const LoadingText = "Loading..."

var fragmentTmpl = template.Must(template.New("fragment").Parse(
	`{{- if .Loading}}<p>` + LoadingText + `</p>
{{- else if .Failed}}<p>{{.Message}}</p>
{{- else}}<h1>Images</h1>
{{- range $i, $img := .Images}}
<img data-key="{{$i}}" src="{{$img.URL}}" alt="Image {{$i}}">
{{- end}}
{{- end}}
`))

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<div id="root">
{{.Body}}</div>
</body>
</html>
`))

type fragmentData struct {
	Loading bool
	Failed  bool
	Message string
	Images  []imageData
}

type imageData struct {
	URL string
}

func newFragmentData(st loader.State) fragmentData {
	switch {
	case st.Loading():
		return fragmentData{Loading: true}
	case st.Status == loader.StatusError:
		return fragmentData{Failed: true, Message: st.Message()}
	default:
		imgs := make([]imageData, len(st.Images))
		for i, img := range st.Images {
			imgs[i] = imageData{URL: img.URL}
		}
		return fragmentData{Images: imgs}
	}
}

// HTML writes the view for st as an HTML fragment: a loading paragraph, the
// error message, or a heading followed by one img per image in order.
func HTML(w io.Writer, st loader.State) error {
	if err := fragmentTmpl.Execute(w, newFragmentData(st)); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// Page writes a complete HTML document wrapping the HTML fragment.
func Page(w io.Writer, title string, st loader.State) error {
	var body bytes.Buffer
	if err := HTML(&body, st); err != nil {
		return err
	}
	data := struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(body.String()), //nolint:gosec // produced by fragmentTmpl which escapes all values
	}
	if err := pageTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// Text writes a plain-text rendition of the view.
func Text(w io.Writer, st loader.State) error {
	var b strings.Builder
	switch {
	case st.Loading():
		b.WriteString(LoadingText + "\n")
	case st.Status == loader.StatusError:
		b.WriteString(st.Message() + "\n")
	default:
		b.WriteString("Images\n")
		for i, img := range st.Images {
			fmt.Fprintf(&b, "[%d] %s\n", i, img.URL)
		}
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("render text: %w", err)
	}
	return nil
}

// Render dispatches on a config render format.
func Render(w io.Writer, format string, st loader.State) error {
	switch format {
	case config.RenderText:
		return Text(w, st)
	case config.RenderHTML, "":
		return HTML(w, st)
	default:
		return fmt.Errorf("unsupported render format %q", format)
	}
}
