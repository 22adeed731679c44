package speech

import "testing"

func TestSpeakable(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Hola mundo", "Hola mundo"},
		{"emphasis", "Es **muy** *importante*", "Es muy importante"},
		{"link", "Visita [la página](https://example.com)", "Visita la página"},
		{"inline code", "Usa `go test` ahora", "Usa go test ahora"},
		{"heading and list", "# Lista\n\n- uno\n- dos", "Lista\nuno\ndos"},
		{"soft break", "primera línea\nsegunda línea", "primera línea segunda línea"},
		{"code block only", "```\nfmt.Println()\n```", "fmt.Println()"},
		{"fenced block read as lines", "Ejemplo:\n\n```\nx := 1\ny := 2\n```", "Ejemplo:\nx := 1\ny := 2"},
		{"indented paragraph", "Primera línea.\n\n    Segunda línea sangrada.", "Primera línea.\nSegunda línea sangrada."},
		{"inline html kept", "Usa la etiqueta <b>negrita</b> ahora", "Usa la etiqueta <b>negrita</b> ahora"},
		{"html block kept", "Antes\n\n<div>\ndentro\n</div>", "Antes\n<div>\ndentro\n</div>"},
		{"autolink", "Ver <https://example.com>", "Ver https://example.com"},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Speakable(tt.in); got != tt.want {
				t.Errorf("Speakable(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
