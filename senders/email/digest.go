package email

import (
	_ "embed"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/jurisalerta/jurisalerta/lib/models"
)

var (
	//go:embed digest.html
	digestHTML     string
	digestTemplate = template.Must(template.New("digest.html").Parse(digestHTML))
)

func mustFillTemplate(tmpl *template.Template, values any) string {
	buf := new(strings.Builder)
	err := tmpl.Execute(buf, values)
	if err != nil {
		return ""
	}
	return buf.String()
}

// DigestFormat renders the notification digest for one search target.
// It performs no I/O and does not mutate Items.
type DigestFormat struct {
	TargetStr string
	Items     []models.Comunicacao
}

func (ef *DigestFormat) Subject() string {
	return fmt.Sprintf("JurisAlerta: %d Novas Publicações para %s", len(ef.Items), ef.TargetStr)
}

func (ef *DigestFormat) Body() string {
	return mustFillTemplate(digestTemplate, ef.templateData())
}

type digestData struct {
	TargetStr string
	Count     int
	Processos string
	Items     []digestItem
}

type digestItem struct {
	Processo    string
	Data        string
	Tipo        string
	Orgao       string
	PoloAtivo   string
	PoloPassivo string
	Texto       template.HTML
	Link        string
}

func (ef *DigestFormat) templateData() digestData {
	return digestData{
		TargetStr: ef.TargetStr,
		Count:     len(ef.Items),
		Processos: strings.Join(distinctProcessos(ef.Items), ", "),
		Items:     digestItems(ef.Items),
	}
}

// distinctProcessos lists the process numbers involved, deduplicated and
// lexicographically sorted.
func distinctProcessos(items []models.Comunicacao) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(items))
	for _, item := range items {
		processo := orNA(item.NumeroProcesso)
		if !seen[processo] {
			seen[processo] = true
			out = append(out, processo)
		}
	}
	sort.Strings(out)
	return out
}

func digestItems(items []models.Comunicacao) []digestItem {
	out := make([]digestItem, 0, len(items))
	for _, item := range items {
		link := item.Link
		if link == "" {
			link = "#"
		}
		out = append(out, digestItem{
			Processo:    orNA(item.NumeroProcesso),
			Data:        orNA(item.DataDisponibilizacao),
			Tipo:        orNA(item.TipoComunicacao),
			Orgao:       orNA(item.NomeOrgao),
			PoloAtivo:   joinPolo(item.Destinatarios, "A"),
			PoloPassivo: joinPolo(item.Destinatarios, "P"),
			Texto:       lineBreaks(item.Texto),
			Link:        link,
		})
	}
	return out
}

func joinPolo(partes []models.Destinatario, polo string) string {
	nomes := make([]string, 0, len(partes))
	for _, p := range partes {
		if p.Polo == polo {
			nomes = append(nomes, p.Nome)
		}
	}
	if len(nomes) == 0 {
		return "N/A"
	}
	return strings.Join(nomes, ", ")
}

// lineBreaks escapes the free text, then converts newlines into <br> markup.
func lineBreaks(texto string) template.HTML {
	escaped := template.HTMLEscapeString(texto)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
