package email_test

import (
	"strings"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/jurisalerta/jurisalerta/lib/models"
	"github.com/jurisalerta/jurisalerta/senders/email"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseBody(t *testing.T, ef *email.DigestFormat) *html.Node {
	t.Helper()
	doc, err := htmlquery.Parse(strings.NewReader(ef.Body()))
	require.NoError(t, err)
	return doc
}

func TestDigestFormat_Subject(t *testing.T) {
	ef := &email.DigestFormat{
		TargetStr: "RJ999999",
		Items:     []models.Comunicacao{{}, {}},
	}
	require.Equal(t, "JurisAlerta: 2 Novas Publicações para RJ999999", ef.Subject())
}

func TestDigestFormat_Body_summary(t *testing.T) {
	ef := &email.DigestFormat{
		TargetStr: "SP123456",
		Items: []models.Comunicacao{
			{NumeroProcesso: "0002-B"},
			{NumeroProcesso: "0001-A"},
			{NumeroProcesso: "0002-B"},
		},
	}
	doc := parseBody(t, ef)

	summary := htmlquery.FindOne(doc, "//div[@class='summary']")
	require.NotNil(t, summary)
	text := htmlquery.InnerText(summary)
	require.Contains(t, text, "3 nova(s)")
	require.Contains(t, text, "SP123456")
	// deduplicated and sorted
	require.Contains(t, text, "0001-A, 0002-B")
	require.Equal(t, 1, strings.Count(text, "0001-A"))
}

func TestDigestFormat_Body_publications(t *testing.T) {
	ef := &email.DigestFormat{
		TargetStr: "SP123456",
		Items: []models.Comunicacao{
			{
				NumeroProcesso:       "0001234-56.2024.8.26.0100",
				DataDisponibilizacao: "2026-08-29",
				TipoComunicacao:      "Intimação",
				NomeOrgao:            "1ª Vara Cível",
				Destinatarios: []models.Destinatario{
					{Nome: "Fulano de Tal", Polo: "A"},
					{Nome: "Beltrano Ltda", Polo: "P"},
				},
				Texto: "Fica intimado.",
				Link:  "https://pje.example/123",
			},
		},
	}
	doc := parseBody(t, ef)

	pubs := htmlquery.Find(doc, "//div[@class='publication']")
	require.Len(t, pubs, 1)

	text := htmlquery.InnerText(pubs[0])
	require.Contains(t, text, "0001234-56.2024.8.26.0100")
	require.Contains(t, text, "Intimação")
	require.Contains(t, text, "1ª Vara Cível")
	require.Contains(t, text, "Fulano de Tal")
	require.Contains(t, text, "Beltrano Ltda")

	link := htmlquery.FindOne(pubs[0], "//a[@class='cta-button']")
	require.NotNil(t, link)
	require.Equal(t, "https://pje.example/123", htmlquery.SelectAttr(link, "href"))
}

func TestDigestFormat_Body_missingFields(t *testing.T) {
	ef := &email.DigestFormat{
		TargetStr: "SP123456",
		Items:     []models.Comunicacao{{Texto: "sem partes"}},
	}
	doc := parseBody(t, ef)

	pub := htmlquery.FindOne(doc, "//div[@class='publication']")
	require.NotNil(t, pub)
	text := htmlquery.InnerText(pub)
	require.Contains(t, text, "Processo: N/A")
	require.Contains(t, text, "Polo Ativo: N/A")
	require.Contains(t, text, "Polo Passivo: N/A")

	link := htmlquery.FindOne(pub, "//a[@class='cta-button']")
	require.Equal(t, "#", htmlquery.SelectAttr(link, "href"))
}

func TestDigestFormat_Body_lineBreaksAndEscaping(t *testing.T) {
	ef := &email.DigestFormat{
		TargetStr: "SP123456",
		Items: []models.Comunicacao{
			{Texto: "linha um\nlinha dois <script>alert(1)</script>"},
		},
	}
	body := ef.Body()

	require.Contains(t, body, "linha um<br>linha dois")
	require.NotContains(t, body, "<script>")
	require.Contains(t, body, "&lt;script&gt;")
}
