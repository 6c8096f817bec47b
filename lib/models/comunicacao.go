package models

// Comunicacao is one court communication returned by the ComunicaPJE API.
// These are ephemeral values: they are fetched, emailed and discarded, never persisted.
type Comunicacao struct {
	NumeroProcesso       string         `json:"numeroprocessocommascara"`
	DataDisponibilizacao string         `json:"datadisponibilizacao"`
	TipoComunicacao      string         `json:"tipoComunicacao"`
	NomeOrgao            string         `json:"nomeOrgao"`
	Destinatarios        []Destinatario `json:"destinatarios"`
	Texto                string         `json:"texto"`
	Link                 string         `json:"link"`
	Hash                 string         `json:"hash"`
}

// Destinatario is a party named in a communication. Polo is "A" for the
// active (plaintiff-side) party and "P" for the passive (defendant-side) party.
type Destinatario struct {
	Nome string `json:"nome"`
	Polo string `json:"polo"`
}

type ComunicacaoSearchResult struct {
	Count int           `json:"count"`
	Items []Comunicacao `json:"items"`
}
