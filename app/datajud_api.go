package app

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jurisalerta/jurisalerta/datajud"
)

func (ctrl *controller) datajudSearchProcesses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))

	raw, err := ctrl.datajud.SearchProcesses(r.Context(), datajud.ProcessQuery{
		NumeroProcesso: q.Get("numero_processo"),
		Tribunal:       q.Get("tribunal"),
		Classe:         q.Get("classe"),
		Assunto:        q.Get("assunto"),
		DataInicio:     q.Get("data_inicio"),
		DataFim:        q.Get("data_fim"),
		Page:           page,
		Size:           size,
	})
	ctrl.proxy(w, raw, err)
}

func (ctrl *controller) datajudProcessDetails(w http.ResponseWriter, r *http.Request) {
	raw, err := ctrl.datajud.ProcessDetails(r.Context(), chi.URLParam(r, "processo_id"))
	ctrl.proxy(w, raw, err)
}

func (ctrl *controller) datajudProcessMovements(w http.ResponseWriter, r *http.Request) {
	raw, err := ctrl.datajud.ProcessMovements(r.Context(), chi.URLParam(r, "processo_id"))
	ctrl.proxy(w, raw, err)
}

func (ctrl *controller) datajudTribunals(w http.ResponseWriter, r *http.Request) {
	raw, err := ctrl.datajud.Tribunals(r.Context())
	ctrl.proxy(w, raw, err)
}

func (ctrl *controller) datajudClasses(w http.ResponseWriter, r *http.Request) {
	raw, err := ctrl.datajud.ProcessClasses(r.Context())
	ctrl.proxy(w, raw, err)
}

func (ctrl *controller) datajudSubjects(w http.ResponseWriter, r *http.Request) {
	raw, err := ctrl.datajud.ProcessSubjects(r.Context())
	ctrl.proxy(w, raw, err)
}

// proxy relays an upstream JSON payload verbatim.
func (ctrl *controller) proxy(w http.ResponseWriter, raw json.RawMessage, err error) {
	if err != nil {
		ctrl.log.Sugar().Errorw("Upstream request failed", "error", err)
		ctrl.reject(w, http.StatusBadGateway, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}
