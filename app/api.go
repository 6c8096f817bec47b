package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jurisalerta/jurisalerta/comunicapje"
	"github.com/jurisalerta/jurisalerta/config"
	"github.com/jurisalerta/jurisalerta/datajud"
	"github.com/jurisalerta/jurisalerta/lib"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewAPI(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, svc *lib.Service, searcher *comunicapje.Searcher, dj *datajud.Client) *http.Server {
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	srv := &http.Server{Addr: addr, Handler: router(log, svc, searcher, dj)}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go srv.ListenAndServe()
			return nil
		},
		OnStop: srv.Shutdown,
	})

	return srv
}

func router(log *zap.Logger, svc *lib.Service, searcher *comunicapje.Searcher, dj *datajud.Client) http.Handler {
	ctrl := &controller{log, svc, searcher, dj, validator.New()}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", ctrl.createUser)
			r.Get("/", ctrl.listUsers)
			r.Get("/{user_id}", ctrl.getUser)
			r.Put("/{user_id}", ctrl.updateUser)
			r.Delete("/{user_id}", ctrl.deleteUser)
		})

		r.Route("/plans", func(r chi.Router) {
			r.Post("/", ctrl.createPlan)
			r.Get("/", ctrl.listPlans)
			r.Get("/{plan_id}", ctrl.getPlan)
			r.Put("/{plan_id}", ctrl.updatePlan)
			r.Delete("/{plan_id}", ctrl.deletePlan)
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Post("/", ctrl.createSubscription)
			r.Get("/", ctrl.listSubscriptions)
			r.Get("/{subscription_id}", ctrl.getSubscription)
			r.Get("/user/{user_id}", ctrl.listUserSubscriptions)
			r.Get("/user/{user_id}/active", ctrl.activeUserSubscription)
			r.Put("/{subscription_id}/cancel", ctrl.cancelSubscription)
			r.Delete("/{subscription_id}", ctrl.deleteSubscription)
		})

		r.Route("/publications", func(r chi.Router) {
			r.Post("/", ctrl.createPublication)
			r.Get("/", ctrl.listPublications)
			r.Get("/{publication_id}", ctrl.getPublication)
			r.Get("/user/{user_id}", ctrl.listUserPublications)
			r.Put("/{publication_id}/read", ctrl.markPublicationRead)
		})

		r.Route("/search-configs", func(r chi.Router) {
			r.Post("/", ctrl.createSearchConfig)
			r.Get("/", ctrl.listSearchConfigs)
			r.Get("/{config_id}", ctrl.getSearchConfig)
			r.Put("/{config_id}", ctrl.updateSearchConfig)
			r.Delete("/{config_id}", ctrl.deleteSearchConfig)
		})

		r.Route("/search-targets", func(r chi.Router) {
			r.Post("/", ctrl.createSearchTarget)
			r.Get("/", ctrl.listSearchTargets)
			r.Get("/{target_id}", ctrl.getSearchTarget)
			r.Put("/{target_id}", ctrl.updateSearchTarget)
			r.Delete("/{target_id}", ctrl.deleteSearchTarget)
		})

		r.Route("/datajud", func(r chi.Router) {
			r.Get("/processes/search", ctrl.datajudSearchProcesses)
			r.Get("/processes/{processo_id}", ctrl.datajudProcessDetails)
			r.Get("/processes/{processo_id}/movements", ctrl.datajudProcessMovements)
			r.Get("/tribunals", ctrl.datajudTribunals)
			r.Get("/classes", ctrl.datajudClasses)
			r.Get("/subjects", ctrl.datajudSubjects)
		})

		r.Post("/run-comunicapje-search", ctrl.runComunicaPJESearch)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", ctrl.adminLogin)

			r.Group(func(r chi.Router) {
				r.Use(ctrl.adminRequired)
				r.Get("/dashboard", ctrl.adminDashboard)
				r.Get("/users", ctrl.adminListUsers)
				r.Get("/users/{user_id}", ctrl.adminGetUser)
				r.Put("/users/{user_id}", ctrl.updateUser)
				r.Delete("/users/{user_id}", ctrl.deleteUser)
				r.Get("/plans", ctrl.listPlans)
				r.Post("/plans", ctrl.createPlan)
				r.Put("/plans/{plan_id}", ctrl.updatePlan)
				r.Delete("/plans/{plan_id}", ctrl.deletePlan)
				r.Get("/subscriptions", ctrl.adminListSubscriptions)
				r.Put("/subscriptions/{subscription_id}/status", ctrl.adminUpdateSubscriptionStatus)
				r.Get("/search-targets", ctrl.adminListSearchTargets)
				r.Get("/publications", ctrl.adminListPublications)
			})
		})
	})

	return r
}

type controller struct {
	log      *zap.Logger
	svc      *lib.Service
	searcher *comunicapje.Searcher
	datajud  *datajud.Client
	validate *validator.Validate
}

func (ctrl *controller) reject(w http.ResponseWriter, status int, err error) {
	if err != nil {
		http.Error(w, err.Error(), status)
	} else {
		w.WriteHeader(status)
	}
}

func (ctrl *controller) resolve(w http.ResponseWriter, status int, body any) {
	if b, err := json.Marshal(body); err != nil {
		ctrl.reject(w, http.StatusInternalServerError, err)
		ctrl.log.Sugar().Error("Request failed", "error", err)
		return
	} else {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if b != nil {
			w.Write(b)
		}
	}
}

// fail maps service errors onto HTTP statuses.
func (ctrl *controller) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		ctrl.reject(w, http.StatusNotFound, err)
	case errors.Is(err, lib.ErrPlanInUse):
		ctrl.reject(w, http.StatusBadRequest, err)
	case errors.Is(err, lib.ErrInvalidCredentials):
		ctrl.reject(w, http.StatusUnauthorized, err)
	default:
		ctrl.reject(w, http.StatusInternalServerError, err)
	}
}

// decode parses a JSON body into payload and runs struct validation.
func (ctrl *controller) decode(r *http.Request, payload any) error {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		return err
	}
	return ctrl.validate.Struct(payload)
}

func (ctrl *controller) runComunicaPJESearch(w http.ResponseWriter, r *http.Request) {
	report, err := ctrl.searcher.RunDailySearches(r.Context())
	if errors.Is(err, comunicapje.ErrAlreadyRunning) {
		ctrl.reject(w, http.StatusConflict, err)
		return
	} else if err != nil {
		ctrl.fail(w, err)
		return
	}

	ctrl.resolve(w, http.StatusOK, map[string]any{
		"message": "ComunicaPJE daily search triggered",
		"report":  report,
	})
}

func parseInt(s string) uint {
	u, _ := strconv.ParseUint(s, 10, 64)
	return uint(u)
}

func pageParams(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	return page, perPage
}
