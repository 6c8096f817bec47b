package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jurisalerta/jurisalerta/lib"
	"github.com/jurisalerta/jurisalerta/lib/models"
)

type createUserRequest struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	OABNumber string `json:"oab_number"`
}

func (ctrl *controller) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := ctrl.decode(r, &req); err != nil {
		ctrl.reject(w, http.StatusBadRequest, err)
		return
	}

	user, err := ctrl.svc.CreateUser(r.Context(), lib.CreateUserParams{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FullName:  req.FullName,
		Phone:     req.Phone,
		OABNumber: req.OABNumber,
	})
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusCreated, UserView{}.From(*user))
}

func (ctrl *controller) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := ctrl.svc.ListUsers(r.Context())
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, FromMany[models.User, UserView](users))
}

func (ctrl *controller) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := ctrl.svc.GetUser(r.Context(), parseInt(chi.URLParam(r, "user_id")))
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, UserView{}.From(*user))
}

type updateUserRequest struct {
	FullName  *string `json:"full_name"`
	Phone     *string `json:"phone"`
	OABNumber *string `json:"oab_number"`
	IsActive  *bool   `json:"is_active"`
}

func (ctrl *controller) updateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := ctrl.decode(r, &req); err != nil {
		ctrl.reject(w, http.StatusBadRequest, err)
		return
	}

	user, err := ctrl.svc.UpdateUser(r.Context(), parseInt(chi.URLParam(r, "user_id")), lib.UpdateUserParams{
		FullName:  req.FullName,
		Phone:     req.Phone,
		OABNumber: req.OABNumber,
		IsActive:  req.IsActive,
	})
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, UserView{}.From(*user))
}

func (ctrl *controller) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := ctrl.svc.DeleteUser(r.Context(), parseInt(chi.URLParam(r, "user_id"))); err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, map[string]any{"message": "User deleted successfully"})
}

type planRequest struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	MaxSearches  *int    `json:"max_searches"`
	MaxTribunals *int    `json:"max_tribunals"`
	MaxTargets   *int    `json:"max_targets"`
	Features     string  `json:"features"`
	IsActive     *bool   `json:"is_active"`
}

func (req planRequest) params() lib.PlanParams {
	return lib.PlanParams{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		MaxSearches:  req.MaxSearches,
		MaxTribunals: req.MaxTribunals,
		MaxTargets:   req.MaxTargets,
		Features:     req.Features,
		IsActive:     req.IsActive,
	}
}

func (ctrl *controller) createPlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := ctrl.decode(r, &req); err != nil {
		ctrl.reject(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" {
		ctrl.reject(w, http.StatusBadRequest, errRequired("name"))
		return
	}

	plan, err := ctrl.svc.CreatePlan(r.Context(), req.params())
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusCreated, PlanView{}.From(*plan))
}

func (ctrl *controller) listPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := ctrl.svc.ListPlans(r.Context())
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, FromMany[models.Plan, PlanView](plans))
}

func (ctrl *controller) getPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := ctrl.svc.GetPlan(r.Context(), parseInt(chi.URLParam(r, "plan_id")))
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, PlanView{}.From(*plan))
}

func (ctrl *controller) updatePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := ctrl.decode(r, &req); err != nil {
		ctrl.reject(w, http.StatusBadRequest, err)
		return
	}

	plan, err := ctrl.svc.UpdatePlan(r.Context(), parseInt(chi.URLParam(r, "plan_id")), req.params())
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, PlanView{}.From(*plan))
}

func (ctrl *controller) deletePlan(w http.ResponseWriter, r *http.Request) {
	if err := ctrl.svc.DeletePlan(r.Context(), parseInt(chi.URLParam(r, "plan_id"))); err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, map[string]any{"message": "Plan deleted successfully"})
}

type createSubscriptionRequest struct {
	UserID         uint `json:"user_id" validate:"required"`
	PlanID         uint `json:"plan_id" validate:"required"`
	DurationMonths int  `json:"duration_months"`
}

func (ctrl *controller) createSubscription(w http.ResponseWriter, r *http.Request) {
	var req createSubscriptionRequest
	if err := ctrl.decode(r, &req); err != nil {
		ctrl.reject(w, http.StatusBadRequest, err)
		return
	}

	sub, err := ctrl.svc.CreateSubscription(r.Context(), req.UserID, req.PlanID, req.DurationMonths)
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusCreated, SubscriptionView{}.From(*sub))
}

func (ctrl *controller) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := ctrl.svc.ListSubscriptions(r.Context())
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, FromMany[models.Subscription, SubscriptionView](subs))
}

func (ctrl *controller) getSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := ctrl.svc.GetSubscription(r.Context(), parseInt(chi.URLParam(r, "subscription_id")))
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, SubscriptionView{}.From(*sub))
}

func (ctrl *controller) listUserSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := ctrl.svc.ListUserSubscriptions(r.Context(), parseInt(chi.URLParam(r, "user_id")))
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, FromMany[models.Subscription, SubscriptionView](subs))
}

func (ctrl *controller) activeUserSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := ctrl.svc.ActiveUserSubscription(r.Context(), parseInt(chi.URLParam(r, "user_id")))
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, SubscriptionView{}.From(*sub))
}

func (ctrl *controller) cancelSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := ctrl.svc.CancelSubscription(r.Context(), parseInt(chi.URLParam(r, "subscription_id")))
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, SubscriptionView{}.From(*sub))
}

func (ctrl *controller) deleteSubscription(w http.ResponseWriter, r *http.Request) {
	if err := ctrl.svc.DeleteSubscription(r.Context(), parseInt(chi.URLParam(r, "subscription_id"))); err != nil {
		ctrl.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createPublicationRequest struct {
	UserID          uint   `json:"user_id" validate:"required"`
	Title           string `json:"title" validate:"required"`
	Content         string `json:"content"`
	Tribunal        string `json:"tribunal"`
	PublicationDate string `json:"publication_date"`
	SourceURL       string `json:"source_url"`
	ProcessNumber   string `json:"process_number"`
}

func (ctrl *controller) createPublication(w http.ResponseWriter, r *http.Request) {
	var req createPublicationRequest
	if err := ctrl.decode(r, &req); err != nil {
		ctrl.reject(w, http.StatusBadRequest, err)
		return
	}

	params := lib.CreatePublicationParams{
		UserID:        req.UserID,
		Title:         req.Title,
		Content:       req.Content,
		Tribunal:      req.Tribunal,
		SourceURL:     req.SourceURL,
		ProcessNumber: req.ProcessNumber,
	}
	if req.PublicationDate != "" {
		t, err := time.Parse(time.RFC3339, req.PublicationDate)
		if err != nil {
			ctrl.reject(w, http.StatusBadRequest, err)
			return
		}
		params.PublicationDate = &t
	}

	pub, err := ctrl.svc.CreatePublication(r.Context(), params)
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusCreated, PublicationView{}.From(*pub))
}

func (ctrl *controller) listPublications(w http.ResponseWriter, r *http.Request) {
	pubs, err := ctrl.svc.ListPublications(r.Context())
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, FromMany[models.Publication, PublicationView](pubs))
}

func (ctrl *controller) getPublication(w http.ResponseWriter, r *http.Request) {
	pub, err := ctrl.svc.GetPublication(r.Context(), parseInt(chi.URLParam(r, "publication_id")))
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, PublicationView{}.From(*pub))
}

func (ctrl *controller) listUserPublications(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)

	var isRead *bool
	if q := r.URL.Query().Get("is_read"); q != "" {
		b, err := strconv.ParseBool(q)
		if err != nil {
			ctrl.reject(w, http.StatusBadRequest, err)
			return
		}
		isRead = &b
	}

	result, err := ctrl.svc.UserPublicationsPage(r.Context(), parseInt(chi.URLParam(r, "user_id")), isRead, page, perPage)
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, map[string]any{
		"publications": FromMany[models.Publication, PublicationView](result.Items),
		"total":        result.Total,
		"pages":        result.Pages,
		"current_page": result.CurrentPage,
		"per_page":     result.PerPage,
	})
}

func (ctrl *controller) markPublicationRead(w http.ResponseWriter, r *http.Request) {
	pub, err := ctrl.svc.MarkPublicationRead(r.Context(), parseInt(chi.URLParam(r, "publication_id")))
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, PublicationView{}.From(*pub))
}

type searchConfigRequest struct {
	UserID       uint     `json:"user_id"`
	Name         string   `json:"name"`
	Keywords     []string `json:"keywords"`
	Tribunals    []string `json:"tribunals"`
	ProcessTypes []string `json:"process_types"`
	IsActive     *bool    `json:"is_active"`
}

func (req searchConfigRequest) params() lib.SearchConfigParams {
	return lib.SearchConfigParams{
		Name:         req.Name,
		Keywords:     req.Keywords,
		Tribunals:    req.Tribunals,
		ProcessTypes: req.ProcessTypes,
		IsActive:     req.IsActive,
	}
}

func (ctrl *controller) createSearchConfig(w http.ResponseWriter, r *http.Request) {
	var req searchConfigRequest
	if err := ctrl.decode(r, &req); err != nil {
		ctrl.reject(w, http.StatusBadRequest, err)
		return
	}
	if req.UserID == 0 || req.Name == "" {
		ctrl.reject(w, http.StatusBadRequest, errRequired("user_id, name"))
		return
	}

	cfg, err := ctrl.svc.CreateSearchConfig(r.Context(), req.UserID, req.params())
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusCreated, SearchConfigView{}.From(*cfg))
}

func (ctrl *controller) listSearchConfigs(w http.ResponseWriter, r *http.Request) {
	userID := parseInt(r.URL.Query().Get("user_id"))
	configs, err := ctrl.svc.ListSearchConfigs(r.Context(), userID)
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, FromMany[models.SearchConfig, SearchConfigView](configs))
}

func (ctrl *controller) getSearchConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := ctrl.svc.GetSearchConfig(r.Context(), parseInt(chi.URLParam(r, "config_id")))
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, SearchConfigView{}.From(*cfg))
}

func (ctrl *controller) updateSearchConfig(w http.ResponseWriter, r *http.Request) {
	var req searchConfigRequest
	if err := ctrl.decode(r, &req); err != nil {
		ctrl.reject(w, http.StatusBadRequest, err)
		return
	}

	cfg, err := ctrl.svc.UpdateSearchConfig(r.Context(), parseInt(chi.URLParam(r, "config_id")), req.params())
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, SearchConfigView{}.From(*cfg))
}

func (ctrl *controller) deleteSearchConfig(w http.ResponseWriter, r *http.Request) {
	if err := ctrl.svc.DeleteSearchConfig(r.Context(), parseInt(chi.URLParam(r, "config_id"))); err != nil {
		ctrl.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createSearchTargetRequest struct {
	UserID    uint   `json:"user_id" validate:"required"`
	OABNumber string `json:"oab_number" validate:"required"`
	OABUF     string `json:"oab_uf" validate:"required,len=2"`
}

func (ctrl *controller) createSearchTarget(w http.ResponseWriter, r *http.Request) {
	var req createSearchTargetRequest
	if err := ctrl.decode(r, &req); err != nil {
		ctrl.reject(w, http.StatusBadRequest, err)
		return
	}

	target, err := ctrl.svc.CreateSearchTarget(r.Context(), req.UserID, req.OABNumber, req.OABUF)
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusCreated, SearchTargetView{}.From(*target))
}

func (ctrl *controller) listSearchTargets(w http.ResponseWriter, r *http.Request) {
	targets, err := ctrl.svc.ListSearchTargets(r.Context())
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, FromMany[models.SearchTarget, SearchTargetView](targets))
}

func (ctrl *controller) getSearchTarget(w http.ResponseWriter, r *http.Request) {
	target, err := ctrl.svc.GetSearchTarget(r.Context(), parseInt(chi.URLParam(r, "target_id")))
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, SearchTargetView{}.From(*target))
}

type updateSearchTargetRequest struct {
	OABNumber *string `json:"oab_number"`
	OABUF     *string `json:"oab_uf"`
	IsActive  *bool   `json:"is_active"`
}

func (ctrl *controller) updateSearchTarget(w http.ResponseWriter, r *http.Request) {
	var req updateSearchTargetRequest
	if err := ctrl.decode(r, &req); err != nil {
		ctrl.reject(w, http.StatusBadRequest, err)
		return
	}

	target, err := ctrl.svc.UpdateSearchTarget(r.Context(), parseInt(chi.URLParam(r, "target_id")), lib.UpdateSearchTargetParams{
		OABNumber: req.OABNumber,
		OABUF:     req.OABUF,
		IsActive:  req.IsActive,
	})
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, SearchTargetView{}.From(*target))
}

func (ctrl *controller) deleteSearchTarget(w http.ResponseWriter, r *http.Request) {
	if err := ctrl.svc.DeleteSearchTarget(r.Context(), parseInt(chi.URLParam(r, "target_id"))); err != nil {
		ctrl.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
