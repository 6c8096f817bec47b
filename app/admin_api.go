package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jurisalerta/jurisalerta/lib/models"
)

func errRequired(fields string) error {
	return fmt.Errorf("%s required", fields)
}

// adminRequired rejects requests without a valid admin bearer token.
func (ctrl *controller) adminRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if token == "" {
			ctrl.reject(w, http.StatusUnauthorized, errors.New("access token required"))
			return
		}
		token = strings.TrimPrefix(token, "Bearer ")

		admin, err := ctrl.svc.AdminFromToken(r.Context(), token)
		if err != nil {
			ctrl.reject(w, http.StatusUnauthorized, errors.New("invalid token"))
			return
		}

		ctrl.log.Sugar().Debugw("Admin request", "admin_id", admin.ID, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

type adminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (ctrl *controller) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := ctrl.decode(r, &req); err != nil {
		ctrl.reject(w, http.StatusBadRequest, err)
		return
	}

	token, admin, err := ctrl.svc.AdminLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, map[string]any{
		"token": token,
		"admin": AdminView{}.From(*admin),
	})
}

func (ctrl *controller) adminDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := ctrl.svc.Dashboard(r.Context())
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, map[string]any{"stats": stats})
}

func (ctrl *controller) adminListUsers(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	result, err := ctrl.svc.UsersPage(r.Context(), r.URL.Query().Get("search"), page, perPage)
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, map[string]any{
		"users":        FromMany[models.User, UserView](result.Items),
		"total":        result.Total,
		"pages":        result.Pages,
		"current_page": result.CurrentPage,
	})
}

func (ctrl *controller) adminGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := parseInt(chi.URLParam(r, "user_id"))

	user, err := ctrl.svc.GetUser(ctx, userID)
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	subs, err := ctrl.svc.ListUserSubscriptions(ctx, userID)
	if err != nil {
		ctrl.fail(w, err)
		return
	}

	var targets models.SearchTargets
	all, err := ctrl.svc.ListSearchTargets(ctx)
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	for _, t := range all {
		if t.UserID == userID {
			targets = append(targets, t)
		}
	}

	ctrl.resolve(w, http.StatusOK, map[string]any{
		"user":           UserView{}.From(*user),
		"subscriptions":  FromMany[models.Subscription, SubscriptionView](subs),
		"search_targets": FromMany[models.SearchTarget, SearchTargetView](targets),
	})
}

func (ctrl *controller) adminListSubscriptions(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	result, err := ctrl.svc.SubscriptionsPage(r.Context(), r.URL.Query().Get("status"), page, perPage)
	if err != nil {
		ctrl.fail(w, err)
		return
	}

	views := make([]map[string]any, 0, len(result.Items))
	for _, sub := range result.Items {
		views = append(views, map[string]any{
			"subscription": SubscriptionView{}.From(sub),
			"user":         UserView{}.From(sub.User),
			"plan":         PlanView{}.From(sub.Plan),
		})
	}

	ctrl.resolve(w, http.StatusOK, map[string]any{
		"subscriptions": views,
		"total":         result.Total,
		"pages":         result.Pages,
		"current_page":  result.CurrentPage,
	})
}

type updateSubscriptionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active cancelled expired"`
}

func (ctrl *controller) adminUpdateSubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	var req updateSubscriptionStatusRequest
	if err := ctrl.decode(r, &req); err != nil {
		ctrl.reject(w, http.StatusBadRequest, err)
		return
	}

	sub, err := ctrl.svc.UpdateSubscriptionStatus(r.Context(), parseInt(chi.URLParam(r, "subscription_id")), req.Status)
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, SubscriptionView{}.From(*sub))
}

func (ctrl *controller) adminListSearchTargets(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	result, err := ctrl.svc.SearchTargetsPage(r.Context(), page, perPage)
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, map[string]any{
		"search_targets": FromMany[models.SearchTarget, SearchTargetView](result.Items),
		"total":          result.Total,
		"pages":          result.Pages,
		"current_page":   result.CurrentPage,
	})
}

func (ctrl *controller) adminListPublications(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	result, err := ctrl.svc.PublicationsPage(r.Context(), page, perPage)
	if err != nil {
		ctrl.fail(w, err)
		return
	}
	ctrl.resolve(w, http.StatusOK, map[string]any{
		"publications": FromMany[models.Publication, PublicationView](result.Items),
		"total":        result.Total,
		"pages":        result.Pages,
		"current_page": result.CurrentPage,
	})
}
