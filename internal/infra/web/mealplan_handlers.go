package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mealplan-ai-subscription/internal/domain/model"
)

type generateRequest struct {
	DietType      string `json:"dietType"`
	DailyCalories int    `json:"dailyCalories"`
	Allergies     string `json:"allergies"`
	Cuisine       string `json:"cuisine"`
	IncludeSnacks bool   `json:"includeSnacks"`
	PlanDays      int    `json:"planDays"`
}

func (req generateRequest) toPreferences() model.Preferences {
	return model.Preferences{
		DietType:      req.DietType,
		DailyCalories: req.DailyCalories,
		Allergies:     req.Allergies,
		Cuisine:       req.Cuisine,
		IncludeSnacks: req.IncludeSnacks,
		PlanDays:      req.PlanDays,
	}
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if r.Body != nil {
		// an empty body means "use my saved preferences"
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	sess := sessionFromContext(r.Context())

	plan, err := s.mealPlanUC.Generate(r.Context(), sess.Subject, req.toPreferences())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mealPlan": plan})
}

func (s *Server) handleLastGenerated(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	plan, err := s.mealPlanUC.LastGenerated(r.Context(), sess.Subject)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if plan == nil {
		writeError(w, http.StatusNotFound, "No generated plan cached")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mealPlan": plan})
}

type savePlanRequest struct {
	Name     string         `json:"name"`
	PlanData model.PlanData `json:"planData"`
	generateRequest
}

func (s *Server) handleMealPlanSave(w http.ResponseWriter, r *http.Request) {
	var req savePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	sess := sessionFromContext(r.Context())

	plan, err := s.mealPlanUC.Save(r.Context(), sess.Subject, req.Name, req.toPreferences(), req.PlanData)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) handleMealPlansList(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	plans, err := s.mealPlanUC.List(r.Context(), sess.Subject)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if plans == nil {
		plans = []*model.MealPlan{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"mealPlans": plans})
}

func (s *Server) handleMealPlanGet(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	plan, err := s.mealPlanUC.Get(r.Context(), sess.Subject, chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleMealPlanDelete(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if err := s.mealPlanUC.Delete(r.Context(), sess.Subject, chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type favoriteRequest struct {
	MealPlanID string `json:"mealPlanId"`
	MealDay    string `json:"mealDay"`
	MealType   string `json:"mealType"`
	MealName   string `json:"mealName"`
	Calories   int    `json:"calories"`
}

func (s *Server) handleFavoriteAdd(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	sess := sessionFromContext(r.Context())

	id, err := s.mealPlanUC.AddFavorite(r.Context(), &model.Favorite{
		UserID:     sess.Subject,
		MealPlanID: req.MealPlanID,
		MealDay:    req.MealDay,
		MealType:   req.MealType,
		MealName:   req.MealName,
		Calories:   req.Calories,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleFavoritesList(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	favs, err := s.mealPlanUC.ListFavorites(r.Context(), sess.Subject)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if favs == nil {
		favs = []*model.Favorite{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"favorites": favs})
}

func (s *Server) handleFavoriteRemove(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if err := s.mealPlanUC.RemoveFavorite(r.Context(), sess.Subject, chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleSwapMeal(w http.ResponseWriter, r *http.Request) {
	var req model.SwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	sess := sessionFromContext(r.Context())

	alts, err := s.mealPlanUC.SwapMeal(r.Context(), sess.Subject, req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"alternatives": alts})
}

func (s *Server) handleShoppingList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MealPlan model.PlanData `json:"mealPlan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	sess := sessionFromContext(r.Context())

	list, err := s.mealPlanUC.ShoppingList(r.Context(), sess.Subject, req.MealPlan)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"shoppingList": list})
}

func (s *Server) handleRecipeDetails(w http.ResponseWriter, r *http.Request) {
	var req model.RecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	sess := sessionFromContext(r.Context())

	recipe, err := s.mealPlanUC.RecipeDetails(r.Context(), sess.Subject, req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipe": recipe})
}
