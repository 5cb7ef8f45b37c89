package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/pizzavox/pizzavox/internal/catalog"
)

type addPizzaRequest struct {
	Name string `json:"name"`
}

type addIngredientRequest struct {
	Name     string                     `json:"name"`
	Category catalog.IngredientCategory `json:"category"`
	Price    float64                    `json:"price"`
}

type addDoughRequest struct {
	BigSize    bool    `json:"big_size"`
	ThickCrust bool    `json:"thick_crust"`
	GlutenFree bool    `json:"gluten_free"`
	Price      float64 `json:"price"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

type doughView struct {
	ID         int64   `json:"id"`
	BigSize    bool    `json:"big_size"`
	ThickCrust bool    `json:"thick_crust"`
	GlutenFree bool    `json:"gluten_free"`
	Price      float64 `json:"price"`
}

type menuResponse struct {
	Pizzas      []string    `json:"pizzas"`
	Ingredients []string    `json:"ingredients"`
	Doughs      []doughView `json:"doughs"`
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pizzas, err := s.catalog.PizzaNames(ctx)
	if err != nil {
		s.writeMachineError(w, r, err)
		return
	}
	ingredients, err := s.catalog.IngredientNames(ctx)
	if err != nil {
		s.writeMachineError(w, r, err)
		return
	}
	variants, err := s.catalog.DoughVariants(ctx)
	if err != nil {
		s.writeMachineError(w, r, err)
		return
	}

	resp := menuResponse{
		Pizzas:      pizzas,
		Ingredients: ingredients,
		Doughs:      make([]doughView, len(variants)),
	}
	for i, v := range variants {
		resp.Doughs[i] = doughView{
			ID: v.ID, BigSize: v.BigSize, ThickCrust: v.ThickCrust,
			GlutenFree: v.GlutenFree, Price: v.Price,
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddPizza(w http.ResponseWriter, r *http.Request) {
	var req addPizzaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Name == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}

	id, err := s.menu.AddPizza(r.Context(), req.Name)
	if err != nil {
		s.writeMachineError(w, r, err)
		return
	}
	s.log.InfoContext(r.Context(), "pizza added to menu", "name", req.Name, "id", id)
	s.writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleAddIngredient(w http.ResponseWriter, r *http.Request) {
	var req addIngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Name == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}
	if !req.Category.IsValid() {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "category must be vegetable, meat, or dairy"})
		return
	}
	if req.Price < 0 {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "price must not be negative"})
		return
	}

	id, err := s.menu.AddIngredient(r.Context(), req.Name, req.Category, req.Price)
	if err != nil {
		s.writeMachineError(w, r, err)
		return
	}
	s.log.InfoContext(r.Context(), "ingredient added to menu", "name", req.Name, "id", id)
	s.writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleAddDough(w http.ResponseWriter, r *http.Request) {
	var req addDoughRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Price < 0 {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "price must not be negative"})
		return
	}

	id, err := s.menu.AddDough(r.Context(), req.BigSize, req.ThickCrust, req.GlutenFree, req.Price)
	if err != nil {
		s.writeMachineError(w, r, err)
		return
	}
	s.log.InfoContext(r.Context(), "dough variant added to menu", "id", id)
	s.writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}
