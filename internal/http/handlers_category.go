package http

import (
	"errors"
	"net/http"

	"outgo/internal/auth"
	"outgo/internal/core"
)

type categoryListPage struct {
	Categories []core.Category
}

type categoryFormPage struct {
	Category core.Category
	Error    string
	Editing  bool
}

func (s *Server) handleCategoryList(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	ownerID, _ := auth.OwnerFromContext(r.Context())

	categories, err := s.store.ListCategories(r.Context(), ownerID)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	s.render(w, r, "categories.html", categoryListPage{Categories: categories})
}

func (s *Server) handleCategoryAdd(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.OwnerFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "category_form.html", categoryFormPage{})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		name := sanitizeInput(r.Form.Get("name"))
		if err := (core.Category{Name: name}).Validate(); err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			s.render(w, r, "category_form.html", categoryFormPage{
				Category: core.Category{Name: name},
				Error:    validationMessage(err),
			})
			return
		}

		if _, err := s.svc.CreateCategory(r.Context(), ownerID, name); err != nil {
			msg := categoryErrorMessage(err)
			if msg == "" {
				s.storeError(w, r, err)
				return
			}
			w.WriteHeader(http.StatusUnprocessableEntity)
			s.render(w, r, "category_form.html", categoryFormPage{
				Category: core.Category{Name: name},
				Error:    msg,
			})
			return
		}
		http.Redirect(w, r, "/categories", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCategoryEdit(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.OwnerFromContext(r.Context())

	id, ok := queryID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := s.store.GetCategory(r.Context(), ownerID, id)
		if err != nil {
			s.storeError(w, r, err)
			return
		}
		s.render(w, r, "category_form.html", categoryFormPage{Category: c, Editing: true})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		name := sanitizeInput(r.Form.Get("name"))
		if err := (core.Category{Name: name}).Validate(); err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			s.render(w, r, "category_form.html", categoryFormPage{
				Category: core.Category{ID: id, Name: name},
				Error:    validationMessage(err),
				Editing:  true,
			})
			return
		}

		if err := s.svc.UpdateCategory(r.Context(), ownerID, id, name); err != nil {
			msg := categoryErrorMessage(err)
			if msg == "" {
				s.storeError(w, r, err)
				return
			}
			w.WriteHeader(http.StatusUnprocessableEntity)
			s.render(w, r, "category_form.html", categoryFormPage{
				Category: core.Category{ID: id, Name: name},
				Error:    msg,
				Editing:  true,
			})
			return
		}
		http.Redirect(w, r, "/categories", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleCategoryDelete removes the category; its expenses survive with
// the category cleared.
func (s *Server) handleCategoryDelete(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	ownerID, _ := auth.OwnerFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	id, ok := formID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := s.svc.DeleteCategory(r.Context(), ownerID, id); err != nil {
		s.storeError(w, r, err)
		return
	}
	http.Redirect(w, r, "/categories", http.StatusSeeOther)
}

func categoryErrorMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrDuplicateName):
		return "A category with that name already exists"
	case errors.Is(err, core.ErrEmptyName):
		return "Name is required and must be at most 100 characters"
	default:
		return ""
	}
}
