package api

import (
	"net/http"

	"github.com/keywarden/keywarden/api/helpers"
	"github.com/keywarden/keywarden/db"
)

// ProjectMiddleware ensures a project exists and loads it to the context
func ProjectMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		projectID, err := helpers.GetIntParam("project_id", w, r)
		if err != nil {
			return
		}

		project, err := helpers.Store(r).GetProject(projectID)
		if err != nil {
			helpers.WriteError(w, err)
			return
		}

		r = helpers.SetContextValue(r, "project", project)
		next.ServeHTTP(w, r)
	})
}

func GetProject(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)
	helpers.WriteJSON(w, http.StatusOK, project)
}

func GetProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := helpers.Store(r).GetAllProjects()
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, projects)
}

func AddProject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	if !helpers.Bind(w, r, &body) {
		return
	}

	project, err := helpers.Store(r).CreateProject(db.Project{
		Name:        body.Name,
		Description: body.Description,
	})

	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, project)
}

func UpdateProject(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)

	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	if !helpers.Bind(w, r, &body) {
		return
	}

	if body.Name != nil {
		project.Name = *body.Name
	}
	if body.Description != nil {
		project.Description = *body.Description
	}

	if err := helpers.Store(r).UpdateProject(project); err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, project)
}

// RemoveProject deletes a project. A project which still owns secrets is
// not deleted: destroying key material implicitly is worse than asking the
// caller to remove the secrets first.
func RemoveProject(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)

	count, err := db.CountSecretsInProject(helpers.Store(r), project.ID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	if count > 0 {
		helpers.WriteError(w, &db.ConflictError{
			Message: "project still contains secrets",
		})
		return
	}

	if err := helpers.Store(r).DeleteProject(project.ID); err != nil {
		helpers.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
