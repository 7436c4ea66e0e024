package bolt

import (
	"sort"

	"github.com/keywarden/keywarden/db"
)

func (d *BoltDb) GetProject(projectID int) (project db.Project, err error) {
	err = d.getObject(db.ProjectProps, projectID, &project)
	return
}

func (d *BoltDb) GetAllProjects() (projects []db.Project, err error) {
	err = d.getObjects(db.ProjectProps, nil, &projects)
	if err != nil {
		return
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Name < projects[j].Name
	})

	return
}

func (d *BoltDb) CreateProject(project db.Project) (db.Project, error) {
	if err := project.Validate(); err != nil {
		return db.Project{}, err
	}

	existing, err := d.GetAllProjects()
	if err != nil {
		return db.Project{}, err
	}

	for _, p := range existing {
		if p.Name == project.Name {
			return db.Project{}, &db.ConflictError{Message: "project with this name already exists"}
		}
	}

	newProject, err := d.createObject(db.ProjectProps, project)
	if err != nil {
		return db.Project{}, err
	}

	return newProject.(db.Project), nil
}

func (d *BoltDb) UpdateProject(project db.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}

	existing, err := d.GetAllProjects()
	if err != nil {
		return err
	}

	for _, p := range existing {
		if p.Name == project.Name && p.ID != project.ID {
			return &db.ConflictError{Message: "project with this name already exists"}
		}
	}

	return d.updateObject(db.ProjectProps, project)
}

func (d *BoltDb) DeleteProject(projectID int) error {
	return d.deleteObject(db.ProjectProps, projectID)
}
