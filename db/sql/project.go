package sql

import (
	"strings"

	"github.com/keywarden/keywarden/db"
)

func (d *SqlDb) GetProject(projectID int) (project db.Project, err error) {
	err = d.selectOne(&project,
		"select * from `project` where `id`=?",
		projectID)
	return
}

func (d *SqlDb) GetAllProjects() (projects []db.Project, err error) {
	projects = make([]db.Project, 0)
	err = d.selectAll(&projects, "select * from `project` order by `name`")
	return
}

func (d *SqlDb) CreateProject(project db.Project) (newProject db.Project, err error) {
	if err = project.Validate(); err != nil {
		return
	}

	insertID, err := d.insert(d.gorpDb.Db,
		"id",
		"insert into `project` (`name`, `description`) values (?, ?)",
		project.Name,
		project.Description)

	if err != nil {
		if isUniqueViolation(err) {
			err = &db.ConflictError{Message: "project with this name already exists"}
		}
		return
	}

	newProject = project
	newProject.ID = insertID
	return
}

func (d *SqlDb) UpdateProject(project db.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}

	res, err := d.exec(
		"update `project` set `name`=?, `description`=? where `id`=?",
		project.Name,
		project.Description,
		project.ID)

	if err != nil && isUniqueViolation(err) {
		return &db.ConflictError{Message: "project with this name already exists"}
	}

	return validateMutationResult(res, err)
}

func (d *SqlDb) DeleteProject(projectID int) error {
	res, err := d.exec("delete from `project` where `id`=?", projectID)
	return validateMutationResult(res, err)
}

// isUniqueViolation detects a unique constraint error across the supported
// dialects without depending on driver-specific error types.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
