package db

type Project struct {
	ID          int    `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

func (p *Project) Validate() error {
	if p.Name == "" {
		return &ValidationError{"name can not be empty"}
	}
	return nil
}
