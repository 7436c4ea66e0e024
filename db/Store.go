package db

import (
	"errors"
	"reflect"
	"time"
)

var ErrNotFound = errors.New("no rows in result set")

// ValidationError maps to a 400 response at the API boundary.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ConflictError maps to a 409 response at the API boundary.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// ObjectProps describe the storage of an entity type for both backends.
type ObjectProps struct {
	TableName            string
	Type                 reflect.Type
	PrimaryColumnName    string
	SortableColumns      []string
	DefaultSortingColumn string
	SortInverted         bool
}

var ProjectProps = ObjectProps{
	TableName:         "project",
	Type:              reflect.TypeOf(Project{}),
	PrimaryColumnName: "id",
	SortableColumns:   []string{"name"},
}

var SecretProps = ObjectProps{
	TableName:            "secret",
	Type:                 reflect.TypeOf(Secret{}),
	PrimaryColumnName:    "id",
	SortableColumns:      []string{"created_at", "description"},
	DefaultSortingColumn: "created_at",
}

var RsaContentProps = ObjectProps{
	TableName:         "secret__rsa_content",
	Type:              reflect.TypeOf(RsaContent{}),
	PrimaryColumnName: "id",
}

var AesContentProps = ObjectProps{
	TableName:         "secret__aes_content",
	Type:              reflect.TypeOf(AesContent{}),
	PrimaryColumnName: "id",
}

var SecretTypeProps = ObjectProps{
	TableName:         "secret_type",
	Type:              reflect.TypeOf(SecretType{}),
	PrimaryColumnName: "id",
}

var UserProps = ObjectProps{
	TableName:         "user",
	Type:              reflect.TypeOf(User{}),
	PrimaryColumnName: "id",
}

var TokenBlocklistProps = ObjectProps{
	TableName:         "token_blocklist",
	Type:              reflect.TypeOf(TokenBlocklist{}),
	PrimaryColumnName: "id",
}

var UserOperationProps = ObjectProps{
	TableName:            "user_operation",
	Type:                 reflect.TypeOf(UserOperation{}),
	PrimaryColumnName:    "id",
	SortableColumns:      []string{"timestamp"},
	DefaultSortingColumn: "timestamp",
	SortInverted:         true,
}

// SecretFilter narrows GetSecrets results.
type SecretFilter struct {
	ProjectID *int
}

// Store is the persistence contract shared by the SQL and bolt backends.
//
// Content rows are never mutated directly by callers: they are written by
// CreateSecret together with the metadata row and removed by DeleteSecret.
type Store interface {
	Connect() error
	Close() error
	Migrate() error

	GetProject(projectID int) (Project, error)
	GetAllProjects() ([]Project, error)
	CreateProject(project Project) (Project, error)
	UpdateProject(project Project) error
	DeleteProject(projectID int) error

	// CreateSecret persists the secret metadata together with the content
	// carried in secret.RsaContent or secret.AesContent. Both rows commit
	// or neither does.
	CreateSecret(secret Secret) (Secret, error)
	GetSecret(secretID int) (Secret, error)
	GetSecrets(filter SecretFilter) ([]Secret, error)
	UpdateSecret(secret Secret) error
	DeleteSecret(secretID int) error

	GetRsaContent(contentID int) (RsaContent, error)
	GetAesContent(contentID int) (AesContent, error)

	GetSecretTypes() ([]SecretType, error)
	GetSecretTypeByName(name string) (SecretType, error)
	CreateSecretType(secretType SecretType) (SecretType, error)

	CreateUser(user User) (User, error)
	GetUser(userID int) (User, error)
	GetUserByUsername(username string) (User, error)
	SetUserPassword(userID int, password string) error

	AddTokenToBlocklist(token TokenBlocklist) (TokenBlocklist, error)
	IsTokenBlocklisted(jti string) (bool, error)

	CreateUserOperation(operation UserOperation) (UserOperation, error)
	GetUserOperations() ([]UserOperation, error)
}

// CountSecretsInProject reports how many secrets a project still owns.
// Used to enforce the project deletion policy.
func CountSecretsInProject(store Store, projectID int) (int, error) {
	secrets, err := store.GetSecrets(SecretFilter{ProjectID: &projectID})
	if err != nil {
		return 0, err
	}
	return len(secrets), nil
}

// GetUTC returns the current time truncated for storage.
func GetUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
