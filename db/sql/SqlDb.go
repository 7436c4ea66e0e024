package sql

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-gorp/gorp/v3"
	"github.com/keywarden/keywarden/db"
	"github.com/keywarden/keywarden/util"
	log "github.com/sirupsen/logrus"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type SqlDb struct {
	gorpDb *gorp.DbMap
}

func CreateDb() *SqlDb {
	return &SqlDb{}
}

func connect() (*sql.DB, error) {
	cfg := util.Config.Db

	switch cfg.Dialect {
	case util.DbDriverSQLite:
		return sql.Open("sqlite", cfg.ConnectionString())
	case util.DbDriverMySQL:
		return sql.Open("mysql", cfg.ConnectionString())
	case util.DbDriverPostgres:
		return sql.Open("postgres", cfg.ConnectionString())
	default:
		return nil, fmt.Errorf("unsupported database dialect: %s", cfg.Dialect)
	}
}

func (d *SqlDb) Connect() error {
	sqlDb, err := connect()
	if err != nil {
		return err
	}

	if err = sqlDb.Ping(); err != nil {
		return err
	}

	var dialect gorp.Dialect

	switch util.Config.Db.Dialect {
	case util.DbDriverSQLite:
		dialect = gorp.SqliteDialect{}
		// sqlite serializes writers; a single connection avoids
		// SQLITE_BUSY under concurrent requests.
		sqlDb.SetMaxOpenConns(1)
	case util.DbDriverMySQL:
		dialect = gorp.MySQLDialect{Engine: "InnoDB", Encoding: "UTF8"}
	case util.DbDriverPostgres:
		dialect = gorp.PostgresDialect{}
	}

	d.gorpDb = &gorp.DbMap{Db: sqlDb, Dialect: dialect}
	return nil
}

func (d *SqlDb) Close() error {
	return d.gorpDb.Db.Close()
}

func (d *SqlDb) Sql() *sql.DB {
	return d.gorpDb.Db
}

// PrepareQuery rewrites ? placeholders for dialects which do not accept
// them (postgres).
func (d *SqlDb) PrepareQuery(query string) string {
	if util.Config.Db.Dialect != util.DbDriverPostgres {
		return query
	}

	var res strings.Builder
	n := 0
	for _, c := range query {
		switch c {
		case '?':
			n++
			res.WriteString(fmt.Sprintf("$%d", n))
		case '`':
			res.WriteRune('"')
		default:
			res.WriteRune(c)
		}
	}

	return res.String()
}

type queryable interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

func (d *SqlDb) exec(query string, args ...any) (sql.Result, error) {
	return d.gorpDb.Db.Exec(d.PrepareQuery(query), args...)
}

func (d *SqlDb) selectOne(holder any, query string, args ...any) error {
	err := d.gorpDb.SelectOne(holder, d.PrepareQuery(query), args...)
	return validateError(err)
}

func (d *SqlDb) selectAll(holder any, query string, args ...any) error {
	_, err := d.gorpDb.Select(holder, d.PrepareQuery(query), args...)
	return validateError(err)
}

// insert runs an insert statement on q and returns the generated primary
// key. Postgres has no LastInsertId, so the statement gets a returning
// clause instead.
func (d *SqlDb) insert(q queryable, primaryKeyColumnName string, query string, args ...any) (int, error) {
	if util.Config.Db.Dialect == util.DbDriverPostgres {
		query += " returning " + primaryKeyColumnName

		var insertID int
		err := q.QueryRow(d.PrepareQuery(query), args...).Scan(&insertID)
		if err != nil {
			return 0, err
		}

		return insertID, nil
	}

	res, err := q.Exec(d.PrepareQuery(query), args...)
	if err != nil {
		return 0, err
	}

	insertID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	return int(insertID), nil
}

// validateMutationResult turns an update/delete which touched no rows into
// db.ErrNotFound.
func validateMutationResult(res sql.Result, err error) error {
	if err != nil {
		return validateError(err)
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return db.ErrNotFound
	}

	return nil
}

func validateError(err error) error {
	if err == sql.ErrNoRows {
		return db.ErrNotFound
	}
	return err
}

func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		log.WithError(err).Error("Failed to roll back transaction")
	}
}
