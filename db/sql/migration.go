package sql

import (
	"strings"

	"github.com/keywarden/keywarden/db"
	"github.com/keywarden/keywarden/util"
	log "github.com/sirupsen/logrus"
)

type migration struct {
	version string
	queries []string
}

// {{pk}} expands to the dialect's autoincrement primary key column type.
var migrations = []migration{
	{
		version: "1.0.0",
		queries: []string{
			"create table `project` (" +
				"`id` {{pk}}," +
				"`name` varchar(100) not null," +
				"`description` varchar(200) not null default ''," +
				"unique (`name`))",

			"create table `secret_type` (" +
				"`id` {{pk}}," +
				"`name` varchar(50) not null," +
				"`description` varchar(200) not null default ''," +
				"`is_active` boolean not null default true," +
				"unique (`name`))",

			"create table `secret__rsa_content` (" +
				"`id` {{pk}}," +
				"`private_key` text not null," +
				"`public_key` text not null," +
				"`key_size` integer not null default 2048)",

			"create table `secret__aes_content` (" +
				"`id` {{pk}}," +
				"`key` text not null," +
				"`key_size` integer not null default 256," +
				"`iv` text not null default '')",

			"create table `secret` (" +
				"`id` {{pk}}," +
				"`description` varchar(200) not null default ''," +
				"`created_by` varchar(100) not null," +
				"`created_at` datetime not null," +
				"`project_id` integer not null references `project`(`id`)," +
				"`type` varchar(50) not null," +
				"`rsa_content_id` integer null references `secret__rsa_content`(`id`)," +
				"`aes_content_id` integer null references `secret__aes_content`(`id`))",

			"create table `user` (" +
				"`id` {{pk}}," +
				"`username` varchar(100) not null," +
				"`password` varchar(255) not null," +
				"`created` datetime not null," +
				"unique (`username`))",

			"create table `token_blocklist` (" +
				"`id` {{pk}}," +
				"`jti` varchar(64) not null," +
				"`user_id` integer not null," +
				"`created_at` datetime not null," +
				"unique (`jti`))",

			"create table `user_operation` (" +
				"`id` {{pk}}," +
				"`username` varchar(100) not null," +
				"`operation` varchar(255) not null," +
				"`timestamp` datetime not null," +
				"`details` text not null default '')",
		},
	},
}

func (d *SqlDb) prepareMigration(query string) string {
	var pk string
	switch util.Config.Db.Dialect {
	case util.DbDriverMySQL:
		pk = "integer not null auto_increment primary key"
	case util.DbDriverPostgres:
		pk = "serial primary key"
	default:
		pk = "integer primary key autoincrement"
	}

	return strings.ReplaceAll(query, "{{pk}}", pk)
}

func (d *SqlDb) isMigrationApplied(version string) (bool, error) {
	exists, err := d.gorpDb.SelectInt(
		d.PrepareQuery("select count(1) from `migrations` where `version`=?"),
		version)

	if err != nil {
		// migrations table does not exist yet
		return false, nil
	}

	return exists > 0, nil
}

func (d *SqlDb) Migrate() error {
	_, err := d.exec(d.prepareMigration(
		"create table if not exists `migrations` (" +
			"`version` varchar(255) not null primary key," +
			"`upgraded_date` datetime null)"))

	if err != nil {
		return err
	}

	for _, m := range migrations {
		applied, err := d.isMigrationApplied(m.version)
		if err != nil {
			return err
		}

		if applied {
			continue
		}

		log.Infof("Applying migration %s", m.version)

		for _, q := range m.queries {
			if _, err = d.exec(d.prepareMigration(q)); err != nil {
				return err
			}
		}

		_, err = d.exec(
			"insert into `migrations` (`version`, `upgraded_date`) values (?, ?)",
			m.version, db.GetUTC())

		if err != nil {
			return err
		}
	}

	return nil
}
