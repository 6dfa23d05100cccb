package mysql

import (
	"context"
	"database/sql"

	"github.com/flagkit/flagset/database"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type mysqlStore struct {
	db  *sql.DB
	lgr *zap.Logger
}

// BuildSetStore wraps an open MySQL handle into a flag-set store. The
// backing table:
//
//	CREATE TABLE flag_set (
//	    `id`         BIGINT NOT NULL AUTO_INCREMENT,
//	    `uuid`       VARCHAR(36) NOT NULL,
//	    `owner`      VARCHAR(255) NOT NULL,
//	    `name`       VARCHAR(255) NOT NULL,
//	    `type_name`  VARCHAR(255) NOT NULL,
//	    `value`      VARCHAR(1024) NOT NULL,
//	    `updated_at` TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
//	                 ON UPDATE CURRENT_TIMESTAMP,
//	    PRIMARY KEY (`id`),
//	    UNIQUE KEY `owner_name` (`owner`, `name`)
//	);
func BuildSetStore(db *sql.DB, lgr *zap.Logger) database.Store {
	if lgr == nil {
		lgr = zap.NewNop()
	}
	return &mysqlStore{db: db, lgr: lgr}
}

func (ms *mysqlStore) SaveSet(ctx context.Context, rec *database.SetRecord) error {
	if rec.UUID == "" {
		rec.UUID = uuid.New()
	}
	saveSQL := "INSERT INTO flag_set (`uuid`, `owner`, `name`, `type_name`, `value`) VALUES (?, ?, ?, ?, ?)" +
		" ON DUPLICATE KEY UPDATE `type_name` = VALUES(`type_name`), `value` = VALUES(`value`)"
	result, err := ms.db.ExecContext(ctx, saveSQL, rec.UUID, rec.Owner, rec.Name, rec.TypeName, rec.Value)
	if err != nil {
		return errors.WithStack(err)
	}
	if id, err := result.LastInsertId(); err == nil && id > 0 {
		rec.ID = id
	}
	ms.lgr.Debug("flag set saved",
		zap.String("owner", rec.Owner),
		zap.String("name", rec.Name),
		zap.String("type", rec.TypeName),
		zap.String("value", rec.Value))
	return nil
}

func (ms *mysqlStore) GetSet(ctx context.Context, owner, name string) (*database.SetRecord, error) {
	querySQL := "SELECT `id`, `uuid`, `owner`, `name`, `type_name`, `value`, `updated_at`" +
		" FROM flag_set WHERE `owner` = ? AND `name` = ?"
	rec := &database.SetRecord{}
	err := ms.db.QueryRowContext(ctx, querySQL, owner, name).Scan(
		&rec.ID, &rec.UUID, &rec.Owner, &rec.Name, &rec.TypeName, &rec.Value, &rec.UpdatedAt)
	if IsNoRowsError(err) {
		return nil, &database.NotFoundError{Owner: owner, Name: name}
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return rec, nil
}

func (ms *mysqlStore) ListSets(ctx context.Context, owner string) ([]*database.SetRecord, error) {
	querySQL := "SELECT `id`, `uuid`, `owner`, `name`, `type_name`, `value`, `updated_at`" +
		" FROM flag_set WHERE `owner` = ? ORDER BY `id`"
	rows, err := ms.db.QueryContext(ctx, querySQL, owner)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	results := make([]*database.SetRecord, 0)
	for rows.Next() {
		rec := &database.SetRecord{}
		if err := rows.Scan(&rec.ID, &rec.UUID, &rec.Owner, &rec.Name, &rec.TypeName,
			&rec.Value, &rec.UpdatedAt); err != nil {
			return nil, errors.WithStack(err)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return results, nil
}

func (ms *mysqlStore) DeleteSet(ctx context.Context, owner, name string) error {
	deleteSQL := "DELETE FROM flag_set WHERE `owner` = ? AND `name` = ?"
	result, err := ms.db.ExecContext(ctx, deleteSQL, owner, name)
	if err != nil {
		return errors.WithStack(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if affected == 0 {
		return &database.NotFoundError{Owner: owner, Name: name}
	}
	return nil
}

var _ database.Store = &mysqlStore{}
