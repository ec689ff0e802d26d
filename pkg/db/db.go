package db

import (
	"grocery-catalog-crawlers/pkg/logger"

	"github.com/go-pg/pg/v10"
)

type DB struct {
	*pg.DB
	logger.Logger
}

func New(db *pg.DB, log logger.Logger) *DB {
	return &DB{db, log}
}
