package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("entity not found")
	// ErrDuplicateUser means the username or email is already taken.
	ErrDuplicateUser = errors.New("username or email already exists")
	// ErrDuplicateSlug means a post with the same slug already exists.
	ErrDuplicateSlug = errors.New("post slug already exists")
)

// isDuplicateKeyError reports whether err is a MySQL duplicate-key violation.
func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
