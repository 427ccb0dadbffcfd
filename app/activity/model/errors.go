package model

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/Wepsel/Ouderenapp/app/activity/registration"

	mysqlerr "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// MySQL server error numbers that are worth retrying.
const (
	mysqlDuplicateEntry     = 1062
	mysqlTooManyConnections = 1040
	mysqlLockWaitTimeout    = 1205
	mysqlDeadlock           = 1213
)

// isDuplicateKeyErr reports a unique index violation.
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysqlerr.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return false
}

// Classify maps a driver error onto the registration core's error classes.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if isDuplicateKeyErr(err) {
		return registration.ErrDuplicate
	}
	if isTransientErr(err) {
		return registration.Transient(op, err)
	}
	return registration.Permanent(op, err)
}

func isTransientErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysqlerr.ErrInvalidConn) {
		return true
	}
	var mysqlErr *mysqlerr.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlTooManyConnections, mysqlLockWaitTimeout, mysqlDeadlock:
			return true
		}
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
