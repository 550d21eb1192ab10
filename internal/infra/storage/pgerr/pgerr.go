// Package pgerr разбирает ошибки PostgreSQL (lib/pq)
package pgerr

import (
	"errors"

	"github.com/lib/pq"
)

const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
)

// UniqueViolation возвращает имя нарушенного уникального ограничения
func UniqueViolation(err error) (string, bool) {
	return constraint(err, codeUniqueViolation)
}

// ForeignKeyViolation возвращает имя нарушенного внешнего ключа
func ForeignKeyViolation(err error) (string, bool) {
	return constraint(err, codeForeignKeyViolation)
}

// CheckViolation возвращает имя нарушенного CHECK ограничения
func CheckViolation(err error) (string, bool) {
	return constraint(err, codeCheckViolation)
}

// IsSerializationFailure транзакция не может быть сериализована, её можно повторить
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == codeSerializationFailure
}

func constraint(err error, code string) (string, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != code {
		return "", false
	}
	return pqErr.Constraint, true
}
