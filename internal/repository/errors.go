package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// 写入约束冲突的分类，供 service 层映射为用户可见的校验失败。
// 触发器拒绝 (并发提交绕过了客户端快照校验) 走 ErrSequenceViolation
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateDate     = errors.New("duplicate reading date")
	ErrSequenceViolation = errors.New("reading sequence violation")
)

// PostgreSQL SQLSTATE
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// classifyReadingError 把读数写入错误归类为哨兵错误
func classifyReadingError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicateDate, pgErr.Message)
		case pgCheckViolation:
			return fmt.Errorf("%w: %s", ErrSequenceViolation, pgErr.Message)
		}
	}
	return err
}

// notFound 把空结果归类为 ErrNotFound
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
