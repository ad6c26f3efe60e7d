package sweep

import "errors"

var (
	// ErrInvalidInput возвращается при некорректной области sweep
	ErrInvalidInput = errors.New("sweep: invalid input data")

	// ErrInternal возвращается, когда не удалось получить очередную страницу
	ErrInternal = errors.New("sweep: internal error")
)
