package services

import "errors"

// Ошибки уровня сервисов. Обработчики переводят их в HTTP-статусы:
// валидация — 400, отказ в доступе — 403, отсутствие — 404.
var (
	ErrValidation   = errors.New("validation failed")
	ErrAccessDenied = errors.New("access denied")
	ErrNotFound     = errors.New("not found")
)
