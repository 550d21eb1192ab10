package articleservice

import "errors"

var (
	// ErrArticleNotFound артикул отсутствует в каталоге
	ErrArticleNotFound = errors.New("articleservice: article not found")

	// ErrInvalidResponse каталог ответил, но тело не удалось разобрать
	ErrInvalidResponse = errors.New("articleservice: invalid response")
)
