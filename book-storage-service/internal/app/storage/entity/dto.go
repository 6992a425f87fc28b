package entity

// CreateBookRequest - запрос на добавление книги в каталог
type CreateBookRequest struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	ISBN        string `json:"isbn" validate:"required"`
	Description string `json:"description"`
}

// UpdateBookRequest - частичное обновление книги.
// ISBN не меняется: это внешний идентификатор издания.
type UpdateBookRequest struct {
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description,omitempty"`
}

// BookPageResponse - страница книг
type BookPageResponse struct {
	Content []Book `json:"content"`
	Page    int    `json:"page"`
	Size    int    `json:"size"`
	Total   int64  `json:"total"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
