package catalog

import "errors"

var (
	// ErrNotFound は指定IDの蔵書が存在しないことを表します。
	ErrNotFound = errors.New("book not found")

	// ErrDuplicateISBN はISBNの一意制約違反を表します。
	ErrDuplicateISBN = errors.New("isbn already registered")
)

// ValidationError は必須フィールド不足などの入力不備を表します。
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
