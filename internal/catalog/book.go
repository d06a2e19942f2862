package catalog

import "time"

// Book は蔵書1冊のレコードを表します。
type Book struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	ISBN          *string   `json:"isbn"`
	Genre         *string   `json:"genre"`
	PublishedYear *int      `json:"publishedYear"`
	Available     bool      `json:"available"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CreateBookInput は蔵書登録時に受け付けるフィールドを列挙します。
// title と author は必須、それ以外は任意です。
type CreateBookInput struct {
	Title         string  `json:"title" binding:"required"`
	Author        string  `json:"author" binding:"required"`
	ISBN          *string `json:"isbn"`
	Genre         *string `json:"genre"`
	PublishedYear *int    `json:"publishedYear"`
	Available     *bool   `json:"available"`
}

// UpdateBookInput は蔵書更新時に受け付けるフィールドを列挙します。
// すべてポインタ型にすることで「送られていない」(nil) と
// 「明示的にゼロ値を設定する」を区別します。nil のフィールドは変更されません。
type UpdateBookInput struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	ISBN          *string `json:"isbn"`
	Genre         *string `json:"genre"`
	PublishedYear *int    `json:"publishedYear"`
	Available     *bool   `json:"available"`
}
