// Package models contains the Post entity, request payloads and the error taxonomy shared by all layers.
package models

import (
	"time"
)

// PostTable is the name of the table backing Post.
const PostTable = "Post"

// Post represents a row of the Post table. IDs and creation timestamps are
// assigned by the storage engine; the service never writes createdAt.
type Post struct {
	ID          uint      `gorm:"column:idPost;primaryKey;autoIncrement" json:"idPost"`
	Title       string    `gorm:"column:title;type:text;not null" json:"title"`
	Description *string   `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `gorm:"column:createdAt;->;autoCreateTime:false;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// TableName overrides gorm's pluralized default.
func (Post) TableName() string {
	return PostTable
}

// PostPatch lists the columns an update writes. Only provided fields are set.
type PostPatch struct {
	Title       OptionalString
	Description OptionalString
}

// Columns returns the column/value pairs to write, skipping fields that were
// absent or empty in the request.
func (p PostPatch) Columns() map[string]any {
	cols := make(map[string]any, 2)
	if p.Title.Provided() {
		cols["title"] = p.Title.Value
	}
	if p.Description.Provided() {
		cols["description"] = p.Description.Value
	}
	return cols
}

// Empty reports whether the patch would not change anything.
func (p PostPatch) Empty() bool {
	return !p.Title.Provided() && !p.Description.Provided()
}
