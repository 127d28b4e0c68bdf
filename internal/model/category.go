package model

import "errors"

// Category is a static label; every listing references exactly one.
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

var ErrCategoryNotFound = errors.New("category not found")
