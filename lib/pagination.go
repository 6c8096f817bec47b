package lib

import "gorm.io/gorm"

type Page[T any] struct {
	Items       []T
	Total       int64
	Pages       int
	CurrentPage int
	PerPage     int
}

// paginate runs a counted offset/limit query. The query func must build a
// fresh chain each call since gorm finishers consume the statement.
func paginate[T any](query func() *gorm.DB, page, perPage int) (*Page[T], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	var total int64
	var items []T
	if err := query().Count(&total).Error; err != nil {
		return nil, err
	}
	if err := query().Offset((page - 1) * perPage).Limit(perPage).Find(&items).Error; err != nil {
		return nil, err
	}

	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return &Page[T]{
		Items:       items,
		Total:       total,
		Pages:       pages,
		CurrentPage: page,
		PerPage:     perPage,
	}, nil
}
