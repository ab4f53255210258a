package dto

// ListQuery carries the pagination parameters of list endpoints
type ListQuery struct {
	Page  int    `form:"page" binding:"omitempty,gte=1"`
	Limit int    `form:"limit" binding:"omitempty,gte=1,lte=200"`
	QS    string `form:"qs"`
}
