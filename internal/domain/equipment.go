package domain

import "time"

type EquipmentCategory string

const (
	CategoryCamera  EquipmentCategory = "camera"
	CategoryLens    EquipmentCategory = "lens"
	CategoryAdapter EquipmentCategory = "adapter"
	CategorySDCard  EquipmentCategory = "sd_card"
)

// AllCategories 的顺序同时也是前端器材选择框的展示顺序
var AllCategories = []EquipmentCategory{
	CategoryCamera,
	CategoryLens,
	CategoryAdapter,
	CategorySDCard,
}

func (c EquipmentCategory) IsValid() bool {
	switch c {
	case CategoryCamera, CategoryLens, CategoryAdapter, CategorySDCard:
		return true
	}
	return false
}

type EquipmentItem struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Serial    string            `json:"serial"`
	Category  EquipmentCategory `json:"category"`
	IsActive  bool              `json:"isActive"`
	Note      string            `json:"note"`
	CreatedAt time.Time         `json:"createdAt"`
	Version   int32             `json:"-"`
}
