package scheduling

import (
	"github.com/campus-media-dev/equipment-manager/backend/internal/domain"
)

// FilterAvailable 从 items 中筛出在 window 内没有被任何未归还记录占用的器材。
// items 应当只包含同一类别的在用器材，records 应当只包含未归还的记录；
// 结果保持 items 的原始顺序。没有任何记录的器材天然可用。
func FilterAvailable(items []*domain.EquipmentItem, records []*domain.AssignmentRecord, window Window) []*domain.EquipmentItem {
	// equipmentID -> 是否被某条重叠的记录占用
	occupied := make(map[int64]bool)
	for _, rec := range records {
		if rec.IsReturned() {
			continue
		}
		if window.Overlaps(RecordWindow(rec)) {
			occupied[rec.EquipmentID] = true
		}
	}

	available := make([]*domain.EquipmentItem, 0, len(items))
	for _, item := range items {
		if occupied[item.ID] {
			continue
		}
		available = append(available, item)
	}

	return available
}
