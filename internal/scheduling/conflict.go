package scheduling

import (
	"github.com/campus-media-dev/equipment-manager/backend/internal/domain"
)

// DraftShift 是表单里还没有保存的一个班次。
// 班次之间的冲突检查是纯内存计算，不访问台账。
type DraftShift struct {
	Window    Window
	Equipment domain.ShiftEquipment
}

// OccupiedByOtherShifts 计算第 index 个班次的器材冲突集合：
// 所有与它时间重叠的其他班次已选择的器材 ID。
// 检查只做两两比较：A 与 B 重叠、B 与 C 重叠并不意味着 A 的器材对 C 不可用。
func OccupiedByOtherShifts(shifts []DraftShift, index int) map[int64]struct{} {
	occupied := make(map[int64]struct{})
	if index < 0 || index >= len(shifts) {
		return occupied
	}

	target := shifts[index].Window
	for i, shift := range shifts {
		if i == index {
			continue
		}
		if !target.Overlaps(shift.Window) {
			continue
		}
		for _, id := range shift.Equipment.IDs() {
			occupied[id] = struct{}{}
		}
	}

	return occupied
}

// Selectable 判断某个器材对一个班次是否可选。
// 班次当前已选中的器材永远可选，防止编辑已有数据时把用户锁在外面；
// 其余器材必须既在台账上可用，又没有被同一表单的其他班次占用。
func Selectable(id int64, current *int64, available map[int64]struct{}, occupied map[int64]struct{}) bool {
	if current != nil && *current == id {
		return true
	}
	if _, ok := available[id]; !ok {
		return false
	}
	if _, ok := occupied[id]; ok {
		return false
	}
	return true
}
