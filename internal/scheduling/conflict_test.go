package scheduling

import (
	"testing"

	"github.com/campus-media-dev/equipment-manager/backend/internal/domain"
)

func idPtr(id int64) *int64 {
	return &id
}

func draft(startHour, endHour int, cameraID *int64) DraftShift {
	return DraftShift{
		Window:    Window{Start: at(startHour), End: atPtr(endHour)},
		Equipment: domain.ShiftEquipment{CameraID: cameraID},
	}
}

func TestOccupiedByOtherShifts(t *testing.T) {
	t.Run("时间重叠的班次互相占用器材", func(t *testing.T) {
		shifts := []DraftShift{
			draft(9, 13, idPtr(1)),
			draft(11, 15, idPtr(2)),
		}

		occupied := OccupiedByOtherShifts(shifts, 0)
		if _, ok := occupied[2]; !ok {
			t.Error("班次 0 应当看到班次 1 占用的器材 2")
		}

		occupied = OccupiedByOtherShifts(shifts, 1)
		if _, ok := occupied[1]; !ok {
			t.Error("班次 1 应当看到班次 0 占用的器材 1")
		}
	})

	t.Run("时间不重叠的班次互不占用", func(t *testing.T) {
		shifts := []DraftShift{
			draft(9, 11, idPtr(1)),
			draft(13, 15, idPtr(2)),
		}

		if occupied := OccupiedByOtherShifts(shifts, 0); len(occupied) != 0 {
			t.Errorf("不重叠的班次不应产生冲突，got %v", occupied)
		}
	})

	t.Run("冲突检查只做两两比较", func(t *testing.T) {
		// A 与 B 重叠、B 与 C 重叠，但 A 与 C 不重叠。
		// C 不应看到 A 的器材。
		shifts := []DraftShift{
			draft(9, 12, idPtr(1)),  // A
			draft(11, 14, idPtr(2)), // B
			draft(13, 16, idPtr(3)), // C
		}

		occupied := OccupiedByOtherShifts(shifts, 2)
		if _, ok := occupied[1]; ok {
			t.Error("器材 1 不应出现在班次 C 的冲突集合中")
		}
		if _, ok := occupied[2]; !ok {
			t.Error("器材 2 应当出现在班次 C 的冲突集合中")
		}
	})

	t.Run("首尾相接的班次可以共用器材", func(t *testing.T) {
		shifts := []DraftShift{
			draft(9, 11, idPtr(1)),
			draft(11, 13, idPtr(1)),
		}

		if occupied := OccupiedByOtherShifts(shifts, 1); len(occupied) != 0 {
			t.Errorf("首尾相接不算冲突，got %v", occupied)
		}
	})

	t.Run("重复计算结果一致", func(t *testing.T) {
		shifts := []DraftShift{
			draft(9, 13, idPtr(1)),
			draft(11, 15, idPtr(2)),
			draft(12, 16, idPtr(3)),
		}

		first := OccupiedByOtherShifts(shifts, 0)
		for i := 0; i < 10; i++ {
			again := OccupiedByOtherShifts(shifts, 0)
			if len(again) != len(first) {
				t.Fatalf("第 %d 次计算结果不一致：%v vs %v", i, again, first)
			}
			for id := range first {
				if _, ok := again[id]; !ok {
					t.Fatalf("第 %d 次计算缺少器材 %d", i, id)
				}
			}
		}
	})

	t.Run("下标越界返回空集合", func(t *testing.T) {
		shifts := []DraftShift{draft(9, 11, idPtr(1))}
		if occupied := OccupiedByOtherShifts(shifts, 5); len(occupied) != 0 {
			t.Errorf("越界下标应返回空集合，got %v", occupied)
		}
	})
}

func TestSelectable(t *testing.T) {
	available := map[int64]struct{}{1: {}, 2: {}}
	occupied := map[int64]struct{}{2: {}}

	tests := []struct {
		name    string
		id      int64
		current *int64
		want    bool
	}{
		{name: "可用且未被占用的器材可选", id: 1, want: true},
		{name: "被其他班次占用的器材不可选", id: 2, want: false},
		{name: "台账上不可用的器材不可选", id: 3, want: false},
		{name: "当前已选中的器材永远可选", id: 3, current: idPtr(3), want: true},
		{name: "当前选中的器材即使被占用也可选", id: 2, current: idPtr(2), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Selectable(tt.id, tt.current, available, occupied); got != tt.want {
				t.Errorf("Selectable(%d) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
