package scheduling

import (
	"math/rand"
	"testing"
	"time"

	"github.com/campus-media-dev/equipment-manager/backend/internal/domain"
)

func cameras(ids ...int64) []*domain.EquipmentItem {
	items := make([]*domain.EquipmentItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, &domain.EquipmentItem{ID: id, Category: domain.CategoryCamera, IsActive: true})
	}
	return items
}

func activeRecord(equipmentID int64, startHour int, endHour *int) *domain.AssignmentRecord {
	rec := &domain.AssignmentRecord{EquipmentID: equipmentID, WindowStart: at(startHour)}
	if endHour != nil {
		rec.WindowEnd = atPtr(*endHour)
	}
	return rec
}

func ids(items []*domain.EquipmentItem) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterAvailable(t *testing.T) {
	end := func(h int) *int { return &h }

	tests := []struct {
		name    string
		items   []*domain.EquipmentItem
		records []*domain.AssignmentRecord
		window  Window
		want    []int64
	}{
		{
			name:   "没有任何记录时全部可用",
			items:  cameras(1, 2, 3),
			window: Window{Start: at(9), End: atPtr(13)},
			want:   []int64{1, 2, 3},
		},
		{
			name:  "重叠记录占用对应器材",
			items: cameras(1, 2, 3),
			records: []*domain.AssignmentRecord{
				activeRecord(2, 10, end(12)),
			},
			window: Window{Start: at(9), End: atPtr(13)},
			want:   []int64{1, 3},
		},
		{
			name:  "不重叠的记录不影响可用性",
			items: cameras(1, 2, 3),
			records: []*domain.AssignmentRecord{
				activeRecord(2, 14, end(18)),
			},
			window: Window{Start: at(9), End: atPtr(13)},
			want:   []int64{1, 2, 3},
		},
		{
			name:  "不定期借用挡住它开始之后的所有查询",
			items: cameras(1, 2),
			records: []*domain.AssignmentRecord{
				activeRecord(1, 8, nil),
			},
			window: Window{Start: at(20), End: atPtr(22)},
			want:   []int64{2},
		},
		{
			name:  "零长度查询不与任何记录重叠",
			items: cameras(1, 2),
			records: []*domain.AssignmentRecord{
				activeRecord(1, 8, end(18)),
			},
			window: Window{Start: at(10), End: atPtr(10)},
			want:   []int64{1, 2},
		},
		{
			name:  "已归还的记录不占用器材",
			items: cameras(1, 2),
			records: []*domain.AssignmentRecord{
				func() *domain.AssignmentRecord {
					rec := activeRecord(1, 9, end(13))
					returned := at(12)
					rec.ReturnedAt = &returned
					return rec
				}(),
			},
			window: Window{Start: at(9), End: atPtr(13)},
			want:   []int64{1, 2},
		},
		{
			name:  "结果保持目录顺序",
			items: cameras(5, 3, 8, 1),
			records: []*domain.AssignmentRecord{
				activeRecord(3, 9, end(13)),
			},
			window: Window{Start: at(9), End: atPtr(13)},
			want:   []int64{5, 8, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterAvailable(tt.items, tt.records, tt.window)
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("FilterAvailable() = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

// 随机生成整点对齐的记录和查询时间段，用逐小时扫描作为独立的对照判断：
// 两个区间重叠当且仅当存在某个整点同时落在两个区间内。
func TestFilterAvailableRandomWindows(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	contains := func(w Window, h time.Time) bool {
		if h.Before(w.Start) {
			return false
		}
		return w.End == nil || h.Before(*w.End)
	}
	sweepOverlap := func(a, b Window) bool {
		for h := 0; h < 96; h++ {
			if contains(a, at(h)) && contains(b, at(h)) {
				return true
			}
		}
		return false
	}
	randomWindow := func(allowOpen bool) Window {
		start := at(rng.Intn(48))
		if allowOpen && rng.Intn(6) == 0 {
			return Window{Start: start}
		}
		// 偶尔生成零长度区间
		end := start.Add(time.Duration(rng.Intn(8)) * time.Hour)
		return Window{Start: start, End: &end}
	}

	items := cameras(1, 2, 3, 4, 5)

	for trial := 0; trial < 200; trial++ {
		records := make([]*domain.AssignmentRecord, 0)
		recordCount := rng.Intn(8)
		for i := 0; i < recordCount; i++ {
			w := randomWindow(true)
			records = append(records, &domain.AssignmentRecord{
				EquipmentID: int64(rng.Intn(5) + 1),
				WindowStart: w.Start,
				WindowEnd:   w.End,
			})
		}
		query := randomWindow(false)

		want := make([]int64, 0, len(items))
		for _, item := range items {
			occupied := false
			for _, rec := range records {
				if rec.EquipmentID == item.ID && sweepOverlap(query, RecordWindow(rec)) {
					occupied = true
					break
				}
			}
			if !occupied {
				want = append(want, item.ID)
			}
		}

		got := FilterAvailable(items, records, query)
		if !equalIDs(ids(got), want) {
			t.Fatalf("第 %d 轮: FilterAvailable() = %v, 对照结果 %v (查询 %v-%v)",
				trial, ids(got), want, query.Start, query.End)
		}
	}
}

// 同一器材先后两段不重叠的借用：中间的空档依然可借，
// 与第二段重叠的查询要把它筛掉。
func TestFilterAvailableBackToBackLoans(t *testing.T) {
	end := func(h int) *int { return &h }
	items := cameras(1)
	records := []*domain.AssignmentRecord{
		activeRecord(1, 8, end(10)),
		activeRecord(1, 14, end(18)),
	}

	gap := Window{Start: at(10), End: atPtr(14)}
	if got := FilterAvailable(items, records, gap); len(got) != 1 {
		t.Errorf("空档期应当可借，got %v", ids(got))
	}

	covering := Window{Start: at(13), End: atPtr(15)}
	if got := FilterAvailable(items, records, covering); len(got) != 0 {
		t.Errorf("与第二段重叠的查询不应可借，got %v", ids(got))
	}
}
