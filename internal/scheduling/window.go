package scheduling

import (
	"time"

	"github.com/campus-media-dev/equipment-manager/backend/internal/domain"
)

// Window 是一个左闭右开的时间区间 [Start, End)。
// End 为 nil 表示不定期借用，在重叠判断中视为正无穷。
type Window struct {
	Start time.Time
	End   *time.Time
}

// Overlaps 判断两个区间是否重叠：a.Start < b.End && b.Start < a.End。
// 零长度区间（Start == End）不与任何区间重叠。
func (w Window) Overlaps(other Window) bool {
	if w.End != nil && !w.Start.Before(*w.End) {
		return false
	}
	if other.End != nil && !other.Start.Before(*other.End) {
		return false
	}

	if w.End != nil && !other.Start.Before(*w.End) {
		return false
	}
	if other.End != nil && !w.Start.Before(*other.End) {
		return false
	}
	return true
}

// Validate 校验创建借用记录时的时间段。
// 有界区间要求开始时间严格早于结束时间；查询可用器材时允许零长度区间，
// 该校验只用在写入路径上。
func (w Window) Validate() error {
	if w.End != nil && !w.Start.Before(*w.End) {
		return domain.ErrInvalidWindow
	}
	return nil
}

// RecordWindow 取出一条借用记录对应的区间
func RecordWindow(rec *domain.AssignmentRecord) Window {
	return Window{Start: rec.WindowStart, End: rec.WindowEnd}
}
