package utils

import (
	"fmt"
	"time"

	"github.com/campus-media-dev/equipment-manager/backend/internal/domain"
)

// ValidateEventDays 校验活动日和班次的时间字段。
// 班次的器材冲突不在这里检查，由调度核心在提交时串行复查。
func ValidateEventDays(days []domain.EventDay) error {
	seenDates := make(map[string]bool)

	for i, day := range days {
		if _, err := time.Parse("2006-01-02", day.Date); err != nil {
			return fmt.Errorf("第 %d 个活动日的日期格式错误", i+1)
		}
		if seenDates[day.Date] {
			return fmt.Errorf("活动日 %s 重复", day.Date)
		}
		seenDates[day.Date] = true

		for j, shift := range day.Shifts {
			startTime, err := time.Parse("15:04", shift.StartTime)
			if err != nil {
				return fmt.Errorf("活动日 %s 第 %d 个班次的开始时间格式错误", day.Date, j+1)
			}
			endTime, err := time.Parse("15:04", shift.EndTime)
			if err != nil {
				return fmt.Errorf("活动日 %s 第 %d 个班次的结束时间格式错误", day.Date, j+1)
			}
			if !startTime.Before(endTime) {
				return fmt.Errorf("活动日 %s 第 %d 个班次的开始时间必须早于结束时间", day.Date, j+1)
			}

			switch shift.ShiftType {
			case domain.ShiftTypeRoutine, domain.ShiftTypeAdHoc, "":
			default:
				return fmt.Errorf("活动日 %s 第 %d 个班次的类型非法", day.Date, j+1)
			}
		}
	}

	return nil
}
