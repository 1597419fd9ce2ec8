package utils

import (
	"testing"

	"github.com/campus-media-dev/equipment-manager/backend/internal/domain"
)

func TestGenerateRandomOTP(t *testing.T) {
	for i := 0; i < 100; i++ {
		otp := GenerateRandomOTP()
		if len(otp) != 6 {
			t.Fatalf("otp = %q, want 6 位数字", otp)
		}
	}
}

func TestGenerateRandomPassword(t *testing.T) {
	if got := GenerateRandomPassword(12); len(got) != 12 {
		t.Errorf("len = %d, want 12", len(got))
	}
}

func TestGenerateRandomEquipment(t *testing.T) {
	for _, category := range domain.AllCategories {
		item := GenerateRandomEquipment(category)
		if item.Category != category {
			t.Errorf("category = %s, want %s", item.Category, category)
		}
		if item.Name == "" || item.Serial == "" {
			t.Errorf("生成的器材字段不完整: %+v", item)
		}
	}
}
