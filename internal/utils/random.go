package utils

import (
	"fmt"
	"math/rand"

	"github.com/campus-media-dev/equipment-manager/backend/internal/domain"
	"github.com/mozillazg/go-pinyin"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var roles = []domain.Role{
	domain.RoleMember,
	domain.RoleEquipmentLead,
	domain.RoleAdmin,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, py := range pinyinArray {
		length := rand.Intn(len(py)) + 1
		username += py[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	password := make([]rune, length)
	for i := range password {
		password[i] = letters[rand.Intn(len(letters))]
	}
	return string(password)
}

var equipmentNamePools = map[domain.EquipmentCategory][]string{
	domain.CategoryCamera: {
		"索尼 FX3", "索尼 A7S3", "佳能 R5C", "佳能 R6", "松下 S5M2",
	},
	domain.CategoryLens: {
		"适马 24-70 F2.8", "索尼 16-35 GM", "佳能 RF 50 F1.8", "腾龙 28-75 G2", "老蛙 12mm T2.9",
	},
	domain.CategoryAdapter: {
		"佳能 EF-RF 转接环", "索尼 LA-EA5", "唯卓仕 EF-E II", "天工 LM-EA9",
	},
	domain.CategorySDCard: {
		"SanDisk 128G V60", "SanDisk 256G V90", "Lexar 128G V60", "Kingston 256G V60",
	},
}

var serialPrefixes = map[domain.EquipmentCategory]string{
	domain.CategoryCamera:  "CAM",
	domain.CategoryLens:    "LEN",
	domain.CategoryAdapter: "ADP",
	domain.CategorySDCard:  "SDC",
}

// GenerateRandomEquipment 生成一件某类别的随机器材，编号保证够随机不会撞库
func GenerateRandomEquipment(category domain.EquipmentCategory) *domain.EquipmentItem {
	pool := equipmentNamePools[category]

	return &domain.EquipmentItem{
		Name:     pool[rand.Intn(len(pool))],
		Serial:   fmt.Sprintf("%s-%05d", serialPrefixes[category], rand.Intn(100000)),
		Category: category,
	}
}
