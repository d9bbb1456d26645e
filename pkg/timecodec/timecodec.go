// Package timecodec 在墙钟字符串与"分钟数"整数域之间做双向转换。
// 求解器全程只在分钟数域内做算术，本包是唯一接触字符串格式的地方。
package timecodec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paiban/nurseday/pkg/errors"
	"github.com/paiban/nurseday/pkg/model"
)

// Parse 把 "HH:MM:SS"，或者以 "YYYY-MM-DDT" 前缀的 ISO 时间戳，转换成 Minute。
// 秒数部分可以省略；超出一天范围的小时/分钟会被拒绝。
func Parse(s string) (model.Minute, error) {
	timePart := s
	if idx := strings.LastIndex(s, "T"); idx >= 0 {
		timePart = s[idx+1:]
	}

	parts := strings.Split(timePart, ":")
	if len(parts) < 2 {
		return 0, badFormat(s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, badFormat(s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, badFormat(s)
	}

	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, badFormat(s)
	}

	minute := model.Minute(h*60 + m)
	if !minute.Valid() {
		return 0, badFormat(s)
	}
	return minute, nil
}

// Format 把 Minute 转换回零填充的 "HH:MM:00"，秒数固定为 "00"。
func Format(m model.Minute) string {
	h := int(m) / 60
	min := int(m) % 60
	return fmt.Sprintf("%02d:%02d:00", h, min)
}

// ExtractDeadline 从截止时间字段解析出当天的时刻。字面量 "None"（大小写不敏感）
// 以及空字符串都表示"无截止时间"，返回 (nil, nil)。跨日期的 ISO 时间戳只提取
// 时间部分，不区分是否跨日——见 DESIGN.md Open Question 2。
func ExtractDeadline(s string) (*model.Minute, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.EqualFold(trimmed, "none") {
		return nil, nil
	}
	minute, err := Parse(trimmed)
	if err != nil {
		return nil, err
	}
	return &minute, nil
}

func badFormat(s string) *errors.AppError {
	return errors.New(errors.CodeBadTimeFormat, fmt.Sprintf("无效的时间格式: %q", s))
}
