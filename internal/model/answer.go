package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AnswerKind 回答值的原始类型
type AnswerKind int

const (
	AnswerString AnswerKind = iota
	AnswerNumber
	AnswerBool
)

// AnswerValue 问卷回答的标量值。前端历史上会提交 string、number 或 boolean，
// 这里收敛成一个带标签的联合类型，字符串化和数值解析规则只在这里定义一次。
type AnswerValue struct {
	Kind AnswerKind
	Str  string
	Num  float64
	Bool bool
}

func StringAnswer(s string) AnswerValue {
	return AnswerValue{Kind: AnswerString, Str: s}
}

func NumberAnswer(f float64) AnswerValue {
	return AnswerValue{Kind: AnswerNumber, Num: f}
}

func BoolAnswer(b bool) AnswerValue {
	return AnswerValue{Kind: AnswerBool, Bool: b}
}

// String 统一的字符串化规则：数值不带多余小数位，布尔为 true/false
func (v AnswerValue) String() string {
	switch v.Kind {
	case AnswerNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case AnswerBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// Float 统一的数值解析规则：对字符串化后的值做一次通用浮点解析，
// 解析失败或非有限值返回 ok=false
func (v AnswerValue) Float() (float64, bool) {
	if v.Kind == AnswerNumber {
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return 0, false
		}
		return v.Num, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case AnswerNumber:
		return json.Marshal(v.Num)
	case AnswerBool:
		return json.Marshal(v.Bool)
	default:
		return json.Marshal(v.Str)
	}
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = BoolAnswer(b)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = NumberAnswer(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = StringAnswer(s)
		return nil
	}

	return fmt.Errorf("answer must be a string, number or boolean: %s", string(data))
}

// Value 数据库存储统一为字符串形式
func (v AnswerValue) Value() (driver.Value, error) {
	return v.String(), nil
}

// Scan 读库时恢复为字符串形式。聚合逻辑只依赖 String/Float，
// 原始类型标签在落库后不再还原。
func (v *AnswerValue) Scan(src interface{}) error {
	switch s := src.(type) {
	case nil:
		*v = StringAnswer("")
	case string:
		*v = StringAnswer(s)
	case []byte:
		*v = StringAnswer(string(s))
	default:
		return fmt.Errorf("cannot scan %T into AnswerValue", src)
	}
	return nil
}
