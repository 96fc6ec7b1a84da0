package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	ErrStudentNotFound    = errors.New("学员不存在")
	ErrPaymentNotFound    = errors.New("缴费记录不存在")
	ErrNewsNotFound       = errors.New("新闻不存在")
	ErrExportNotFound     = errors.New("导出任务不存在")
	ErrInvalidCredentials = errors.New("用户名或密码错误")
)

// ValidationError 请求字段不合法，任何写操作之前返回
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// CascadeFailure 单条缴费记录的删除失败
type CascadeFailure struct {
	PaymentID int64  `json:"payment_id"`
	Error     string `json:"error"`
}

// CascadeError 删除学员时部分缴费记录未能删除，学员本身被保留
type CascadeError struct {
	StudentID int64            `json:"student_id"`
	Failures  []CascadeFailure `json:"failures"`
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("学员 %d 有 %d 条缴费记录删除失败", e.StudentID, len(e.Failures))
}

// PurgeError 清理孤立缴费记录时部分删除失败
type PurgeError struct {
	Failures []CascadeFailure `json:"failures"`
}

func (e *PurgeError) Error() string {
	return fmt.Sprintf("%d 条孤立缴费记录删除失败", len(e.Failures))
}

// 与 gin 的 binding 标签保持一致，字段名取 json 标签
var validate = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// validateStruct 校验请求结构体，返回第一个不合法字段
func validateStruct(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return AsValidationError(err)
	}
	return nil
}

// AsValidationError 把绑定/校验错误转换为 ValidationError
func AsValidationError(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := fe.Field()
		// gin 使用自己的校验器实例，字段名是 Go 结构体字段名
		if field == fe.StructField() {
			field = toSnake(field)
		}
		return &ValidationError{Field: field, Reason: reasonFor(fe)}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &ValidationError{Field: typeErr.Field, Reason: "类型错误"}
	}

	return &ValidationError{Field: "body", Reason: "请求格式错误"}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "不能为空"
	case "email":
		return "邮箱格式不正确"
	case "max":
		return fmt.Sprintf("长度不能超过 %s", fe.Param())
	case "min":
		return fmt.Sprintf("不能小于 %s", fe.Param())
	case "gt":
		return fmt.Sprintf("必须大于 %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("必须是 %s 之一", fe.Param())
	case "datetime":
		return "日期格式应为 YYYY-MM-DD"
	default:
		return fmt.Sprintf("校验失败: %s", fe.Tag())
	}
}

func toSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
