// Package validation 请求字段校验
// 收集全部失败字段，返回 字段 -> 原因 (empty / out_of_range / pattern)
package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"terminal-terrace/blog-service/internal/model/file"
	"terminal-terrace/blog-service/pkg/response"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// 使用 json 标签作为字段名
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return toSnakeCase(fld.Name)
			}
			return name
		})

		_ = validate.RegisterValidation("mimetype", func(fl validator.FieldLevel) bool {
			return file.MimeTypePattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Struct 校验结构体，全部通过时返回 nil
func Struct(v any) map[string]string {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"body": response.ReasonPattern}
	}

	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		key := fieldKey(fe)
		// 同一字段只保留第一个原因
		if _, exists := fields[key]; !exists {
			fields[key] = reason(fe)
		}
	}
	return fields
}

// Check 校验并包装成业务错误
func Check(v any) *response.BusinessError {
	if fields := Struct(v); fields != nil {
		return response.ValidationFailed(fields)
	}
	return nil
}

// reason 将 validator 标签映射为原因
func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_with", "required_without":
		return response.ReasonEmpty
	case "min":
		if fe.Param() == "1" {
			return response.ReasonEmpty
		}
		return response.ReasonOutOfRange
	case "max", "len", "gt", "gte", "lt", "lte":
		return response.ReasonOutOfRange
	default:
		return response.ReasonPattern
	}
}

// fieldKey 去掉结构体名前缀，保留嵌套与下标，如 tags[1]
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// toSnakeCase 将PascalCase转换为snake_case
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
