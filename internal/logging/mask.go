package logging

import (
	"net/url"
	"strings"
)

const (
	// MaskChar is the character used for masking.
	MaskChar = "*"
	// DefaultMaskLength is how many mask characters to show.
	DefaultMaskLength = 3
)

// sensitiveKeywords mark field names whose values never reach a log line.
var sensitiveKeywords = []string{
	"token",
	"secret",
	"password",
	"credential",
	"private_key",
	"service_account",
	"authorization",
}

// IsSensitiveField checks if a field name indicates sensitive data.
func IsSensitiveField(fieldName string) bool {
	lower := strings.ToLower(fieldName)
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// MaskValue masks a sensitive value completely.
func MaskValue(value string) string {
	if value == "" {
		return ""
	}
	return strings.Repeat(MaskChar, min(len(value), 8))
}

// MaskSheetURL keeps the host and hides the document path, which acts as a
// capability for anyone the sheet is shared with by link.
func MaskSheetURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return MaskValue(raw)
	}
	return u.Scheme + "://" + u.Host + "/" + strings.Repeat(MaskChar, DefaultMaskLength)
}

// MaskArgs masks sensitive values in a slice of logging arguments.
// Arguments are expected in key-value pairs: key1, value1, key2, value2, ...
func MaskArgs(args []any) []any {
	if len(args) < 2 {
		return args
	}

	var result []any
	for i := 0; i < len(args)-1; i += 2 {
		key, ok := args[i].(string)
		if !ok || !IsSensitiveField(key) {
			continue
		}
		if result == nil {
			result = make([]any, len(args))
			copy(result, args)
		}
		if strVal, ok := args[i+1].(string); ok {
			result[i+1] = MaskValue(strVal)
		} else {
			result[i+1] = strings.Repeat(MaskChar, 8)
		}
	}
	if result == nil {
		return args
	}
	return result
}

// MaskSensitiveData masks sensitive values in a string map.
func MaskSensitiveData(m map[string]string) map[string]string {
	result := make(map[string]string, len(m))
	for key, value := range m {
		if IsSensitiveField(key) && value != "" {
			result[key] = "***"
		} else {
			result[key] = value
		}
	}
	return result
}
