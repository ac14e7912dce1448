package services

import (
	"encoding/json"
	"errors"
	"strings"
)

// ExtractJSON tách payload JSON từ text tự do mà AI trả về.
// Thứ tự thử: code block ```json → literal [..]/{..} đầu tiên → toàn bộ text.
// AI hay kèm văn xuôi trước/sau JSON nên không thể unmarshal thẳng.
func ExtractJSON(raw string) (string, error) {
	if block, ok := fencedJSONBlock(raw); ok {
		if json.Valid([]byte(block)) {
			return block, nil
		}
	}

	// Thử lần lượt từng vị trí mở ngoặc cho tới khi được JSON hợp lệ
	// (văn xuôi phía trước có thể chứa ngoặc vuông không phải JSON).
	rest := raw
	offset := 0
	for {
		literal, start, found := firstJSONLiteral(rest)
		if !found {
			break
		}
		if literal != "" && json.Valid([]byte(literal)) {
			return literal, nil
		}
		offset += start + 1
		if offset >= len(raw) {
			break
		}
		rest = raw[offset:]
	}

	trimmed := strings.TrimSpace(raw)
	if json.Valid([]byte(trimmed)) && trimmed != "" {
		return trimmed, nil
	}

	return "", errors.New("không tìm thấy JSON hợp lệ trong kết quả AI")
}

// fencedJSONBlock lấy phần bên trong block ```json ... ```
func fencedJSONBlock(raw string) (string, bool) {
	idx := strings.Index(raw, "```json")
	if idx == -1 {
		return "", false
	}
	rest := raw[idx+len("```json"):]
	end := strings.Index(rest, "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// firstJSONLiteral quét literal JSON array/object cân bằng ngoặc đầu tiên,
// bỏ qua ngoặc nằm trong chuỗi. found=true khi có ký tự mở ngoặc;
// literal rỗng nếu không cân bằng được.
func firstJSONLiteral(raw string) (literal string, start int, found bool) {
	start = -1
	var open, close byte
	for i := 0; i < len(raw); i++ {
		if raw[i] == '[' || raw[i] == '{' {
			start = i
			open = raw[i]
			if open == '[' {
				close = ']'
			} else {
				close = '}'
			}
			break
		}
	}
	if start == -1 {
		return "", 0, false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return raw[start : i+1], start, true
			}
		}
	}
	// Có mở ngoặc nhưng không cân bằng; caller sẽ thử vị trí kế tiếp
	return "", start, true
}
