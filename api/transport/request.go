package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Title     *string `json:"title" validate:"required"`
	Completed *bool   `json:"completed"`
}

// UpdateTaskRequest is the body of PUT /tasks.
type UpdateTaskRequest struct {
	ID        *TaskID `json:"id" validate:"required"`
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// LoginRequest is the body of POST /auth/cookie/login. Both fields must be
// present; empty strings are left to the credential check.
type LoginRequest struct {
	Email    *string `json:"email" validate:"required"`
	Password *string `json:"password" validate:"required"`
}

var errTaskIDType = errors.New("must be integer or string")

// TaskID accepts a JSON number or a string and reads it like JavaScript's
// parseInt: leading digits count, the rest is ignored. Values without leading
// digits decode without error but leave Valid false, so callers can route
// them to the not-found path.
type TaskID struct {
	Value int64
	Valid bool
}

func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return errTaskIDType
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errTaskIDType
		}
		id.Value, id.Valid = ParseID(s)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		id.Value, id.Valid = parseNumber(data)
		return nil
	default:
		return errTaskIDType
	}
}

// parseNumber reads a JSON number through its shortest decimal form, so 1.0
// and 1e0 become 1 and 1.9 is truncated to 1.
func parseNumber(lit []byte) (int64, bool) {
	f, err := strconv.ParseFloat(string(lit), 64)
	if err != nil {
		return 0, false
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		// exponent notation: only the leading digit survives
		format = 'e'
	}
	return ParseID(strconv.FormatFloat(f, format, -1, 64))
}

// ParseID parses a task id from a path segment or body field. Surrounding
// whitespace is ignored, an optional sign and the leading run of digits are
// read and any trailing text is dropped; a 0x prefix switches to hex. It
// reports false when no digits lead the value or the number does not fit
// an int64.
func ParseID(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)

	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		sign, s = s[:1], s[1:]
	}

	base, isDigit := 10, isDecimal
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, isDigit, s = 16, isHex, s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	v, err := strconv.ParseInt(sign+s[:end], base, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isDecimal(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDecimal(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
