// Package bot implements the Telegram update processing logic: the semester
// menu, per-semester course lists and course detail views.
package bot

import (
	"fmt"
	"strings"
)

// Callback actions. The payload format is "action$param", kept short because
// Telegram limits callback data to 64 bytes.
const (
	ActionSemester = "sem"
	ActionCourse   = "crs"
	ActionBack     = "back"

	// CallbackSplitChar separates the action from its parameter.
	CallbackSplitChar = "$"

	// BackToSemesters is the parameter of the back action.
	BackToSemesters = "sem"
)

// maxCallbackDataLen is the Telegram Bot API limit for callback data.
const maxCallbackDataLen = 64

// EncodeCallback builds a callback data token.
func EncodeCallback(action, param string) string {
	return action + CallbackSplitChar + param
}

// DecodeCallback splits a callback data token into action and parameter.
func DecodeCallback(data string) (action, param string, err error) {
	if data == "" {
		return "", "", fmt.Errorf("empty callback data")
	}
	if len(data) > maxCallbackDataLen {
		return "", "", fmt.Errorf("callback data too long: %d bytes", len(data))
	}

	action, param, found := strings.Cut(data, CallbackSplitChar)
	if !found || action == "" || param == "" {
		return "", "", fmt.Errorf("invalid callback data format: %q", data)
	}

	return action, param, nil
}
