package ecode

// Field message suffixes shared by the HTTP surface and the CLI.
const (
	requiredMsg = "required"
	invalidMsg  = "invalid"
	negativeMsg = "must not be negative"
)

// FieldIsRequired reports a missing field, e.g. "index required".
func FieldIsRequired(field ...string) string { return fieldMsg(field, requiredMsg) }

// FieldIsInvalid reports a malformed field.
func FieldIsInvalid(field ...string) string { return fieldMsg(field, invalidMsg) }

// FieldIsNegative reports a field that must be >= 0.
func FieldIsNegative(field ...string) string { return fieldMsg(field, negativeMsg) }

func fieldMsg(field []string, msg string) string {
	if len(field) == 0 || field[0] == "" {
		return msg
	}
	return field[0] + " " + msg
}
