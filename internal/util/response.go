package util

// Envelope is the JSON response shape shared by all endpoints:
// {success, user|error, code?}.
type Envelope map[string]any

func Success(key string, value any) Envelope {
	return Envelope{"success": true, key: value}
}

func OK() Envelope {
	return Envelope{"success": true}
}

func Fail(message, code string) Envelope {
	return Envelope{"success": false, "error": message, "code": code}
}
