package util

type Envelope map[string]any

func Error(message string) Envelope {
	return Envelope{"error": message}
}

// CodedError adds a stable machine-readable code next to the message.
func CodedError(code, message string) Envelope {
	return Envelope{"error": message, "code": code}
}

func Data(key string, value any) Envelope {
	return Envelope{key: value}
}
