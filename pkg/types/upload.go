package types

// Upload is a file accepted into form state, held in memory until the
// submission is sent.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// FormField is one text part of a multipart submission.
type FormField struct {
	Name  string
	Value string
}

// FilePart is one file part of a multipart submission.
type FilePart struct {
	Name   string
	Upload *Upload
}

// appendIfSet adds the field only when it carries a value. Optional fields
// are omitted from the payload rather than sent empty.
func appendIfSet(fields []FormField, name, value string) []FormField {
	if value == "" {
		return fields
	}
	return append(fields, FormField{Name: name, Value: value})
}
