package catalog

import "github.com/mrlokans/locallibrary/internal/entities"

type FieldType int

const (
	FieldText FieldType = iota
	FieldRef            // identifier of another record
	FieldDate
	FieldEnum
)

// FieldSpec declares how one input field is normalized, checked and sanitized.
type FieldSpec struct {
	Name     string
	Type     FieldType
	Required bool
	MinLen   int // trimmed length; defaults to 1 for required fields
	MaxLen   int // stored (escaped) length; 0 means unbounded
	Multi    bool
	Options  []string // allowed values of an enum field

	Message       string // presence failure
	FormatMessage string // date or enum failure
}

func (f FieldSpec) minLen() int {
	if f.MinLen > 0 {
		return f.MinLen
	}
	if f.Required {
		return 1
	}
	return 0
}

// refMaxLen matches the identifier columns.
const refMaxLen = 36

// Schema is the ordered field list of a record kind.
type Schema struct {
	Kind   entities.Kind
	Fields []FieldSpec
}

var AuthorSchema = Schema{
	Kind: entities.KindAuthor,
	Fields: []FieldSpec{
		{Name: "first_name", Type: FieldText, Required: true, MaxLen: 100, Message: "First name must be specified."},
		{Name: "family_name", Type: FieldText, Required: true, MaxLen: 100, Message: "Family name must be specified."},
		{Name: "date_of_birth", Type: FieldDate, FormatMessage: "Invalid date of birth"},
		{Name: "date_of_death", Type: FieldDate, FormatMessage: "Invalid date of death"},
	},
}

var GenreSchema = Schema{
	Kind: entities.KindGenre,
	Fields: []FieldSpec{
		{Name: "name", Type: FieldText, Required: true, MaxLen: 100, Message: "Genre name required"},
	},
}

var BookSchema = Schema{
	Kind: entities.KindBook,
	Fields: []FieldSpec{
		{Name: "title", Type: FieldText, Required: true, MaxLen: 512, Message: "Title must not be empty."},
		{Name: "author", Type: FieldRef, Required: true, MaxLen: refMaxLen, Message: "Author must not be empty."},
		{Name: "summary", Type: FieldText, Required: true, Message: "Summary must not be empty."},
		{Name: "isbn", Type: FieldText, Required: true, MaxLen: 64, Message: "ISBN must not be empty"},
		{Name: "genre", Type: FieldRef, Multi: true, MaxLen: refMaxLen},
	},
}

var BookInstanceSchema = Schema{
	Kind: entities.KindBookInstance,
	Fields: []FieldSpec{
		{Name: "book", Type: FieldRef, Required: true, MaxLen: refMaxLen, Message: "Book must be specified"},
		{Name: "imprint", Type: FieldText, Required: true, MaxLen: 512, Message: "Imprint must be specified"},
		{Name: "status", Type: FieldEnum, Options: statusOptions(), FormatMessage: "Invalid status"},
		{Name: "due_back", Type: FieldDate, FormatMessage: "Invalid date"},
	},
}

func statusOptions() []string {
	statuses := entities.BookInstanceStatuses()
	options := make([]string, 0, len(statuses))
	for _, s := range statuses {
		options = append(options, string(s))
	}
	return options
}
