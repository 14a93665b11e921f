package domain

// Kind is the document type stored in the search index.
type Kind string

const (
	// KindClass is a course document from the class index.
	KindClass Kind = "class"
	// KindEmployee is a staff document from the employee index.
	KindEmployee Kind = "employee"
)

// IsValid reports whether the kind is known.
func (k Kind) IsValid() bool {
	return k == KindClass || k == KindEmployee
}

// DocumentRef points at a single index hit, in ranking order.
type DocumentRef struct {
	ID    string
	Kind  Kind
	Index string
	Score float64
}

// SearchItem is a display-ready hydrated hit: exactly one of Class or Employee is set.
type SearchItem struct {
	Type     Kind      `json:"type"`
	Class    *Course   `json:"class,omitempty"`
	Sections []Section `json:"sections,omitempty"`
	Employee *Employee `json:"employee,omitempty"`
}

// Course is a catalog course occurrence within a single term.
type Course struct {
	ID              string   `json:"id"`
	Host            string   `json:"host"`
	TermID          string   `json:"termId"`
	Subject         string   `json:"subject"`
	ClassID         string   `json:"classId"`
	Name            string   `json:"name"`
	Description     string   `json:"desc,omitempty"`
	MinCredits      int      `json:"minCredits"`
	MaxCredits      int      `json:"maxCredits"`
	ClassAttributes []string `json:"classAttributes,omitempty"`
	NUPath          []string `json:"nupath,omitempty"`
	ScheduleType    string   `json:"scheduleType,omitempty"`
	PrettyURL       string   `json:"prettyUrl,omitempty"`
}

// Section is one offering of a course.
type Section struct {
	CRN            string   `json:"crn"`
	SeatsCapacity  int      `json:"seatsCapacity"`
	SeatsRemaining int      `json:"seatsRemaining"`
	WaitCapacity   int      `json:"waitCapacity"`
	WaitRemaining  int      `json:"waitRemaining"`
	Online         bool     `json:"online"`
	Profs          []string `json:"profs,omitempty"`
}

// Employee is a staff directory entry.
type Employee struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	FirstName         string   `json:"firstName,omitempty"`
	LastName          string   `json:"lastName,omitempty"`
	Emails            []string `json:"emails,omitempty"`
	Phone             string   `json:"phone,omitempty"`
	PrimaryRole       string   `json:"primaryRole,omitempty"`
	PrimaryDepartment string   `json:"primaryDepartment,omitempty"`
}
