package validation

// Error is a single user-correctable message. It carries no field reference
// on purpose: the views consume a flat, ordered list.
type Error struct {
	Message string `json:"message"`
}

// Errors is the ordered collection produced by one evaluation. Messages are
// appended in rule order and never deduplicated or reordered.
type Errors struct {
	list []Error
}

func (e *Errors) Add(message string) {
	e.list = append(e.list, Error{Message: message})
}

// Array returns the errors in the order they were collected. The name matches
// what the view layer iterates over.
func (e *Errors) Array() []Error {
	if e == nil {
		return nil
	}
	return e.list
}

func (e *Errors) Len() int {
	if e == nil {
		return 0
	}
	return len(e.list)
}

func (e *Errors) Messages() []string {
	msgs := make([]string, 0, e.Len())
	for _, err := range e.Array() {
		msgs = append(msgs, err.Message)
	}
	return msgs
}
