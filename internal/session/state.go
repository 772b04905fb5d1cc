package session

// Selection identifies the device a session is drilled into.
type Selection struct {
	DeviceNumber int    `json:"device_number"`
	ClientName   string `json:"client_name"`
}

// State is the selection state machine: Listing when Selection is nil,
// Detail otherwise. Only Select and Back transition it; date pickers and
// filters never touch it.
type State struct {
	Selection *Selection
}

func (s State) IsDetail() bool { return s.Selection != nil }

type Event interface {
	isEvent()
}

// Select moves Listing -> Detail (or retargets an existing Detail).
type Select struct {
	DeviceNumber int
	ClientName   string
}

// Back moves Detail -> Listing.
type Back struct{}

func (Select) isEvent() {}
func (Back) isEvent()   {}

// Apply is the whole transition function. Pure: rendering concerns never
// reach here, which is what makes the machine testable on its own.
func Apply(s State, ev Event) State {
	switch e := ev.(type) {
	case Select:
		return State{Selection: &Selection{DeviceNumber: e.DeviceNumber, ClientName: e.ClientName}}
	case Back:
		return State{}
	}
	return s
}
