package service

type ViewState int

const (
	StateLoading ViewState = iota
	StatePopulated
	StateEmpty
	StateError
)

func (s ViewState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	case StateEmpty:
		return "empty"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

type SaveState int

const (
	SaveIdle SaveState = iota
	SaveSaving
	SaveError
)

func (s SaveState) String() string {
	switch s {
	case SaveIdle:
		return "idle"
	case SaveSaving:
		return "saving"
	case SaveError:
		return "error"
	default:
		return "unknown"
	}
}

func listState(n int) ViewState {
	if n == 0 {
		return StateEmpty
	}
	return StatePopulated
}
