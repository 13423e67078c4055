package controller

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInstalling
	PhaseInstalled
	PhaseActivating
	PhaseActivated
	PhaseRedundant
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInstalling:
		return "installing"
	case PhaseInstalled:
		return "installed"
	case PhaseActivating:
		return "activating"
	case PhaseActivated:
		return "activated"
	case PhaseRedundant:
		return "redundant"
	default:
		return "unknown"
	}
}
