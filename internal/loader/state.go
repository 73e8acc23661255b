package loader

import "github.com/samvad-hq/image-gallery/internal/domain"

// Status is the phase of an aggregate load.
type Status string

const (
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// State is the view state of a load: loading, success with images, or error.
// Images is only set on success and Err only on error.
type State struct {
	Status Status
	Images []domain.Image
	Err    error
}

// Loading reports whether the load has not finished yet.
func (s State) Loading() bool { return s.Status == StatusLoading || s.Status == "" }

// Final reports whether the state is success or error.
func (s State) Final() bool { return s.Status == StatusSuccess || s.Status == StatusError }

// Message returns the error text shown to the user, or "".
func (s State) Message() string {
	if s.Status != StatusError || s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

func loadingState() State { return State{Status: StatusLoading} }

func successState(images []domain.Image) State {
	cp := make([]domain.Image, len(images))
	copy(cp, images)
	return State{Status: StatusSuccess, Images: cp}
}

func errorState(err error) State { return State{Status: StatusError, Err: err} }

// snapshot copies the image slice so callers cannot mutate loader state.
func (s State) snapshot() State {
	if s.Images != nil {
		cp := make([]domain.Image, len(s.Images))
		copy(cp, s.Images)
		s.Images = cp
	}
	return s
}
