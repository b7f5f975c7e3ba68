package service

import "time"

// SubmissionWindow is the daily [StartHour, EndHour) range, in Loc, during which answers are accepted.
type SubmissionWindow struct {
	StartHour int
	EndHour   int
	Loc       *time.Location
}

func DefaultWindow() SubmissionWindow {
	return SubmissionWindow{StartHour: 10, EndHour: 19, Loc: time.Local}
}

func (w SubmissionWindow) location() *time.Location {
	if w.Loc == nil {
		return time.Local
	}
	return w.Loc
}

func (w SubmissionWindow) Contains(t time.Time) bool {
	h := t.In(w.location()).Hour()
	return h >= w.StartHour && h < w.EndHour
}
