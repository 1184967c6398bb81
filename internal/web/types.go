package web

// LunchView carries the server-rendered shell of the lunch page; live
// round data arrives over /api/lunch/today and /ws/lunch.
type LunchView struct {
	AnonName string
	Phase    string
	Date     string
	Deadline string
}
